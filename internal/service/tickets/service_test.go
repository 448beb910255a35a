package tickets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/notify"
	"github.com/kirinyoku/queuego/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vendorID = 100

type recordingEmitter struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (e *recordingEmitter) Emit(_ context.Context, ev notify.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return e.err
}

func (e *recordingEmitter) types() []notify.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]notify.EventType, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}

type limiterStub struct {
	allowed bool
	retry   time.Duration
}

func (l limiterStub) Allow(context.Context, string) (bool, int64, time.Duration, error) {
	return l.allowed, 0, l.retry, nil
}

type fixture struct {
	svc     *Service
	repo    *memory.Store
	clock   *clock.FakeClock
	emitter *recordingEmitter
	storeID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := memory.New()
	clk := clock.Fake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	em := &recordingEmitter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := New(repo, nil, nil, nil, em, nil, clk, logger)
	svc.secretCode = func() string { return "1234" }

	f := &fixture{svc: svc, repo: repo, clock: clk, emitter: em}
	f.storeID = f.addStore(t, true)

	return f
}

func (f *fixture) addStore(t *testing.T, open bool) int64 {
	t.Helper()
	id, err := f.repo.Stores().CreateStore(context.Background(), &domain.Store{
		OwnerID:                   vendorID,
		Name:                      "Clinic",
		Category:                  domain.CategoryDoctor,
		Deposit:                   500,
		DefaultServiceTimeMinutes: 5,
		IsOpen:                    open,
		IsActive:                  true,
		CreatedAt:                 f.clock.Now(),
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) join(t *testing.T, userID int64) *Issued {
	t.Helper()
	issued, err := f.svc.CreateTicket(context.Background(), f.storeID, userID)
	require.NoError(t, err)
	return issued
}

func (f *fixture) servingCount(t *testing.T) int {
	t.Helper()
	n := 0
	for _, userID := range []int64{1, 2, 3, 4, 5} {
		list, err := f.repo.Tickets().ListByUser(context.Background(), userID, []domain.TicketStatus{domain.StatusServing}, 0, 0)
		require.NoError(t, err)
		n += len(list)
	}
	return n
}

func (f *fixture) historyCount(t *testing.T) int {
	t.Helper()
	recs, err := f.repo.History().ListHistory(context.Background(), f.storeID, 100)
	require.NoError(t, err)
	return len(recs)
}

func TestCreateTicketNumbering(t *testing.T) {
	f := newFixture(t)

	a := f.join(t, 1)
	b := f.join(t, 2)

	assert.Equal(t, 1, a.Ticket.TicketNumber)
	assert.Equal(t, 1, a.Ticket.Position)
	assert.Equal(t, 0, a.EstimatedWaitTime)
	assert.Equal(t, domain.StatusWaiting, a.Ticket.Status)
	assert.Equal(t, int64(500), a.Ticket.DepositAmount)
	assert.Equal(t, "1234", a.Ticket.SecretCode)

	assert.Equal(t, 2, b.Ticket.TicketNumber)
	assert.Equal(t, 2, b.Ticket.Position)
	assert.Equal(t, 5, b.EstimatedWaitTime)

	// Cancellation never frees a number.
	_, err := f.svc.CancelTicket(context.Background(), b.Ticket.ID, 2)
	require.NoError(t, err)

	c := f.join(t, 3)
	assert.Equal(t, 3, c.Ticket.TicketNumber)
	assert.Equal(t, 2, c.Ticket.Position)
}

func TestCreateTicketRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateTicket(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	closed := f.addStore(t, false)
	_, err = f.svc.CreateTicket(ctx, closed, 1)
	assert.ErrorIs(t, err, ErrStoreClosed)

	inactive := f.addStore(t, true)
	require.NoError(t, f.repo.Stores().SetActive(ctx, inactive, false))
	_, err = f.svc.CreateTicket(ctx, inactive, 1)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	first := f.join(t, 1)
	_, err = f.svc.CreateTicket(ctx, f.storeID, 1)
	assert.ErrorIs(t, err, ErrActiveTicketExists)

	_, err = f.svc.CancelTicket(ctx, first.Ticket.ID, 1)
	require.NoError(t, err)

	again := f.join(t, 1)
	assert.Equal(t, 2, again.Ticket.TicketNumber)

	st, err := f.repo.Stores().GetStore(ctx, closed)
	require.NoError(t, err)
	assert.Equal(t, 0, st.LastTicketNumber, "rejected requests allocate no number")
}

func TestCreateTicketRateLimited(t *testing.T) {
	f := newFixture(t)
	f.svc.limiter = limiterStub{allowed: false, retry: 30 * time.Second}

	_, err := f.svc.CreateTicket(context.Background(), f.storeID, 1)
	require.ErrorIs(t, err, ErrRateLimited)

	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 30*time.Second, rl.RetryAfter)

	f.svc.limiter = limiterStub{allowed: true}
	f.join(t, 1)
}

func TestConcurrentCreateTicketYieldsDistinctNumbers(t *testing.T) {
	f := newFixture(t)
	const n = 40

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			issued, err := f.svc.CreateTicket(context.Background(), f.storeID, userID)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, issued.Ticket.TicketNumber)
			mu.Unlock()
		}(int64(i + 1))
	}
	wg.Wait()

	sort.Ints(numbers)
	require.Len(t, numbers, n)
	for i, num := range numbers {
		assert.Equal(t, i+1, num)
	}
}

func TestCallNextIsFIFOByNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i, num := range []int{7, 3, 5} {
		_, err := f.repo.Tickets().CreateTicket(ctx, &domain.Ticket{
			StoreID:      f.storeID,
			UserID:       int64(i + 1),
			TicketNumber: num,
			Status:       domain.StatusWaiting,
			CreatedAt:    f.clock.Now(),
		})
		require.NoError(t, err)
	}

	var order []int
	for j := 0; j < 3; j++ {
		called, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
		require.NoError(t, err)
		order = append(order, called.TicketNumber)
		assert.LessOrEqual(t, f.servingCount(t), 1)
	}

	assert.Equal(t, []int{3, 5, 7}, order)
	assert.Equal(t, 2, f.historyCount(t), "two tickets were displaced")
}

func TestCallNextQueueEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	a := f.join(t, 1)
	_, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)

	_, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	cur, err := f.repo.Tickets().GetTicket(ctx, a.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusServing, cur.Status, "failed call-next leaves the serving ticket alone")
	assert.Equal(t, 0, f.historyCount(t))
}

func TestVendorOperationsRequireOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.join(t, 1)

	_, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID+1)
	assert.ErrorIs(t, err, ErrNotStoreOwner)

	_, err = f.svc.SkipTicket(ctx, f.storeID, a.Ticket.ID, vendorID+1)
	assert.ErrorIs(t, err, ErrNotStoreOwner)

	_, err = f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID+1)
	assert.ErrorIs(t, err, ErrNotStoreOwner)

	_, err = f.svc.GetStoreQueue(ctx, f.storeID, vendorID+1)
	assert.ErrorIs(t, err, ErrNotStoreOwner)

	_, err = f.svc.CallNextTicket(ctx, 999, vendorID)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestCompleteCurrentTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	assert.ErrorIs(t, err, ErrNoTicketServing)

	f.join(t, 1)
	_, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)

	f.clock.Advance(7*time.Minute + 10*time.Second)

	done, err := f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 7, done.ServiceTimeMinutes)
	assert.Equal(t, domain.StatusCompleted, done.Ticket.Status)
	require.NotNil(t, done.Ticket.CompletedAt)

	recent, err := f.repo.History().RecentServiceTimes(ctx, f.storeID, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, recent)

	_, err = f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	assert.ErrorIs(t, err, ErrNoTicketServing)
}

func TestCancelTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.join(t, 1)

	_, err := f.svc.CancelTicket(ctx, a.Ticket.ID, 2)
	assert.ErrorIs(t, err, ErrTicketNotFound, "someone else's ticket")

	cancelled, err := f.svc.CancelTicket(ctx, a.Ticket.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CompletedAt)

	_, err = f.svc.CancelTicket(ctx, a.Ticket.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b := f.join(t, 2)
	_, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)

	before, err := f.repo.Tickets().GetTicket(ctx, b.Ticket.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelTicket(ctx, b.Ticket.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	after, err := f.repo.Tickets().GetTicket(ctx, b.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "completed ticket is unchanged")

	_, err = f.svc.CancelTicket(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestCancelServingWritesNoHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.join(t, 1)
	f.join(t, 2)

	_, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)

	_, err = f.svc.CancelTicket(ctx, a.Ticket.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.historyCount(t))

	// The slot is free, so the next call displaces nobody.
	_, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.historyCount(t))
}

func TestSkipTicket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.join(t, 1)
	b := f.join(t, 2)
	c := f.join(t, 3)

	called, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	require.Equal(t, a.Ticket.ID, called.ID)

	skipped, err := f.svc.SkipTicket(ctx, f.storeID, b.Ticket.ID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, skipped.Status)
	require.NotNil(t, skipped.CompletedAt)

	snap, err := f.svc.GetStoreQueue(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentTicket)
	assert.Equal(t, 1, *snap.CurrentTicket, "skip does not advance the queue")
	require.NotNil(t, snap.NextTicket)
	assert.Equal(t, c.Ticket.TicketNumber, *snap.NextTicket)

	_, err = f.svc.SkipTicket(ctx, f.storeID, a.Ticket.ID, vendorID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "serving tickets are completed, not skipped")

	_, err = f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	_, err = f.svc.SkipTicket(ctx, f.storeID, a.Ticket.ID, vendorID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "completed")

	other := f.addStore(t, true)
	_, err = f.svc.SkipTicket(ctx, other, c.Ticket.ID, vendorID)
	assert.ErrorIs(t, err, ErrTicketNotFound, "ticket of another store")

	assert.Equal(t, 1, f.historyCount(t))
}

func TestGetTicketAndQueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.join(t, 1)
	b := f.join(t, 2)
	c := f.join(t, 3)

	view, err := f.svc.GetTicket(ctx, c.Ticket.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, view.PeopleAhead)
	assert.Nil(t, view.CurrentlyServing)
	assert.Equal(t, 10, view.EstimatedWaitTime)
	assert.Equal(t, "Clinic", view.Store.Name)

	_, err = f.svc.GetTicket(ctx, c.Ticket.ID, 1)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, err = f.svc.CancelTicket(ctx, b.Ticket.ID, 2)
	require.NoError(t, err)

	view, err = f.svc.GetTicket(ctx, c.Ticket.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, view.PeopleAhead, "live count, not the stored position")
	assert.Equal(t, 3, view.Ticket.Position)

	snap, err := f.svc.GetStoreQueue(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentTicket)
	require.NotNil(t, snap.NextTicket)
	assert.Equal(t, a.Ticket.TicketNumber, *snap.NextTicket)
	assert.Equal(t, 2, snap.QueueLength)
	require.Len(t, snap.WaitingTickets, 2)
	assert.Equal(t, 1, snap.WaitingTickets[0].TicketNumber)
	assert.Equal(t, 3, snap.WaitingTickets[1].TicketNumber)
}

func TestListActiveAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := f.addStore(t, true)

	first, err := f.svc.CreateTicket(ctx, f.storeID, 1)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.svc.CreateTicket(ctx, second, 1)
	require.NoError(t, err)

	active, err := f.svc.ListActiveTickets(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, second, active[0].Ticket.StoreID, "newest first")

	_, err = f.svc.CancelTicket(ctx, first.Ticket.ID, 1)
	require.NoError(t, err)

	active, err = f.svc.ListActiveTickets(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	hist, err := f.svc.ListTicketHistory(ctx, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, domain.StatusCancelled, hist[0].Status)

	hist, err = f.svc.ListTicketHistory(ctx, 1, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, hist)

	_, err = f.svc.ListTicketHistory(ctx, 1, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.join(t, 1)
	assert.Equal(t, 1, a.Ticket.TicketNumber)
	assert.Equal(t, 1, a.Ticket.Position)
	assert.Equal(t, 0, a.EstimatedWaitTime)

	b := f.join(t, 2)
	assert.Equal(t, 2, b.Ticket.TicketNumber)
	assert.Equal(t, 2, b.Ticket.Position)
	assert.Equal(t, 5, b.EstimatedWaitTime)

	called, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 1, called.TicketNumber)
	assert.Equal(t, domain.StatusServing, called.Status)

	view, err := f.svc.GetTicket(ctx, b.Ticket.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, view.PeopleAhead)
	assert.Equal(t, 0, view.EstimatedWaitTime)
	require.NotNil(t, view.CurrentlyServing)
	assert.Equal(t, 1, *view.CurrentlyServing)

	f.clock.Advance(8 * time.Minute)
	done, err := f.svc.CompleteCurrentTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 8, done.ServiceTimeMinutes)

	called, err = f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, 2, called.TicketNumber)
	assert.Equal(t, 1, f.historyCount(t), "ticket #1 was completed explicitly, not displaced again")

	// A newcomer now waits behind nobody, then someone joins behind them:
	// 0.7*8 + 0.3*5 = 7.1 per person.
	f.join(t, 3)
	d := f.join(t, 4)
	assert.Equal(t, 7, d.EstimatedWaitTime)

	assert.Equal(t, []notify.EventType{
		notify.EventTicketCreated,
		notify.EventTicketCreated,
		notify.EventTicketCalled,
		notify.EventTicketCompleted,
		notify.EventTicketCalled,
		notify.EventTicketCreated,
		notify.EventTicketCreated,
	}, f.emitter.types())
}

func TestNotificationFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.emitter.err = errors.New("queue unavailable")

	a := f.join(t, 1)

	called, err := f.svc.CallNextTicket(ctx, f.storeID, vendorID)
	require.NoError(t, err)
	assert.Equal(t, a.Ticket.ID, called.ID)

	stored, err := f.repo.Tickets().GetTicket(ctx, a.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusServing, stored.Status)
	assert.Len(t, f.emitter.events, 2)
}

func TestEventsCarryTicketDetails(t *testing.T) {
	f := newFixture(t)
	f.join(t, 1)
	f.join(t, 2)

	require.Len(t, f.emitter.events, 2)
	ev := f.emitter.events[1]
	assert.Equal(t, notify.EventTicketCreated, ev.Type)
	assert.Equal(t, "Clinic", ev.StoreName)
	assert.Equal(t, int64(2), ev.UserID)
	assert.Equal(t, 2, ev.TicketNumber)
	assert.Equal(t, 2, ev.Position)
	assert.Equal(t, 5, ev.EstimatedWait)
	assert.Equal(t, "1234", ev.SecretCode)
}
