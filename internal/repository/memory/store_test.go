package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, s *Store) int64 {
	t.Helper()
	id, err := s.Stores().CreateStore(context.Background(), &domain.Store{
		OwnerID:                   1,
		Name:                      "Clinic",
		Category:                  domain.CategoryDoctor,
		DefaultServiceTimeMinutes: 5,
		IsOpen:                    true,
		IsActive:                  true,
		CreatedAt:                 time.Now(),
	})
	require.NoError(t, err)
	return id
}

func TestRunTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	storeID := seedStore(t, s)

	boom := errors.New("boom")
	err := s.RunTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		n, err := tx.Stores().NextTicketNumber(ctx, storeID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = tx.Tickets().CreateTicket(ctx, &domain.Ticket{
			StoreID: storeID, UserID: 7, TicketNumber: n, Status: domain.StatusWaiting,
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.Tickets().CountWaiting(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	st, err := s.Stores().GetStore(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 0, st.LastTicketNumber)
}

func TestUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := New()
	storeID := seedStore(t, s)

	first, err := s.Tickets().CreateTicket(ctx, &domain.Ticket{
		StoreID: storeID, UserID: 1, TicketNumber: 1, Status: domain.StatusServing,
	})
	require.NoError(t, err)

	_, err = s.Tickets().CreateTicket(ctx, &domain.Ticket{
		StoreID: storeID, UserID: 1, TicketNumber: 2, Status: domain.StatusWaiting,
	})
	assert.ErrorIs(t, err, repository.ErrConflict, "second active ticket for the same user")

	_, err = s.Tickets().CreateTicket(ctx, &domain.Ticket{
		StoreID: storeID, UserID: 2, TicketNumber: 1, Status: domain.StatusWaiting,
	})
	assert.ErrorIs(t, err, repository.ErrConflict, "duplicate ticket number")

	second, err := s.Tickets().CreateTicket(ctx, &domain.Ticket{
		StoreID: storeID, UserID: 2, TicketNumber: 2, Status: domain.StatusWaiting,
	})
	require.NoError(t, err)

	tk, err := s.Tickets().GetTicket(ctx, second)
	require.NoError(t, err)
	tk.Status = domain.StatusServing
	assert.ErrorIs(t, s.Tickets().UpdateTicket(ctx, tk), repository.ErrConflict, "two serving tickets")

	cur, err := s.Tickets().ServingTicket(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, first, cur.ID)
}

func TestNextWaitingIsSmallestNumber(t *testing.T) {
	ctx := context.Background()
	s := New()
	storeID := seedStore(t, s)

	for i, num := range []int{7, 3, 5} {
		_, err := s.Tickets().CreateTicket(ctx, &domain.Ticket{
			StoreID: storeID, UserID: int64(i + 1), TicketNumber: num, Status: domain.StatusWaiting,
		})
		require.NoError(t, err)
	}

	next, err := s.Tickets().NextWaiting(ctx, storeID)
	require.NoError(t, err)
	assert.Equal(t, 3, next.TicketNumber)

	ahead, err := s.Tickets().CountWaitingBefore(ctx, storeID, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, ahead)

	waiting, err := s.Tickets().ListWaiting(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, waiting, 3)
	assert.Equal(t, []int{3, 5, 7}, []int{
		waiting[0].TicketNumber, waiting[1].TicketNumber, waiting[2].TicketNumber,
	})
}

func TestHistoryOncePerTicket(t *testing.T) {
	ctx := context.Background()
	s := New()
	storeID := seedStore(t, s)
	now := time.Now()

	_, err := s.History().AppendHistory(ctx, &domain.ServiceHistoryRecord{
		StoreID: storeID, TicketID: 1, ServiceTimeMinutes: 4, CompletedAt: now,
	})
	require.NoError(t, err)

	_, err = s.History().AppendHistory(ctx, &domain.ServiceHistoryRecord{
		StoreID: storeID, TicketID: 1, ServiceTimeMinutes: 9, CompletedAt: now,
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	for i, m := range []int{10, 20, 30, 40} {
		_, err := s.History().AppendHistory(ctx, &domain.ServiceHistoryRecord{
			StoreID:            storeID,
			TicketID:           int64(100 + i),
			ServiceTimeMinutes: m,
			CompletedAt:        now.Add(time.Duration(i+1) * time.Minute),
		})
		require.NoError(t, err)
	}

	recent, err := s.History().RecentServiceTimes(ctx, storeID, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 30, 20}, recent)
}
