// Package tickets is the ticket lifecycle engine: issuing, cancelling and
// advancing tickets through a store's queue.
//
// Every mutation locks the store row first, so number allocation and
// call-next are serialized per store. Side effects (cache invalidation,
// change broadcast and customer notifications) run after commit and never
// fail the operation.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/notify"
	"github.com/kirinyoku/queuego/internal/repository"
	"github.com/kirinyoku/queuego/internal/service/estimator"
	"github.com/kirinyoku/queuego/internal/service/history"
	"github.com/kirinyoku/queuego/internal/uow"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Limiter bounds how often one user may request tickets.
type Limiter interface {
	Allow(ctx context.Context, id string) (allowed bool, current int64, retryAfter time.Duration, err error)
}

// Invalidator drops cached store projections.
type Invalidator interface {
	InvalidateStore(ctx context.Context, storeID int64) error
}

// Publisher tells other instances that a queue changed.
type Publisher interface {
	PublishQueueChanged(ctx context.Context, storeID int64) error
}

// Issued is a freshly created ticket with the wait predicted at issuance.
type Issued struct {
	Ticket            domain.Ticket `json:"ticket"`
	EstimatedWaitTime int           `json:"estimated_wait_time"`
}

// Completion is a finished ticket with its recorded service time.
type Completion struct {
	Ticket             domain.Ticket `json:"ticket"`
	ServiceTimeMinutes int           `json:"service_time_minutes"`
}

type Service struct {
	store     repository.Store
	cache     Invalidator
	pubsub    Publisher
	limiter   Limiter
	emitter   notify.Emitter
	estimator *estimator.Estimator
	history   *history.Recorder
	clock     clock.Clock
	logger    *slog.Logger
	uow       *uow.UoW

	secretCode func() string
}

// New builds the engine. cache, pubsub, limiter and emitter are optional.
func New(
	store repository.Store,
	cache Invalidator,
	pubsub Publisher,
	limiter Limiter,
	emitter notify.Emitter,
	est *estimator.Estimator,
	clk clock.Clock,
	logger *slog.Logger,
) *Service {
	if clk == nil {
		clk = clock.Real()
	}

	if logger == nil {
		logger = slog.Default()
	}

	if est == nil {
		est = estimator.New(logger)
	}

	return &Service{
		store:      store,
		cache:      cache,
		pubsub:     pubsub,
		limiter:    limiter,
		emitter:    emitter,
		estimator:  est,
		history:    history.New(store),
		clock:      clk,
		logger:     logger,
		uow:        uow.NewUoW(store),
		secretCode: randomSecretCode,
	}
}

func randomSecretCode() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

// CreateTicket issues the next ticket of a store to userID.
//
// Parameters:
//   - ctx: request-scoped context.
//   - storeID: ID of the store to queue at.
//   - userID: ID of the customer.
//
// Returns:
//   - *Issued: the ticket and the estimated wait in minutes.
//   - error: tickets.ErrStoreNotFound if the store is missing or inactive.
//   - error: tickets.ErrStoreClosed if the store is not open.
//   - error: tickets.ErrActiveTicketExists if the user already queues there.
//   - error: *tickets.RateLimitedError if the user asked too often.
func (s *Service) CreateTicket(ctx context.Context, storeID, userID int64) (*Issued, error) {
	const op = "service.tickets.CreateTicket"

	if s.limiter != nil {
		ok, _, retry, err := s.limiter.Allow(ctx, strconv.FormatInt(userID, 10))
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, &RateLimitedError{RetryAfter: retry})
		}
	}

	var issued Issued

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		store, err := lockActiveStore(ctx, tx, storeID)
		if err != nil {
			return err
		}

		if !store.AcceptingTickets() {
			return ErrStoreClosed
		}

		_, err = tx.Tickets().FindActiveTicket(ctx, storeID, userID)
		switch {
		case err == nil:
			return ErrActiveTicketExists
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		waiting, err := tx.Tickets().CountWaiting(ctx, storeID)
		if err != nil {
			return err
		}

		number, err := tx.Stores().NextTicketNumber(ctx, storeID)
		if err != nil {
			return err
		}

		t := domain.Ticket{
			StoreID:       storeID,
			UserID:        userID,
			TicketNumber:  number,
			SecretCode:    s.secretCode(),
			Status:        domain.StatusWaiting,
			Position:      waiting + 1,
			CreatedAt:     s.clock.Now(),
			DepositAmount: store.Deposit,
		}

		id, err := tx.Tickets().CreateTicket(ctx, &t)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrActiveTicketExists
			}
			return err
		}
		t.ID = id

		issued = Issued{
			Ticket:            t,
			EstimatedWaitTime: s.estimator.EstimateWait(ctx, tx.History(), store, waiting),
		}

		ev := newEvent(notify.EventTicketCreated, store, &t)
		ev.Position = t.Position
		ev.EstimatedWait = issued.EstimatedWaitTime
		ev.OccurredAt = t.CreatedAt

		after(func(ctx context.Context) {
			s.changed(ctx, storeID)
			s.emit(ctx, ev)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, mapTxErr(err))
	}

	s.logger.Info("ticket issued",
		slog.Int64("store_id", storeID),
		slog.Int64("ticket_id", issued.Ticket.ID),
		slog.Int("ticket_number", issued.Ticket.TicketNumber),
	)

	return &issued, nil
}

// GetTicket returns a ticket of userID with its live queue figures.
// Someone else's ticket is reported as not found.
func (s *Service) GetTicket(ctx context.Context, ticketID, userID int64) (*domain.TicketView, error) {
	const op = "service.tickets.GetTicket"

	t, err := s.store.Tickets().GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if t.UserID != userID {
		return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
	}

	view, err := s.annotate(ctx, s.store, t)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return view, nil
}

// CancelTicket withdraws userID's ticket from the queue. Cancelling does
// not write service history, even for a ticket that was being served.
func (s *Service) CancelTicket(ctx context.Context, ticketID, userID int64) (*domain.Ticket, error) {
	const op = "service.tickets.CancelTicket"

	t, err := s.store.Tickets().GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if t.UserID != userID {
		return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
	}

	var cancelled domain.Ticket

	err = s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		if _, err := tx.Stores().LockStore(ctx, t.StoreID); err != nil {
			return err
		}

		// Re-read under the lock; the vendor may have moved it meanwhile.
		cur, err := tx.Tickets().GetTicket(ctx, ticketID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(domain.ActionCancel, cur.Status) {
			return ErrInvalidTransition
		}

		now := s.clock.Now()
		cur.Status, _ = domain.Target(domain.ActionCancel)
		cur.CancelledAt = &now
		cur.CompletedAt = &now

		if err := tx.Tickets().UpdateTicket(ctx, cur); err != nil {
			return err
		}

		cancelled = *cur

		after(func(ctx context.Context) {
			s.changed(ctx, cur.StoreID)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, mapTxErr(err))
	}

	return &cancelled, nil
}

// CallNextTicket moves the lowest-numbered waiting ticket into the serving
// slot. A ticket already being served is completed first and its service
// time recorded.
//
// Returns:
//   - *domain.Ticket: the ticket now being served.
//   - error: tickets.ErrQueueEmpty if nobody is waiting; nothing changes.
//   - error: tickets.ErrNotStoreOwner or tickets.ErrStoreNotFound.
func (s *Service) CallNextTicket(ctx context.Context, storeID, ownerID int64) (*domain.Ticket, error) {
	const op = "service.tickets.CallNextTicket"

	var called domain.Ticket

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		store, err := lockOwnedStore(ctx, tx, storeID, ownerID)
		if err != nil {
			return err
		}

		next, err := tx.Tickets().NextWaiting(ctx, storeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrQueueEmpty
			}
			return err
		}

		now := s.clock.Now()

		serving, err := tx.Tickets().ServingTicket(ctx, storeID)
		switch {
		case err == nil:
			if _, err := s.complete(ctx, tx, serving, now); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if !domain.CanTransition(domain.ActionCall, next.Status) {
			return ErrInvalidTransition
		}

		next.Status, _ = domain.Target(domain.ActionCall)
		next.CalledAt = &now
		next.ServedAt = &now

		if err := tx.Tickets().UpdateTicket(ctx, next); err != nil {
			return err
		}

		called = *next

		ev := newEvent(notify.EventTicketCalled, store, next)
		ev.OccurredAt = now

		after(func(ctx context.Context) {
			s.changed(ctx, storeID)
			s.emit(ctx, ev)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, mapTxErr(err))
	}

	return &called, nil
}

// SkipTicket marks a waiting or called ticket as a no-show. The serving
// slot is left as it is.
func (s *Service) SkipTicket(ctx context.Context, storeID, ticketID, ownerID int64) (*domain.Ticket, error) {
	const op = "service.tickets.SkipTicket"

	var skipped domain.Ticket

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		if _, err := lockOwnedStore(ctx, tx, storeID, ownerID); err != nil {
			return err
		}

		t, err := tx.Tickets().GetTicket(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketNotFound
			}
			return err
		}

		if t.StoreID != storeID {
			return ErrTicketNotFound
		}

		if !domain.CanTransition(domain.ActionSkip, t.Status) {
			return ErrInvalidTransition
		}

		now := s.clock.Now()
		t.Status, _ = domain.Target(domain.ActionSkip)
		t.CompletedAt = &now

		if err := tx.Tickets().UpdateTicket(ctx, t); err != nil {
			return err
		}

		skipped = *t

		after(func(ctx context.Context) {
			s.changed(ctx, storeID)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, mapTxErr(err))
	}

	return &skipped, nil
}

// CompleteCurrentTicket finishes the ticket in the serving slot and
// records its service time.
func (s *Service) CompleteCurrentTicket(ctx context.Context, storeID, ownerID int64) (*Completion, error) {
	const op = "service.tickets.CompleteCurrentTicket"

	var done Completion

	err := s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		store, err := lockOwnedStore(ctx, tx, storeID, ownerID)
		if err != nil {
			return err
		}

		serving, err := tx.Tickets().ServingTicket(ctx, storeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoTicketServing
			}
			return err
		}

		now := s.clock.Now()
		rec, err := s.complete(ctx, tx, serving, now)
		if err != nil {
			return err
		}

		done = Completion{Ticket: *serving, ServiceTimeMinutes: rec.ServiceTimeMinutes}

		ev := newEvent(notify.EventTicketCompleted, store, serving)
		ev.ServiceMinutes = rec.ServiceTimeMinutes
		ev.OccurredAt = now

		after(func(ctx context.Context) {
			s.changed(ctx, storeID)
			s.emit(ctx, ev)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, mapTxErr(err))
	}

	return &done, nil
}

// GetStoreQueue is the vendor's view of the queue: who is served, who is
// next and everyone waiting in call order.
func (s *Service) GetStoreQueue(ctx context.Context, storeID, ownerID int64) (*domain.QueueSnapshot, error) {
	const op = "service.tickets.GetStoreQueue"

	store, err := s.store.Stores().GetStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrStoreNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !store.IsActive {
		return nil, fmt.Errorf("%s:%w", op, ErrStoreNotFound)
	}

	if store.OwnerID != ownerID {
		return nil, fmt.Errorf("%s:%w", op, ErrNotStoreOwner)
	}

	current, err := s.currentlyServing(ctx, s.store, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	waiting, err := s.store.Tickets().ListWaiting(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	snap := &domain.QueueSnapshot{
		StoreID:        storeID,
		CurrentTicket:  current,
		QueueLength:    len(waiting),
		WaitingTickets: waiting,
	}

	if len(waiting) > 0 {
		next := waiting[0].TicketNumber
		snap.NextTicket = &next
	}

	return snap, nil
}

// ListActiveTickets returns the user's non-terminal tickets across all
// stores, newest first, each with live queue figures.
func (s *Service) ListActiveTickets(ctx context.Context, userID int64) ([]domain.TicketView, error) {
	const op = "service.tickets.ListActiveTickets"

	list, err := s.store.Tickets().ListByUser(ctx, userID, domain.ActiveStatuses, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out := make([]domain.TicketView, 0, len(list))
	for i := range list {
		view, err := s.annotate(ctx, s.store, &list[i])
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		out = append(out, *view)
	}

	return out, nil
}

// ListTicketHistory pages through the user's finished tickets, newest
// first. limit is clamped to 1..100 and defaults to 20.
func (s *Service) ListTicketHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Ticket, error) {
	const op = "service.tickets.ListTicketHistory"

	if offset < 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	out, err := s.store.Tickets().ListByUser(ctx, userID, domain.TerminalStatuses, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// complete moves t from serving to completed and writes its history
// record in the same transaction.
func (s *Service) complete(
	ctx context.Context,
	tx repository.Repos,
	t *domain.Ticket,
	now time.Time,
) (*domain.ServiceHistoryRecord, error) {
	if !domain.CanTransition(domain.ActionComplete, t.Status) {
		return nil, ErrInvalidTransition
	}

	t.Status, _ = domain.Target(domain.ActionComplete)
	t.CompletedAt = &now

	if err := tx.Tickets().UpdateTicket(ctx, t); err != nil {
		return nil, err
	}

	rec, err := s.history.Record(ctx, tx.History(), t, now)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) annotate(ctx context.Context, repos repository.Repos, t *domain.Ticket) (*domain.TicketView, error) {
	store, err := repos.Stores().GetStore(ctx, t.StoreID)
	if err != nil {
		return nil, err
	}

	ahead := 0
	if t.Status == domain.StatusWaiting {
		ahead, err = repos.Tickets().CountWaitingBefore(ctx, t.StoreID, t.TicketNumber)
		if err != nil {
			return nil, err
		}
	}

	current, err := s.currentlyServing(ctx, repos, t.StoreID)
	if err != nil {
		return nil, err
	}

	return &domain.TicketView{
		Ticket:            *t,
		Store:             *store,
		PeopleAhead:       ahead,
		CurrentlyServing:  current,
		EstimatedWaitTime: s.estimator.EstimateWait(ctx, repos.History(), store, ahead),
	}, nil
}

func (s *Service) currentlyServing(ctx context.Context, repos repository.Repos, storeID int64) (*int, error) {
	serving, err := repos.Tickets().ServingTicket(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &serving.TicketNumber, nil
}

func (s *Service) changed(ctx context.Context, storeID int64) {
	if s.cache != nil {
		if err := s.cache.InvalidateStore(ctx, storeID); err != nil {
			s.logger.Warn("store cache invalidation failed",
				slog.Int64("store_id", storeID),
				slog.Any("error", err),
			)
		}
	}

	if s.pubsub != nil {
		if err := s.pubsub.PublishQueueChanged(ctx, storeID); err != nil {
			s.logger.Warn("queue change publish failed",
				slog.Int64("store_id", storeID),
				slog.Any("error", err),
			)
		}
	}
}

func (s *Service) emit(ctx context.Context, ev notify.Event) {
	if s.emitter == nil {
		return
	}

	if err := s.emitter.Emit(ctx, ev); err != nil {
		s.logger.Warn("notification dropped",
			slog.String("type", string(ev.Type)),
			slog.Int64("ticket_id", ev.TicketID),
			slog.Any("error", err),
		)
	}
}

func newEvent(typ notify.EventType, store *domain.Store, t *domain.Ticket) notify.Event {
	return notify.Event{
		Type:         typ,
		TicketID:     t.ID,
		StoreID:      store.ID,
		StoreName:    store.Name,
		UserID:       t.UserID,
		TicketNumber: t.TicketNumber,
		SecretCode:   t.SecretCode,
	}
}

func lockActiveStore(ctx context.Context, tx repository.Repos, storeID int64) (*domain.Store, error) {
	store, err := tx.Stores().LockStore(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if !store.IsActive {
		return nil, ErrStoreNotFound
	}

	return store, nil
}

func lockOwnedStore(ctx context.Context, tx repository.Repos, storeID, ownerID int64) (*domain.Store, error) {
	store, err := lockActiveStore(ctx, tx, storeID)
	if err != nil {
		return nil, err
	}

	if store.OwnerID != ownerID {
		return nil, ErrNotStoreOwner
	}

	return store, nil
}

// mapTxErr reports lost races on the ticket indexes, and transactions the
// database kept aborting, as concurrent updates.
func mapTxErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrRetryable):
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrTicketNotFound, err)
	}
	return err
}
