package repository

import (
	"context"

	"github.com/kirinyoku/queuego/internal/domain"
)

// StoreRepo persists stores and their ticket counters.
type StoreRepo interface {
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	// LockStore reads a store and holds it exclusively until the surrounding
	// transaction ends. It is the per-store serialization point for ticket
	// issuance and queue transitions.
	LockStore(ctx context.Context, id int64) (*domain.Store, error)
	ListStores(ctx context.Context, f domain.StoreFilter) ([]domain.StoreSummary, error)
	ListStoresByOwner(ctx context.Context, ownerID int64) ([]domain.Store, error)
	CreateStore(ctx context.Context, s *domain.Store) (int64, error)
	UpdateStore(ctx context.Context, s *domain.Store) error
	SetOpen(ctx context.Context, id int64, open bool) error
	SetActive(ctx context.Context, id int64, active bool) error
	// NextTicketNumber increments the store's counter and returns the new value.
	NextTicketNumber(ctx context.Context, storeID int64) (int, error)
}

type CatalogRepo interface {
	ListServices(ctx context.Context, storeID int64) ([]domain.StoreService, error)
	GetService(ctx context.Context, id int64) (*domain.StoreService, error)
	AddService(ctx context.Context, svc *domain.StoreService) (int64, error)
	DeleteService(ctx context.Context, id int64) error
}

type TicketRepo interface {
	CreateTicket(ctx context.Context, t *domain.Ticket) (int64, error)
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	// FindActiveTicket returns the user's non-terminal ticket at the store,
	// or ErrNotFound.
	FindActiveTicket(ctx context.Context, storeID, userID int64) (*domain.Ticket, error)
	CountWaiting(ctx context.Context, storeID int64) (int, error)
	// CountWaitingBefore counts waiting tickets with a smaller ticket number.
	CountWaitingBefore(ctx context.Context, storeID int64, ticketNumber int) (int, error)
	ServingTicket(ctx context.Context, storeID int64) (*domain.Ticket, error)
	// NextWaiting returns the waiting ticket with the smallest number.
	NextWaiting(ctx context.Context, storeID int64) (*domain.Ticket, error)
	ListWaiting(ctx context.Context, storeID int64) ([]domain.Ticket, error)
	// ListByUser returns the user's tickets in the given statuses, newest
	// first. A limit <= 0 returns all of them.
	ListByUser(
		ctx context.Context,
		userID int64,
		statuses []domain.TicketStatus,
		limit, offset int,
	) ([]domain.Ticket, error)
	// UpdateTicket persists status, timestamps and the refund flag.
	UpdateTicket(ctx context.Context, t *domain.Ticket) error
}

type HistoryRepo interface {
	AppendHistory(ctx context.Context, r *domain.ServiceHistoryRecord) (int64, error)
	// RecentServiceTimes returns up to n durations, most recent first.
	RecentServiceTimes(ctx context.Context, storeID int64, n int) ([]int, error)
	ListHistory(ctx context.Context, storeID int64, limit int) ([]domain.ServiceHistoryRecord, error)
}

// Repos groups the repositories bound to one handle: the pool, or a
// running transaction.
type Repos interface {
	Stores() StoreRepo
	Catalog() CatalogRepo
	Tickets() TicketRepo
	History() HistoryRepo
}

// Transactor runs fn inside a transaction. If fn returns an error the
// transaction is rolled back.
type Transactor interface {
	RunTx(ctx context.Context, fn func(ctx context.Context, tx Repos) error) error
}

type Store interface {
	Repos
	Transactor
}
