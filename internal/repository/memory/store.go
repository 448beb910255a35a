// Package memory is an in-process implementation of the repository
// contracts. Transactions are serialized by one mutex and rolled back by
// restoring a snapshot, which makes it suitable for tests and single-node
// development. It enforces the same uniqueness rules as the SQL schema.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

type state struct {
	stores   map[int64]domain.Store
	services map[int64]domain.StoreService
	tickets  map[int64]domain.Ticket
	history  []domain.ServiceHistoryRecord

	lastStoreID   int64
	lastServiceID int64
	lastTicketID  int64
	lastHistoryID int64
}

func newState() *state {
	return &state{
		stores:   make(map[int64]domain.Store),
		services: make(map[int64]domain.StoreService),
		tickets:  make(map[int64]domain.Ticket),
	}
}

func (s *state) clone() *state {
	cp := *s
	cp.stores = maps.Clone(s.stores)
	cp.services = maps.Clone(s.services)
	cp.tickets = maps.Clone(s.tickets)
	cp.history = slices.Clone(s.history)
	return &cp
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// RunTx holds the store lock for the whole of fn. fn must only use the
// repositories it is given; using the Store's own accessors inside fn
// deadlocks.
func (s *Store) RunTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Repos) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()

	if err := fn(ctx, handle{s: s, tx: true}); err != nil {
		s.st = snapshot
		return err
	}

	return nil
}

func (s *Store) Stores() repository.StoreRepo    { return storeRepo{handle{s: s}} }
func (s *Store) Catalog() repository.CatalogRepo { return catalogRepo{handle{s: s}} }
func (s *Store) Tickets() repository.TicketRepo  { return ticketRepo{handle{s: s}} }
func (s *Store) History() repository.HistoryRepo { return historyRepo{handle{s: s}} }

type handle struct {
	s  *Store
	tx bool
}

func (h handle) Stores() repository.StoreRepo    { return storeRepo{h} }
func (h handle) Catalog() repository.CatalogRepo { return catalogRepo{h} }
func (h handle) Tickets() repository.TicketRepo  { return ticketRepo{h} }
func (h handle) History() repository.HistoryRepo { return historyRepo{h} }

// with runs fn against the current state, taking the lock unless the
// handle belongs to a running transaction.
func (h handle) with(fn func(st *state) error) error {
	if !h.tx {
		h.s.mu.Lock()
		defer h.s.mu.Unlock()
	}
	return fn(h.s.st)
}
