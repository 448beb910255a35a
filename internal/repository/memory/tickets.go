package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

type ticketRepo struct{ h handle }

// countWaiting counts waiting tickets of a store, restricted to numbers
// below before when before > 0.
func (st *state) countWaiting(storeID int64, before int) int {
	n := 0
	for _, t := range st.tickets {
		if t.StoreID != storeID || t.Status != domain.StatusWaiting {
			continue
		}
		if before > 0 && t.TicketNumber >= before {
			continue
		}
		n++
	}
	return n
}

// checkUnique mirrors the schema's unique indexes for t against every
// other ticket.
func (st *state) checkUnique(t domain.Ticket) error {
	for _, o := range st.tickets {
		if o.ID == t.ID || o.StoreID != t.StoreID {
			continue
		}
		if o.TicketNumber == t.TicketNumber {
			return fmt.Errorf("%w: tickets_store_number_key", repository.ErrConflict)
		}
		if t.Status == domain.StatusServing && o.Status == domain.StatusServing {
			return fmt.Errorf("%w: tickets_one_serving_per_store", repository.ErrConflict)
		}
		if t.Status.Active() && o.Status.Active() && o.UserID == t.UserID {
			return fmt.Errorf("%w: tickets_one_active_per_user", repository.ErrConflict)
		}
	}
	return nil
}

func (r ticketRepo) CreateTicket(_ context.Context, t *domain.Ticket) (int64, error) {
	const op = "memory.TicketRepo.CreateTicket"

	var id int64
	err := r.h.with(func(st *state) error {
		if _, ok := st.stores[t.StoreID]; !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}

		cp := *t
		cp.ID = st.lastTicketID + 1
		if err := st.checkUnique(cp); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		st.lastTicketID = cp.ID
		st.tickets[cp.ID] = cp
		id = cp.ID
		return nil
	})

	return id, err
}

func (r ticketRepo) GetTicket(_ context.Context, id int64) (*domain.Ticket, error) {
	const op = "memory.TicketRepo.GetTicket"

	var out domain.Ticket
	err := r.h.with(func(st *state) error {
		t, ok := st.tickets[id]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r ticketRepo) findOne(op string, match func(t domain.Ticket) bool, less func(a, b domain.Ticket) bool) (*domain.Ticket, error) {
	var out *domain.Ticket
	err := r.h.with(func(st *state) error {
		for _, t := range st.tickets {
			if !match(t) {
				continue
			}
			if out == nil || (less != nil && less(t, *out)) {
				cp := t
				out = &cp
			}
		}
		if out == nil {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r ticketRepo) FindActiveTicket(_ context.Context, storeID, userID int64) (*domain.Ticket, error) {
	return r.findOne("memory.TicketRepo.FindActiveTicket", func(t domain.Ticket) bool {
		return t.StoreID == storeID && t.UserID == userID && t.Status.Active()
	}, nil)
}

func (r ticketRepo) CountWaiting(_ context.Context, storeID int64) (int, error) {
	var n int
	err := r.h.with(func(st *state) error {
		n = st.countWaiting(storeID, 0)
		return nil
	})
	return n, err
}

func (r ticketRepo) CountWaitingBefore(_ context.Context, storeID int64, ticketNumber int) (int, error) {
	var n int
	err := r.h.with(func(st *state) error {
		if ticketNumber <= 0 {
			return nil
		}
		n = st.countWaiting(storeID, ticketNumber)
		return nil
	})
	return n, err
}

func (r ticketRepo) ServingTicket(_ context.Context, storeID int64) (*domain.Ticket, error) {
	return r.findOne("memory.TicketRepo.ServingTicket", func(t domain.Ticket) bool {
		return t.StoreID == storeID && t.Status == domain.StatusServing
	}, nil)
}

func (r ticketRepo) NextWaiting(_ context.Context, storeID int64) (*domain.Ticket, error) {
	return r.findOne("memory.TicketRepo.NextWaiting", func(t domain.Ticket) bool {
		return t.StoreID == storeID && t.Status == domain.StatusWaiting
	}, func(a, b domain.Ticket) bool {
		return a.TicketNumber < b.TicketNumber
	})
}

func (r ticketRepo) ListWaiting(_ context.Context, storeID int64) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	err := r.h.with(func(st *state) error {
		for _, t := range st.tickets {
			if t.StoreID == storeID && t.Status == domain.StatusWaiting {
				out = append(out, t)
			}
		}
		slices.SortFunc(out, func(a, b domain.Ticket) int {
			return cmp.Compare(a.TicketNumber, b.TicketNumber)
		})
		return nil
	})

	return out, err
}

func (r ticketRepo) ListByUser(
	_ context.Context,
	userID int64,
	statuses []domain.TicketStatus,
	limit, offset int,
) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0)
	err := r.h.with(func(st *state) error {
		for _, t := range st.tickets {
			if t.UserID == userID && slices.Contains(statuses, t.Status) {
				out = append(out, t)
			}
		}
		slices.SortFunc(out, func(a, b domain.Ticket) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
		out = page(out, limit, offset)
		return nil
	})

	return out, err
}

func (r ticketRepo) UpdateTicket(_ context.Context, t *domain.Ticket) error {
	const op = "memory.TicketRepo.UpdateTicket"

	return r.h.with(func(st *state) error {
		cur, ok := st.tickets[t.ID]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}

		cur.Status = t.Status
		cur.CalledAt = t.CalledAt
		cur.ServedAt = t.ServedAt
		cur.CompletedAt = t.CompletedAt
		cur.CancelledAt = t.CancelledAt
		cur.DepositRefunded = t.DepositRefunded

		if err := st.checkUnique(cur); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		st.tickets[t.ID] = cur
		return nil
	})
}

type catalogRepo struct{ h handle }

func (r catalogRepo) ListServices(_ context.Context, storeID int64) ([]domain.StoreService, error) {
	out := make([]domain.StoreService, 0)
	err := r.h.with(func(st *state) error {
		for _, s := range st.services {
			if s.StoreID == storeID {
				out = append(out, s)
			}
		}
		slices.SortFunc(out, func(a, b domain.StoreService) int {
			return cmp.Compare(a.ID, b.ID)
		})
		return nil
	})

	return out, err
}

func (r catalogRepo) GetService(_ context.Context, id int64) (*domain.StoreService, error) {
	const op = "memory.CatalogRepo.GetService"

	var out domain.StoreService
	err := r.h.with(func(st *state) error {
		s, ok := st.services[id]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r catalogRepo) AddService(_ context.Context, svc *domain.StoreService) (int64, error) {
	const op = "memory.CatalogRepo.AddService"

	var id int64
	err := r.h.with(func(st *state) error {
		if _, ok := st.stores[svc.StoreID]; !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		st.lastServiceID++
		id = st.lastServiceID
		cp := *svc
		cp.ID = id
		st.services[id] = cp
		return nil
	})

	return id, err
}

func (r catalogRepo) DeleteService(_ context.Context, id int64) error {
	const op = "memory.CatalogRepo.DeleteService"

	return r.h.with(func(st *state) error {
		if _, ok := st.services[id]; !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		delete(st.services, id)
		return nil
	})
}

type historyRepo struct{ h handle }

func (r historyRepo) AppendHistory(_ context.Context, rec *domain.ServiceHistoryRecord) (int64, error) {
	const op = "memory.HistoryRepo.AppendHistory"

	var id int64
	err := r.h.with(func(st *state) error {
		for _, h := range st.history {
			if h.TicketID == rec.TicketID {
				return fmt.Errorf("%s:%w", op, repository.ErrConflict)
			}
		}
		st.lastHistoryID++
		id = st.lastHistoryID
		cp := *rec
		cp.ID = id
		st.history = append(st.history, cp)
		return nil
	})

	return id, err
}

func (r historyRepo) recent(storeID int64, limit int) ([]domain.ServiceHistoryRecord, error) {
	out := make([]domain.ServiceHistoryRecord, 0)
	err := r.h.with(func(st *state) error {
		for _, h := range st.history {
			if h.StoreID == storeID {
				out = append(out, h)
			}
		}
		slices.SortFunc(out, func(a, b domain.ServiceHistoryRecord) int {
			if c := b.CompletedAt.Compare(a.CompletedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
		out = page(out, limit, 0)
		return nil
	})

	return out, err
}

func (r historyRepo) RecentServiceTimes(_ context.Context, storeID int64, n int) ([]int, error) {
	recs, err := r.recent(storeID, n)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(recs))
	for i, rec := range recs {
		out[i] = rec.ServiceTimeMinutes
	}

	return out, nil
}

func (r historyRepo) ListHistory(_ context.Context, storeID int64, limit int) ([]domain.ServiceHistoryRecord, error) {
	return r.recent(storeID, limit)
}
