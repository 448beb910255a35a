package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

type storeRepo struct{ h handle }

func (r storeRepo) GetStore(_ context.Context, id int64) (*domain.Store, error) {
	const op = "memory.StoreRepo.GetStore"

	var out domain.Store
	err := r.h.with(func(st *state) error {
		s, ok := st.stores[id]
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

// LockStore is GetStore: a transaction already holds the whole state.
func (r storeRepo) LockStore(ctx context.Context, id int64) (*domain.Store, error) {
	return r.GetStore(ctx, id)
}

func (r storeRepo) ListStores(_ context.Context, f domain.StoreFilter) ([]domain.StoreSummary, error) {
	search := strings.ToLower(f.Search)

	var out []domain.StoreSummary
	err := r.h.with(func(st *state) error {
		var matched []domain.Store
		for _, s := range st.stores {
			if !s.IsActive {
				continue
			}
			if f.Category != "" && s.Category != f.Category {
				continue
			}
			if f.IsOpen != nil && s.IsOpen != *f.IsOpen {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(s.Name), search) &&
				!strings.Contains(strings.ToLower(string(s.Category)), search) &&
				!strings.Contains(strings.ToLower(s.Description), search) {
				continue
			}
			matched = append(matched, s)
		}

		slices.SortFunc(matched, newestStoreFirst)

		matched = page(matched, f.Limit, f.Offset)

		out = make([]domain.StoreSummary, 0, len(matched))
		for _, s := range matched {
			out = append(out, domain.StoreSummary{
				ID:           s.ID,
				Name:         s.Name,
				Category:     s.Category,
				Description:  s.Description,
				Address:      s.Address,
				City:         s.City,
				ImageURL:     s.ImageURL,
				Rating:       s.Rating,
				TotalReviews: s.TotalReviews,
				IsOpen:       s.IsOpen,
				Deposit:      s.Deposit,
				Phone:        s.Phone,
				QueueCount:   st.countWaiting(s.ID, 0),
			})
		}
		return nil
	})

	return out, err
}

func (r storeRepo) ListStoresByOwner(_ context.Context, ownerID int64) ([]domain.Store, error) {
	out := make([]domain.Store, 0)
	err := r.h.with(func(st *state) error {
		for _, s := range st.stores {
			if s.OwnerID == ownerID && s.IsActive {
				out = append(out, s)
			}
		}
		slices.SortFunc(out, newestStoreFirst)
		return nil
	})

	return out, err
}

func (r storeRepo) CreateStore(_ context.Context, s *domain.Store) (int64, error) {
	var id int64
	err := r.h.with(func(st *state) error {
		st.lastStoreID++
		id = st.lastStoreID

		cp := *s
		cp.ID = id
		cp.LastTicketNumber = 0
		if cp.Rating == "" {
			cp.Rating = "0"
		}
		st.stores[id] = cp
		return nil
	})

	return id, err
}

func (r storeRepo) UpdateStore(_ context.Context, s *domain.Store) error {
	const op = "memory.StoreRepo.UpdateStore"

	return r.h.with(func(st *state) error {
		cur, ok := st.stores[s.ID]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}

		// Owner, counters, activity and rating are not editable here.
		cp := *s
		cp.OwnerID = cur.OwnerID
		cp.IsActive = cur.IsActive
		cp.LastTicketNumber = cur.LastTicketNumber
		cp.Rating = cur.Rating
		cp.TotalReviews = cur.TotalReviews
		cp.CreatedAt = cur.CreatedAt
		st.stores[s.ID] = cp
		return nil
	})
}

func (r storeRepo) SetOpen(_ context.Context, id int64, open bool) error {
	const op = "memory.StoreRepo.SetOpen"

	return r.h.with(func(st *state) error {
		s, ok := st.stores[id]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		s.IsOpen = open
		st.stores[id] = s
		return nil
	})
}

func (r storeRepo) SetActive(_ context.Context, id int64, active bool) error {
	const op = "memory.StoreRepo.SetActive"

	return r.h.with(func(st *state) error {
		s, ok := st.stores[id]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		s.IsActive = active
		st.stores[id] = s
		return nil
	})
}

func (r storeRepo) NextTicketNumber(_ context.Context, storeID int64) (int, error) {
	const op = "memory.StoreRepo.NextTicketNumber"

	var n int
	err := r.h.with(func(st *state) error {
		s, ok := st.stores[storeID]
		if !ok {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		s.LastTicketNumber++
		n = s.LastTicketNumber
		st.stores[storeID] = s
		return nil
	})

	return n, err
}

func newestStoreFirst(a, b domain.Store) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
