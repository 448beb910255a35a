// Package history records how long each served ticket took and exposes the
// record to the store's owner.
package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ServiceTimeMinutes is the whole number of minutes between servedAt and
// completedAt, never less than one.
func ServiceTimeMinutes(servedAt, completedAt time.Time) int {
	minutes := int(math.Round(completedAt.Sub(servedAt).Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

type Recorder struct {
	store repository.Repos
}

func New(store repository.Repos) *Recorder {
	return &Recorder{store: store}
}

// Record appends the history record for a ticket leaving the serving slot.
// repo is usually bound to the transaction that completes the ticket.
func (r *Recorder) Record(
	ctx context.Context,
	repo repository.HistoryRepo,
	t *domain.Ticket,
	completedAt time.Time,
) (*domain.ServiceHistoryRecord, error) {
	const op = "service.history.Record"

	if t.ServedAt == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrNotServed)
	}

	rec := &domain.ServiceHistoryRecord{
		StoreID:            t.StoreID,
		TicketID:           t.ID,
		ServiceTimeMinutes: ServiceTimeMinutes(*t.ServedAt, completedAt),
		CompletedAt:        completedAt,
	}

	id, err := repo.AppendHistory(ctx, rec)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s:%w", op, ErrAlreadyRecorded)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	rec.ID = id

	return rec, nil
}

// ListForStore returns the store's most recent records, newest first.
//
// Parameters:
//   - ctx: request-scoped context.
//   - storeID: ID of the store.
//   - ownerID: ID of the caller, who must own the store.
//   - limit: page size, clamped to 1..100 (0 means 20).
//
// Returns:
//   - []domain.ServiceHistoryRecord: the records.
//   - error: history.ErrStoreNotFound or history.ErrNotStoreOwner.
func (r *Recorder) ListForStore(
	ctx context.Context,
	storeID, ownerID int64,
	limit int,
) ([]domain.ServiceHistoryRecord, error) {
	const op = "service.history.ListForStore"

	store, err := r.store.Stores().GetStore(ctx, storeID)
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

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := r.store.History().ListHistory(ctx, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return records, nil
}
