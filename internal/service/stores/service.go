// Package stores is the store registry: discovery, profiles and the
// owner-side management of a store.
package stores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
	redisrepo "github.com/kirinyoku/queuego/internal/repository/redis"
	"github.com/kirinyoku/queuego/internal/service/estimator"
	"github.com/kirinyoku/queuego/internal/uow"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type Config struct {
	DetailsTTL time.Duration
}

// Publisher tells other instances that a store changed.
type Publisher interface {
	PublishQueueChanged(ctx context.Context, storeID int64) error
}

type Service struct {
	store     repository.Store
	cache     *redisrepo.Cache
	pubsub    Publisher
	estimator *estimator.Estimator
	clock     clock.Clock
	logger    *slog.Logger
	uow       *uow.UoW
	cfg       Config
}

// New builds the registry. cache and pubsub may be nil, in which case
// details are always read from storage.
func New(
	store repository.Store,
	cache *redisrepo.Cache,
	pubsub Publisher,
	est *estimator.Estimator,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.DetailsTTL <= 0 {
		cfg.DetailsTTL = 15 * time.Second
	}

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
		store:     store,
		cache:     cache,
		pubsub:    pubsub,
		estimator: est,
		clock:     clk,
		logger:    logger,
		uow:       uow.NewUoW(store),
		cfg:       cfg,
	}
}

// GetStore returns an active store with its catalog and live queue
// figures. The result is cached for Config.DetailsTTL.
//
// Parameters:
//   - ctx: request-scoped context.
//   - id: ID of the store.
//
// Returns:
//   - *domain.StoreDetails: the store, its services, queue count, the
//     ticket number being served and the wait for someone joining now.
//   - error: stores.ErrStoreNotFound if the store is missing or inactive.
func (s *Service) GetStore(ctx context.Context, id int64) (*domain.StoreDetails, error) {
	const op = "service.stores.GetStore"

	var (
		details domain.StoreDetails
		err     error
	)

	if s.cache != nil {
		details, err = redisrepo.GetOrSetJSON(
			ctx,
			s.cache,
			redisrepo.KeyStoreDetails(id),
			s.cfg.DetailsTTL,
			func(ctx context.Context) (domain.StoreDetails, error) {
				return s.loadDetails(ctx, id)
			},
		)
	} else {
		details, err = s.loadDetails(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &details, nil
}

func (s *Service) loadDetails(ctx context.Context, id int64) (domain.StoreDetails, error) {
	store, err := s.store.Stores().GetStore(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.StoreDetails{}, ErrStoreNotFound
		}
		return domain.StoreDetails{}, err
	}

	if !store.IsActive {
		return domain.StoreDetails{}, ErrStoreNotFound
	}

	services, err := s.store.Catalog().ListServices(ctx, id)
	if err != nil {
		return domain.StoreDetails{}, err
	}

	queueCount, err := s.store.Tickets().CountWaiting(ctx, id)
	if err != nil {
		return domain.StoreDetails{}, err
	}

	var current *int
	serving, err := s.store.Tickets().ServingTicket(ctx, id)
	switch {
	case err == nil:
		current = &serving.TicketNumber
	case !errors.Is(err, repository.ErrNotFound):
		return domain.StoreDetails{}, err
	}

	return domain.StoreDetails{
		Store:             *store,
		Services:          services,
		QueueCount:        queueCount,
		CurrentTicket:     current,
		EstimatedWaitTime: s.estimator.EstimateWait(ctx, s.store.History(), store, queueCount),
	}, nil
}

// IsAcceptingTickets reports whether new tickets may be issued at store.
func (s *Service) IsAcceptingTickets(store *domain.Store) bool {
	return store.AcceptingTickets()
}

// ListStores returns active stores matching f, newest first. The limit is
// clamped to 1..100 and defaults to 50.
func (s *Service) ListStores(ctx context.Context, f domain.StoreFilter) ([]domain.StoreSummary, error) {
	const op = "service.stores.ListStores"

	if f.Category != "" && !f.Category.Valid() {
		return nil, fmt.Errorf("%s:%w", op, invalid("category", "unknown category"))
	}

	if f.Offset < 0 {
		return nil, fmt.Errorf("%s:%w", op, invalid("offset", "must not be negative"))
	}

	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}

	out, err := s.store.Stores().ListStores(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// CreateStore registers a store owned by ownerID.
//
// Returns:
//   - *domain.Store: the created store.
//   - error: a stores.ValidationError (wrapping ErrInvalidInput) on bad input.
func (s *Service) CreateStore(ctx context.Context, ownerID int64, in CreateInput) (*domain.Store, error) {
	const op = "service.stores.CreateStore"

	store := in.toStore(ownerID, s.clock.Now())
	if err := validate(&store); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	id, err := s.store.Stores().CreateStore(ctx, &store)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	store.ID = id

	s.logger.Info("store created",
		slog.Int64("store_id", id),
		slog.Int64("owner_id", ownerID),
	)

	return &store, nil
}

// UpdateStore applies patch to a store owned by ownerID.
func (s *Service) UpdateStore(ctx context.Context, ownerID, id int64, patch Patch) (*domain.Store, error) {
	const op = "service.stores.UpdateStore"

	var updated *domain.Store

	err := s.mutateOwned(ctx, ownerID, id, func(ctx context.Context, tx repository.Repos, store *domain.Store) error {
		patch.apply(store)
		if err := validate(store); err != nil {
			return err
		}

		store.UpdatedAt = s.clock.Now()
		if err := tx.Stores().UpdateStore(ctx, store); err != nil {
			return err
		}

		updated = store
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// SetOpen opens or closes a store for new tickets. Tickets already issued
// are unaffected. Setting the current value again is not an error.
func (s *Service) SetOpen(ctx context.Context, ownerID, id int64, open bool) error {
	const op = "service.stores.SetOpen"

	err := s.mutateOwned(ctx, ownerID, id, func(ctx context.Context, tx repository.Repos, store *domain.Store) error {
		if store.IsOpen == open {
			return nil
		}
		return tx.Stores().SetOpen(ctx, id, open)
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// DeactivateStore hides a store from every read path. Its tickets and
// history are kept.
func (s *Service) DeactivateStore(ctx context.Context, ownerID, id int64) error {
	const op = "service.stores.DeactivateStore"

	err := s.mutateOwned(ctx, ownerID, id, func(ctx context.Context, tx repository.Repos, _ *domain.Store) error {
		return tx.Stores().SetActive(ctx, id, false)
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	s.logger.Info("store deactivated",
		slog.Int64("store_id", id),
		slog.Int64("owner_id", ownerID),
	)

	return nil
}

// MyStores lists the caller's active stores, newest first.
func (s *Service) MyStores(ctx context.Context, ownerID int64) ([]domain.Store, error) {
	const op = "service.stores.MyStores"

	out, err := s.store.Stores().ListStoresByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// mutateOwned locks an active store owned by ownerID, runs fn and, after
// commit, drops the cached details.
func (s *Service) mutateOwned(
	ctx context.Context,
	ownerID, id int64,
	fn func(ctx context.Context, tx repository.Repos, store *domain.Store) error,
) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx repository.Repos, after func(uow.AfterCommit)) error {
		store, err := tx.Stores().LockStore(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStoreNotFound
			}
			return err
		}

		if !store.IsActive {
			return ErrStoreNotFound
		}

		if store.OwnerID != ownerID {
			return ErrNotStoreOwner
		}

		if err := fn(ctx, tx, store); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			s.changed(ctx, id)
		})

		return nil
	})
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
			s.logger.Warn("store change publish failed",
				slog.Int64("store_id", storeID),
				slog.Any("error", err),
			)
		}
	}
}
