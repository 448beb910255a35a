// Package catalog manages the services a store offers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirinyoku/queuego/internal/clock"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

// Invalidator drops cached store projections.
type Invalidator interface {
	InvalidateStore(ctx context.Context, storeID int64) error
}

type Service struct {
	store  repository.Store
	cache  Invalidator
	clock  clock.Clock
	logger *slog.Logger
}

func New(store repository.Store, cache Invalidator, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:  store,
		cache:  cache,
		clock:  clk,
		logger: logger,
	}
}

func (s *Service) ListServices(ctx context.Context, storeID int64) ([]domain.StoreService, error) {
	const op = "service.catalog.ListServices"

	if _, err := s.activeStore(ctx, storeID); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out, err := s.store.Catalog().ListServices(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// AddService adds an entry to the catalog of a store owned by ownerID.
//
// Returns:
//   - *domain.StoreService: the created entry.
//   - error: catalog.ErrStoreNotFound, catalog.ErrNotStoreOwner or
//     catalog.ErrInvalidInput when the name is empty.
func (s *Service) AddService(
	ctx context.Context,
	ownerID, storeID int64,
	name, description, price string,
) (*domain.StoreService, error) {
	const op = "service.catalog.AddService"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidInput)
	}

	store, err := s.activeStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if store.OwnerID != ownerID {
		return nil, fmt.Errorf("%s:%w", op, ErrNotStoreOwner)
	}

	svc := &domain.StoreService{
		StoreID:     storeID,
		Name:        name,
		Description: description,
		Price:       price,
		CreatedAt:   s.clock.Now(),
	}

	id, err := s.store.Catalog().AddService(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	svc.ID = id

	s.invalidate(ctx, storeID)

	return svc, nil
}

// RemoveService deletes a catalog entry. An entry of someone else's store
// is reported as not found.
func (s *Service) RemoveService(ctx context.Context, ownerID, serviceID int64) error {
	const op = "service.catalog.RemoveService"

	svc, err := s.store.Catalog().GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrServiceNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	store, err := s.store.Stores().GetStore(ctx, svc.StoreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrServiceNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	if store.OwnerID != ownerID {
		return fmt.Errorf("%s:%w", op, ErrServiceNotFound)
	}

	if err := s.store.Catalog().DeleteService(ctx, serviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s:%w", op, ErrServiceNotFound)
		}
		return fmt.Errorf("%s:%w", op, err)
	}

	s.invalidate(ctx, svc.StoreID)

	return nil
}

func (s *Service) activeStore(ctx context.Context, storeID int64) (*domain.Store, error) {
	store, err := s.store.Stores().GetStore(ctx, storeID)
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

func (s *Service) invalidate(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateStore(ctx, storeID); err != nil {
		s.logger.Warn("catalog cache invalidation failed",
			slog.Int64("store_id", storeID),
			slog.Any("error", err),
		)
	}
}
