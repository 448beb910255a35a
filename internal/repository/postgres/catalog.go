package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanService(row pgx.Row) (*domain.StoreService, error) {
	var s domain.StoreService
	if err := row.Scan(&s.ID, &s.StoreID, &s.Name, &s.Description, &s.Price, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context, storeID int64) ([]domain.StoreService, error) {
	const op = "postgres.CatalogRepo.ListServices"

	rows, err := r.handle().Query(ctx,
		`SELECT id, store_id, name, description, price, created_at
		 FROM store_services
		 WHERE store_id = $1
		 ORDER BY id`,
		storeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, scanService)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) GetService(ctx context.Context, id int64) (*domain.StoreService, error) {
	const op = "postgres.CatalogRepo.GetService"

	s, err := scanService(r.handle().QueryRow(ctx,
		`SELECT id, store_id, name, description, price, created_at
		 FROM store_services WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

func (r *CatalogRepo) AddService(ctx context.Context, svc *domain.StoreService) (int64, error) {
	const op = "postgres.CatalogRepo.AddService"

	var id int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO store_services(store_id, name, description, price, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		svc.StoreID, svc.Name, svc.Description, svc.Price, svc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *CatalogRepo) DeleteService(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteService"

	tag, err := r.handle().Exec(ctx, `DELETE FROM store_services WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
