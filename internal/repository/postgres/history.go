package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/domain"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *HistoryRepo) With(db DB) *HistoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *HistoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// AppendHistory inserts a service history record. A ticket can only be
// recorded once; a second insert returns repository.ErrConflict.
func (r *HistoryRepo) AppendHistory(ctx context.Context, rec *domain.ServiceHistoryRecord) (int64, error) {
	const op = "postgres.HistoryRepo.AppendHistory"

	var id int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO service_history(store_id, ticket_id, service_time_minutes, completed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		rec.StoreID, rec.TicketID, rec.ServiceTimeMinutes, rec.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *HistoryRepo) RecentServiceTimes(ctx context.Context, storeID int64, n int) ([]int, error) {
	const op = "postgres.HistoryRepo.RecentServiceTimes"

	rows, err := r.handle().Query(ctx,
		`SELECT service_time_minutes
		 FROM service_history
		 WHERE store_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2`,
		storeID, n,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *HistoryRepo) ListHistory(ctx context.Context, storeID int64, limit int) ([]domain.ServiceHistoryRecord, error) {
	const op = "postgres.HistoryRepo.ListHistory"

	rows, err := r.handle().Query(ctx,
		`SELECT id, store_id, ticket_id, service_time_minutes, completed_at
		 FROM service_history
		 WHERE store_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2`,
		storeID, limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, func(row pgx.Row) (*domain.ServiceHistoryRecord, error) {
		var rec domain.ServiceHistoryRecord
		if err := row.Scan(&rec.ID, &rec.StoreID, &rec.TicketID, &rec.ServiceTimeMinutes, &rec.CompletedAt); err != nil {
			return nil, err
		}
		return &rec, nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
