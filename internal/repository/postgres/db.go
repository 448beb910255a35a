package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/repository"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
	}
}

// RunTx runs fn in a READ COMMITTED transaction. Queue operations get their
// per-store ordering from LockStore rather than from the isolation level.
func (s *Store) RunTx(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Repos) error,
) error {
	return s.RunTxWithOpts(ctx, nil, fn)
}

func (s *Store) RunTxWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx repository.Repos) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	}

	if opts != nil {
		txOpts.IsoLevel = opts.IsoLevel
		txOpts.AccessMode = opts.AccessMode
		txOpts.DeferrableMode = opts.DeferrableMode
	}

	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return translateDBErr(err)
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, txRepos{pool: s.pool, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", translateDBErr(err))
	}

	return nil
}

func (s *Store) Stores() repository.StoreRepo    { return &StoreRepo{pool: s.pool} }
func (s *Store) Catalog() repository.CatalogRepo { return &CatalogRepo{pool: s.pool} }
func (s *Store) Tickets() repository.TicketRepo  { return &TicketRepo{pool: s.pool} }
func (s *Store) History() repository.HistoryRepo { return &HistoryRepo{pool: s.pool} }

type txRepos struct {
	pool *pgxpool.Pool
	tx   DB
}

func (t txRepos) Stores() repository.StoreRepo {
	return (&StoreRepo{pool: t.pool}).With(t.tx)
}

func (t txRepos) Catalog() repository.CatalogRepo {
	return (&CatalogRepo{pool: t.pool}).With(t.tx)
}

func (t txRepos) Tickets() repository.TicketRepo {
	return (&TicketRepo{pool: t.pool}).With(t.tx)
}

func (t txRepos) History() repository.HistoryRepo {
	return (&HistoryRepo{pool: t.pool}).With(t.tx)
}
