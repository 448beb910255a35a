package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

const storeColumns = `id, owner_id, name, category, description,
	address, city, state, zip_code, latitude, longitude,
	phone, email, image_url, open_time, close_time,
	deposit, default_service_time, is_open, is_active,
	rating, total_reviews, last_ticket_number, created_at, updated_at`

type StoreRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *StoreRepo) With(db DB) *StoreRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *StoreRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var s domain.Store
	var category string

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Name, &category, &s.Description,
		&s.Address, &s.City, &s.State, &s.ZipCode, &s.Latitude, &s.Longitude,
		&s.Phone, &s.Email, &s.ImageURL, &s.OpenTime, &s.CloseTime,
		&s.Deposit, &s.DefaultServiceTimeMinutes, &s.IsOpen, &s.IsActive,
		&s.Rating, &s.TotalReviews, &s.LastTicketNumber, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Category = domain.Category(category)

	return &s, nil
}

// GetStore retrieves a store by its ID, active or not.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - id: unique identifier of the store to retrieve.
//
// Returns:
//   - *domain.Store: the store when found.
//   - error: repository.ErrNotFound if the store does not exist.
func (r *StoreRepo) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	const op = "postgres.StoreRepo.GetStore"

	s, err := scanStore(r.handle().QueryRow(ctx,
		`SELECT `+storeColumns+`
		 FROM stores WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

// LockStore reads a store with FOR UPDATE. Only meaningful inside a transaction.
func (r *StoreRepo) LockStore(ctx context.Context, id int64) (*domain.Store, error) {
	const op = "postgres.StoreRepo.LockStore"

	s, err := scanStore(r.handle().QueryRow(ctx,
		`SELECT `+storeColumns+`
		 FROM stores WHERE id = $1
		 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return s, nil
}

// ListStores returns active stores matching the filter, newest first, with
// the number of waiting tickets for each.
func (r *StoreRepo) ListStores(ctx context.Context, f domain.StoreFilter) ([]domain.StoreSummary, error) {
	const op = "postgres.StoreRepo.ListStores"

	conds := []string{"s.is_active"}
	args := []any{}

	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(s.name ILIKE $%d OR s.category ILIKE $%d OR s.description ILIKE $%d)", n, n, n,
		))
	}

	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("s.category = $%d", len(args)))
	}

	if f.IsOpen != nil {
		args = append(args, *f.IsOpen)
		conds = append(conds, fmt.Sprintf("s.is_open = $%d", len(args)))
	}

	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(
		`SELECT s.id, s.name, s.category, s.description, s.address, s.city,
		        s.image_url, s.rating, s.total_reviews, s.is_open, s.deposit, s.phone,
		        (SELECT count(*) FROM tickets t
		          WHERE t.store_id = s.id AND t.status = 'waiting') AS queue_count
		 FROM stores s
		 WHERE %s
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT $%d OFFSET $%d`,
		strings.Join(conds, " AND "), len(args)-1, len(args),
	)

	rows, err := r.handle().Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, func(row pgx.Row) (*domain.StoreSummary, error) {
		var s domain.StoreSummary
		var category string
		if err := row.Scan(
			&s.ID, &s.Name, &category, &s.Description, &s.Address, &s.City,
			&s.ImageURL, &s.Rating, &s.TotalReviews, &s.IsOpen, &s.Deposit, &s.Phone,
			&s.QueueCount,
		); err != nil {
			return nil, err
		}
		s.Category = domain.Category(category)
		return &s, nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *StoreRepo) ListStoresByOwner(ctx context.Context, ownerID int64) ([]domain.Store, error) {
	const op = "postgres.StoreRepo.ListStoresByOwner"

	rows, err := r.handle().Query(ctx,
		`SELECT `+storeColumns+`
		 FROM stores
		 WHERE owner_id = $1 AND is_active
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, scanStore)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// CreateStore inserts a store and returns its ID. CreatedAt and UpdatedAt
// are taken from s.
func (r *StoreRepo) CreateStore(ctx context.Context, s *domain.Store) (int64, error) {
	const op = "postgres.StoreRepo.CreateStore"

	var id int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO stores(
			owner_id, name, category, description,
			address, city, state, zip_code, latitude, longitude,
			phone, email, image_url, open_time, close_time,
			deposit, default_service_time, is_open, is_active,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		         $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 RETURNING id`,
		s.OwnerID, s.Name, string(s.Category), s.Description,
		s.Address, s.City, s.State, s.ZipCode, s.Latitude, s.Longitude,
		s.Phone, s.Email, s.ImageURL, s.OpenTime, s.CloseTime,
		s.Deposit, s.DefaultServiceTimeMinutes, s.IsOpen, s.IsActive,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// UpdateStore writes the editable configuration fields of s.
func (r *StoreRepo) UpdateStore(ctx context.Context, s *domain.Store) error {
	const op = "postgres.StoreRepo.UpdateStore"

	tag, err := r.handle().Exec(ctx,
		`UPDATE stores SET
			name = $2, category = $3, description = $4,
			address = $5, city = $6, state = $7, zip_code = $8,
			latitude = $9, longitude = $10, phone = $11, email = $12,
			image_url = $13, open_time = $14, close_time = $15,
			deposit = $16, default_service_time = $17, is_open = $18,
			updated_at = $19
		 WHERE id = $1`,
		s.ID, s.Name, string(s.Category), s.Description,
		s.Address, s.City, s.State, s.ZipCode,
		s.Latitude, s.Longitude, s.Phone, s.Email,
		s.ImageURL, s.OpenTime, s.CloseTime,
		s.Deposit, s.DefaultServiceTimeMinutes, s.IsOpen,
		s.UpdatedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *StoreRepo) SetOpen(ctx context.Context, id int64, open bool) error {
	const op = "postgres.StoreRepo.SetOpen"

	tag, err := r.handle().Exec(ctx,
		`UPDATE stores SET is_open = $2, updated_at = now() WHERE id = $1`,
		id, open,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *StoreRepo) SetActive(ctx context.Context, id int64, active bool) error {
	const op = "postgres.StoreRepo.SetActive"

	tag, err := r.handle().Exec(ctx,
		`UPDATE stores SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// NextTicketNumber atomically bumps the store's ticket counter.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - storeID: store whose counter is incremented.
//
// Returns:
//   - int: the newly allocated ticket number, starting at 1.
//   - error: repository.ErrNotFound if the store does not exist.
func (r *StoreRepo) NextTicketNumber(ctx context.Context, storeID int64) (int, error) {
	const op = "postgres.StoreRepo.NextTicketNumber"

	var n int
	err := r.handle().QueryRow(ctx,
		`UPDATE stores
		 SET last_ticket_number = last_ticket_number + 1
		 WHERE id = $1
		 RETURNING last_ticket_number`,
		storeID,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
