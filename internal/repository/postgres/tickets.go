package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/repository"
)

const ticketColumns = `id, store_id, user_id, ticket_number, secret_code, status, position,
	created_at, called_at, served_at, completed_at, cancelled_at,
	deposit_amount, deposit_refunded`

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var status string

	err := row.Scan(
		&t.ID, &t.StoreID, &t.UserID, &t.TicketNumber, &t.SecretCode, &status, &t.Position,
		&t.CreatedAt, &t.CalledAt, &t.ServedAt, &t.CompletedAt, &t.CancelledAt,
		&t.DepositAmount, &t.DepositRefunded,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TicketStatus(status)

	return &t, nil
}

// CreateTicket inserts a ticket.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - t: the ticket to insert; ID is ignored.
//
// Returns:
//   - int64: the ID of the new ticket.
//   - error: repository.ErrConflict if the user already holds an active
//     ticket at the store or the ticket number is taken.
func (r *TicketRepo) CreateTicket(ctx context.Context, t *domain.Ticket) (int64, error) {
	const op = "postgres.TicketRepo.CreateTicket"

	var id int64
	err := r.handle().QueryRow(ctx,
		`INSERT INTO tickets(
			store_id, user_id, ticket_number, secret_code, status, position,
			created_at, deposit_amount, deposit_refunded)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		t.StoreID, t.UserID, t.TicketNumber, t.SecretCode, string(t.Status), t.Position,
		t.CreatedAt, t.DepositAmount, t.DepositRefunded,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *TicketRepo) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.GetTicket"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

func (r *TicketRepo) FindActiveTicket(ctx context.Context, storeID, userID int64) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.FindActiveTicket"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE store_id = $1 AND user_id = $2 AND status = ANY($3)
		 LIMIT 1`,
		storeID, userID, statusStrings(domain.ActiveStatuses),
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

func (r *TicketRepo) CountWaiting(ctx context.Context, storeID int64) (int, error) {
	const op = "postgres.TicketRepo.CountWaiting"

	var n int
	err := r.handle().QueryRow(ctx,
		`SELECT count(*) FROM tickets WHERE store_id = $1 AND status = 'waiting'`,
		storeID,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *TicketRepo) CountWaitingBefore(ctx context.Context, storeID int64, ticketNumber int) (int, error) {
	const op = "postgres.TicketRepo.CountWaitingBefore"

	var n int
	err := r.handle().QueryRow(ctx,
		`SELECT count(*) FROM tickets
		 WHERE store_id = $1 AND status = 'waiting' AND ticket_number < $2`,
		storeID, ticketNumber,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

// ServingTicket returns the store's serving ticket or repository.ErrNotFound.
func (r *TicketRepo) ServingTicket(ctx context.Context, storeID int64) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.ServingTicket"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE store_id = $1 AND status = 'serving'
		 LIMIT 1`,
		storeID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// NextWaiting returns the head of the queue: the waiting ticket with the
// smallest number, or repository.ErrNotFound.
func (r *TicketRepo) NextWaiting(ctx context.Context, storeID int64) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.NextWaiting"

	t, err := scanTicket(r.handle().QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE store_id = $1 AND status = 'waiting'
		 ORDER BY ticket_number
		 LIMIT 1`,
		storeID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

func (r *TicketRepo) ListWaiting(ctx context.Context, storeID int64) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.ListWaiting"

	rows, err := r.handle().Query(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE store_id = $1 AND status = 'waiting'
		 ORDER BY ticket_number`,
		storeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, scanTicket)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *TicketRepo) ListByUser(
	ctx context.Context,
	userID int64,
	statuses []domain.TicketStatus,
	limit, offset int,
) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.ListByUser"

	// LIMIT NULL means no limit.
	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := r.handle().Query(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE user_id = $1 AND status = ANY($2)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		userID, statusStrings(statuses), lim, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := collectRows(rows, scanTicket)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// UpdateTicket persists the mutable parts of a ticket.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - t: ticket carrying the new status and timestamps.
//
// Returns:
//   - error: repository.ErrNotFound if the ticket does not exist.
//   - error: repository.ErrConflict if the change would put a second
//     ticket of the store into serving.
func (r *TicketRepo) UpdateTicket(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.UpdateTicket"

	tag, err := r.handle().Exec(ctx,
		`UPDATE tickets SET
			status = $2,
			called_at = $3,
			served_at = $4,
			completed_at = $5,
			cancelled_at = $6,
			deposit_refunded = $7
		 WHERE id = $1`,
		t.ID, string(t.Status),
		t.CalledAt, t.ServedAt, t.CompletedAt, t.CancelledAt,
		t.DepositRefunded,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
