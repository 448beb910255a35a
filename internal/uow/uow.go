package uow

import (
	"context"
	"errors"

	"github.com/kirinyoku/queuego/internal/repository"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// defaultAttempts bounds how often a transaction aborted by the database
// is run again.
const defaultAttempts = 3

// UoW represents a unit of work.
type UoW struct {
	tx       repository.Transactor
	attempts int
}

func NewUoW(tx repository.Transactor) *UoW {
	return &UoW{tx: tx, attempts: defaultAttempts}
}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks.
//
// When the transaction fails with repository.ErrRetryable it is rolled back
// and fn runs again from the start; hooks registered by a failed attempt
// are discarded.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx repository.Repos, after func(AfterCommit)) error,
) error {
	var (
		hooks []AfterCommit
		err   error
	)

	for attempt := 0; attempt < u.attempts; attempt++ {
		hooks = hooks[:0]

		err = u.tx.RunTx(ctx, func(ctx context.Context, tx repository.Repos) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil || !errors.Is(err, repository.ErrRetryable) {
			break
		}

		if ctx.Err() != nil {
			return err
		}
	}

	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
