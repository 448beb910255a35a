package uow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kirinyoku/queuego/internal/repository"
	"github.com/kirinyoku/queuego/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsHooksOnlyAfterCommit(t *testing.T) {
	u := NewUoW(memory.New())

	var ran []string
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Repos, after func(AfterCommit)) error {
		after(func(context.Context) { ran = append(ran, "first") })
		after(func(context.Context) { ran = append(ran, "second") })
		assert.Empty(t, ran, "hooks must not run inside the transaction")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)
}

func TestDoSkipsHooksOnError(t *testing.T) {
	u := NewUoW(memory.New())

	boom := errors.New("boom")
	called := false
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Repos, after func(AfterCommit)) error {
		after(func(context.Context) { called = true })
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	u := NewUoW(memory.New())

	attempts := 0
	hookRuns := 0
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Repos, after func(AfterCommit)) error {
		attempts++
		after(func(context.Context) { hookRuns++ })
		if attempts < 2 {
			return fmt.Errorf("op:%w", repository.ErrRetryable)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, hookRuns, "hooks of the aborted attempt are dropped")
}

func TestDoGivesUpAfterAttempts(t *testing.T) {
	u := NewUoW(memory.New())

	attempts := 0
	err := u.Do(context.Background(), func(ctx context.Context, tx repository.Repos, after func(AfterCommit)) error {
		attempts++
		return repository.ErrRetryable
	})
	require.ErrorIs(t, err, repository.ErrRetryable)
	assert.Equal(t, defaultAttempts, attempts)
}
