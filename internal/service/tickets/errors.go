package tickets

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreClosed        = errors.New("store is not accepting tickets")
	ErrActiveTicketExists = errors.New("user already holds an active ticket at this store")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvalidTransition  = errors.New("ticket cannot make this transition")
	ErrNotStoreOwner      = errors.New("not the store owner")
	ErrQueueEmpty         = errors.New("no waiting tickets")
	ErrNoTicketServing    = errors.New("no ticket is being served")
	ErrConcurrentUpdate   = errors.New("ticket was changed concurrently")
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateLimited        = errors.New("too many tickets requested")
)

// RateLimitedError carries how long the caller should wait.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
