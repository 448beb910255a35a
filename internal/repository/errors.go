package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrRetryable marks a transaction that was aborted by the database
	// (serialization failure or deadlock) and may be run again as a whole.
	ErrRetryable = errors.New("transaction aborted, retryable")
)
