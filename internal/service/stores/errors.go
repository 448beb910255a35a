package stores

import (
	"errors"
	"fmt"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrNotStoreOwner = errors.New("not the store owner")
	ErrInvalidInput  = errors.New("invalid input")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}
