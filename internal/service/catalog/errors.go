package catalog

import "errors"

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrNotStoreOwner   = errors.New("not the store owner")
	ErrInvalidInput    = errors.New("invalid input")
)
