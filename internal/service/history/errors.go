package history

import "errors"

var (
	ErrNotServed       = errors.New("ticket was never served")
	ErrStoreNotFound   = errors.New("store not found")
	ErrNotStoreOwner   = errors.New("not the store owner")
	ErrAlreadyRecorded = errors.New("service history already recorded")
)
