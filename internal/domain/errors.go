package domain

import "errors"

var (
	// ErrValidation signals a malformed or out-of-range request parameter.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidReference signals a malformed entity ID inside filters.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrNotFound signals a missing history record or one owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrPersistence signals a storage-layer failure while writing search history.
	ErrPersistence = errors.New("persistence failure")
)
