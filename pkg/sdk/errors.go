package boardsearch

import "github.com/kailas-cloud/boardsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrInvalidReference = domain.ErrInvalidReference
	ErrNotFound         = domain.ErrNotFound
	ErrPersistence      = domain.ErrPersistence
)
