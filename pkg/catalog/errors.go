package catalog

import "github.com/kailas-cloud/storefront/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest        = domain.ErrInvalidRequest
	ErrNoResults             = domain.ErrNoResults
	ErrBackendUnavailable    = domain.ErrBackendUnavailable
	ErrCollectionUnavailable = domain.ErrCollectionUnavailable
	ErrInvalidDocument       = domain.ErrInvalidDocument
)
