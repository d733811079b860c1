package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals malformed client input (bad limit, etc.).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoResults signals that the backend matched zero documents.
	ErrNoResults = errors.New("no products found")
	// ErrBackendUnavailable signals a search backend or transport failure.
	ErrBackendUnavailable = errors.New("search backend error")
	// ErrCollectionUnavailable is the public face of any collection failure.
	ErrCollectionUnavailable = errors.New("unable to fetch collection")
	// ErrInvalidDocument signals a document that cannot be shaped into a product.
	ErrInvalidDocument = errors.New("invalid product document")
)

// CollectionError reports a failed collection lookup. The message stays generic,
// the underlying cause is kept for errors.Is/errors.As and logs.
type CollectionError struct {
	Handle string
	Err    error
}

func (e *CollectionError) Error() string {
	if e.Handle == "" {
		return fmt.Sprintf("%s: %v", ErrCollectionUnavailable.Error(), e.Err)
	}
	return fmt.Sprintf("%s %q: %v", ErrCollectionUnavailable.Error(), e.Handle, e.Err)
}

// Unwrap exposes both the collection sentinel and the cause.
func (e *CollectionError) Unwrap() []error { return []error{ErrCollectionUnavailable, e.Err} }

// NewCollectionError wraps err for the given handle ("" for the default collection).
func NewCollectionError(handle string, err error) error {
	return &CollectionError{Handle: handle, Err: err}
}
