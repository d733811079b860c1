package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrIndexNotFound  = errors.New("db: index not found")
	ErrInvalidRequest = errors.New("db: invalid search request")
)

// Op names used for error context.
const (
	OpSearch = "search"
	OpPing   = "ping"
	OpDecode = "decode"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "db: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
