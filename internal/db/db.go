package db

import (
	"context"
	"time"
)

// Store is the search backend facade used by the catalog.
type Store interface {
	Pinger
	Searcher
	// Backend names the driver ("elasticsearch", "redis"), used as a metrics label.
	Backend() string
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs read-only queries against an index.
type Searcher interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResult, error)
}

// PollReady calls Ping every interval until it succeeds or timeout expires.
func PollReady(ctx context.Context, p Pinger, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return &Error{Op: OpPing, Err: ctx.Err()}
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
