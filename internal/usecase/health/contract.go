package health

import "context"

// Pinger checks search backend availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
