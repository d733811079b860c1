package db

import (
	"encoding/json"

	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// SearchRequest is the input for a single search call.
type SearchRequest struct {
	Index string
	Query query.Query
	// Size caps the number of returned hits; must be positive.
	Size int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	// Total is the backend's match count, which may exceed len(Hits).
	Total int
	Hits  []Hit
}

// Hit is a single matched document.
type Hit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}
