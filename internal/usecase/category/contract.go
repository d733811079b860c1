package category

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// Searcher defines the search gateway contract for category listings.
type Searcher interface {
	Execute(ctx context.Context, index string, q query.Query, limit int) ([]product.Document, error)
}
