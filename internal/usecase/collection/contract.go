package collection

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// Searcher defines the search gateway contract for collections.
type Searcher interface {
	Execute(ctx context.Context, index string, q query.Query, limit int) ([]product.Document, error)
}
