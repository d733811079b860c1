package collection

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

type executeCall struct {
	index string
	query query.Query
	limit int
}

// mockSearcher implements Searcher for tests.
type mockSearcher struct {
	executeFn func(ctx context.Context, index string, q query.Query, limit int) ([]product.Document, error)
	calls     []executeCall
}

func (m *mockSearcher) Execute(ctx context.Context, index string, q query.Query, limit int) ([]product.Document, error) {
	m.calls = append(m.calls, executeCall{index: index, query: q, limit: limit})
	if m.executeFn != nil {
		return m.executeFn(ctx, index, q, limit)
	}
	return nil, nil
}

func returning(docs ...product.Document) *mockSearcher {
	return &mockSearcher{
		executeFn: func(context.Context, string, query.Query, int) ([]product.Document, error) {
			return docs, nil
		},
	}
}

func fullDoc(id string) product.Document {
	return product.Document{ID: id, Body: json.RawMessage(`{
		"product_name": "Product ` + id + `",
		"category": ["shoes", "sports"],
		"description": "desc",
		"selling_price": "$10",
		"image_url": "https://img/` + id + `.jpg"
	}`)}
}
