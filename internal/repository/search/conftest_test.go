package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/storefront/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
	calls    []*db.SearchRequest
}

func (m *mockStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	m.calls = append(m.calls, req)
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Backend() string { return "mock" }

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func hits(ids ...string) *db.SearchResult {
	res := &db.SearchResult{Total: len(ids)}
	for _, id := range ids {
		res.Hits = append(res.Hits, db.Hit{ID: id, Source: []byte(`{"product_name":"` + id + `"}`)})
	}
	return res
}
