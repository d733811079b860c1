package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/storefront/internal/db"
)

// fakeStore implements db.Store in memory.
type fakeStore struct {
	searchFn func(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
	pingErr  error
	calls    []*db.SearchRequest
	closed   bool
}

func (f *fakeStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	f.calls = append(f.calls, req)
	if f.searchFn != nil {
		return f.searchFn(ctx, req)
	}
	return &db.SearchResult{}, nil
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) Backend() string { return "fake" }

func (f *fakeStore) Close() { f.closed = true }

func (f *fakeStore) WaitForReady(context.Context, time.Duration) error { return f.pingErr }

func newTestClient(t *testing.T, fs *fakeStore, opts ...Option) *Client {
	t.Helper()
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		t.Fatalf("observer: %v", err)
	}
	return wireClient(fs, cfg, obs)
}

func hitsOf(ids ...string) func(context.Context, *db.SearchRequest) (*db.SearchResult, error) {
	return func(context.Context, *db.SearchRequest) (*db.SearchResult, error) {
		res := &db.SearchResult{Total: len(ids)}
		for _, id := range ids {
			res.Hits = append(res.Hits, db.Hit{ID: id, Source: []byte(`{"product_name":"` + id + `","category":["Toys"]}`)})
		}
		return res, nil
	}
}
