package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	searchrepo "github.com/kailas-cloud/storefront/internal/repository/search"
	categoryuc "github.com/kailas-cloud/storefront/internal/usecase/category"
	collectionuc "github.com/kailas-cloud/storefront/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

const (
	productIndex  = "amazon_products_4"
	categoryIndex = "amazon_products_2"
)

// fakeStore stands in for a search backend behind the real services.
type fakeStore struct {
	searchFn func(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
	pingFn   func(ctx context.Context) error
	calls    []*db.SearchRequest
}

func (f *fakeStore) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error) {
	f.calls = append(f.calls, req)
	if f.searchFn != nil {
		return f.searchFn(ctx, req)
	}
	return &db.SearchResult{}, nil
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeStore) Backend() string { return "fake" }

func newTestServer(t *testing.T, fs *fakeStore, opts ...Option) http.Handler {
	t.Helper()
	repo := searchrepo.New(fs)
	srv := NewServer(
		collectionuc.New(repo, productIndex),
		categoryuc.New(repo, categoryIndex, 100, 100),
		healthuc.New(fs.Backend(), fs),
		zap.NewNop(),
		opts...,
	)
	return srv.Handler()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func productHits(ids ...string) func(context.Context, *db.SearchRequest) (*db.SearchResult, error) {
	return func(context.Context, *db.SearchRequest) (*db.SearchResult, error) {
		res := &db.SearchResult{Total: len(ids)}
		for _, id := range ids {
			res.Hits = append(res.Hits, db.Hit{ID: id, Score: 1, Source: []byte(`{
				"product_name": "Product ` + id + `",
				"category": ["Toys & Games"],
				"description": "d",
				"selling_price": "$1",
				"image_url": "https://img/` + id + `",
				"internal_rank": 7
			}`)})
		}
		return res, nil
	}
}
