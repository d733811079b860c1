package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
)

// DefaultLimit caps the hit count when the caller passes no positive limit.
const DefaultLimit = 100

const component = "search_gateway"

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResult, error)
	Backend() string
}

// Repo executes catalog queries against the search backend.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Execute runs q against index and returns at most limit raw documents in
// backend order. Zero matches is reported as domain.ErrNoResults; any backend
// failure wraps both domain.ErrBackendUnavailable and the driver error.
func (r *Repo) Execute(ctx context.Context, index string, q query.Query, limit int) ([]product.Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	log := logger.ForComponent(ctx, component, "Execute").With(
		zap.String("index", index),
		zap.Stringer("query", q),
		zap.Int("limit", limit),
	)
	backend := r.store.Backend()
	kind := string(q.Kind())

	start := time.Now()
	res, err := r.store.Search(ctx, &db.SearchRequest{Index: index, Query: q, Size: limit})
	took := time.Since(start)

	if err != nil {
		metrics.ObserveSearch(backend, index, kind, metrics.OutcomeError, took, 0)
		log.Error("search failed", zap.Duration("took", took), zap.Error(err))
		return nil, fmt.Errorf("%w: search %s: %w", domain.ErrBackendUnavailable, index, err)
	}

	if len(res.Hits) == 0 {
		metrics.ObserveSearch(backend, index, kind, metrics.OutcomeNoResults, took, 0)
		log.Info("no documents matched", zap.Duration("took", took))
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrNoResults, q, index)
	}

	hits := res.Hits
	if len(hits) > limit {
		hits = hits[:limit]
	}

	docs := make([]product.Document, len(hits))
	for i, h := range hits {
		docs[i] = product.Document{ID: h.ID, Body: h.Source}
	}

	metrics.ObserveSearch(backend, index, kind, metrics.OutcomeOK, took, len(docs))
	log.Info("documents matched",
		zap.Int("count", len(docs)),
		zap.Int("total", res.Total),
		zap.Duration("took", took),
	)
	return docs, nil
}
