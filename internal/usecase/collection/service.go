package collection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
	"github.com/kailas-cloud/storefront/internal/logger"
)

// MaxLimit is the most products a collection ever returns.
const MaxLimit = 20

const component = "collection_resolver"

// Result is a resolved collection: the handle as requested plus its products.
type Result struct {
	Handle   string
	Products []product.Product
}

// Option configures a Service.
type Option func(*Service)

// WithLimit lowers the collection size. Values outside 1..MaxLimit are ignored.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= MaxLimit {
			s.limit = n
		}
	}
}

// WithStrictDocuments makes any product with missing required fields fail the request.
func WithStrictDocuments(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// Service resolves collections against the product index.
type Service struct {
	search Searcher
	index  string
	limit  int
	strict bool
}

// New creates a collection service reading from index.
func New(search Searcher, index string, opts ...Option) *Service {
	s := &Service{search: search, index: index, limit: MaxLimit}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Default returns the unfiltered listing.
func (s *Service) Default(ctx context.Context) ([]product.Product, error) {
	return s.fetch(ctx, "", query.MatchAll(), s.limit)
}

// Custom returns the products whose name, description or category fuzzily match handle.
func (s *Service) Custom(ctx context.Context, handle string) ([]product.Product, error) {
	return s.fetch(ctx, handle, query.MultiMatch(handle), s.limit)
}

// Resolve picks the default or custom collection for handle. A positive limit
// can only lower the configured size; zero keeps it.
func (s *Service) Resolve(ctx context.Context, handle string, limit int) (Result, error) {
	if limit < 0 {
		return Result{}, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}

	n := s.limit
	if limit > 0 && limit < n {
		n = limit
	}

	products, err := s.fetch(ctx, handle, query.ForHandle(handle), n)
	if err != nil {
		return Result{}, err
	}
	return Result{Handle: handle, Products: products}, nil
}

func (s *Service) fetch(ctx context.Context, handle string, q query.Query, limit int) ([]product.Product, error) {
	log := logger.ForComponent(ctx, component, "fetch").With(zap.String("handle", handle))

	docs, err := s.search.Execute(ctx, s.index, q, limit)
	if err != nil {
		log.Warn("collection unavailable", zap.Error(err))
		return nil, domain.NewCollectionError(handle, err)
	}

	products, err := product.ProjectAll(docs)
	if err != nil {
		log.Error("document shaping failed", zap.Error(err))
		return nil, domain.NewCollectionError(handle, err)
	}

	if s.strict {
		for i := range products {
			if err := product.Validate(&products[i]); err != nil {
				log.Error("document failed validation", zap.Error(err))
				return nil, domain.NewCollectionError(handle, err)
			}
		}
	}

	log.Debug("collection resolved", zap.Int("products", len(products)))
	return products, nil
}
