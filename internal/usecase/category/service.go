package category

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/query"
)

// Service lists raw catalog documents by category substring.
type Service struct {
	search       Searcher
	index        string
	defaultLimit int
	maxLimit     int
}

// New creates a category service. maxLimit below defaultLimit is raised to it.
func New(search Searcher, index string, defaultLimit, maxLimit int) *Service {
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Service{search: search, index: index, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Browse returns documents whose category contains category (case-sensitive).
// limit 0 means the default; larger values are clamped to the maximum.
func (s *Service) Browse(ctx context.Context, category string, limit int) ([]product.Document, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidRequest)
	}

	n := limit
	switch {
	case n == 0:
		n = s.defaultLimit
	case n > s.maxLimit:
		n = s.maxLimit
	}

	docs, err := s.search.Execute(ctx, s.index, query.ForCategory(category), n)
	if err != nil {
		return nil, fmt.Errorf("browse category %q: %w", category, err)
	}
	return docs, nil
}
