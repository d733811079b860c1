package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/storefront/internal/db"
	dbElastic "github.com/kailas-cloud/storefront/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/storefront/internal/db/redis"
	"github.com/kailas-cloud/storefront/internal/domain/product"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	searchrepo "github.com/kailas-cloud/storefront/internal/repository/search"
	categoryuc "github.com/kailas-cloud/storefront/internal/usecase/category"
	collectionuc "github.com/kailas-cloud/storefront/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
)

const (
	driverElasticsearch = dbElastic.BackendName
	driverRedis         = dbRedis.BackendName

	defaultProductIndex     = "amazon_products_4"
	defaultCategoryIndex    = "amazon_products_2"
	defaultCategoryLimit    = searchrepo.DefaultLimit
	defaultReadinessTimeout = 10 * time.Second
)

// Product is a normalized catalog item.
type Product = product.Product

// Document is a raw catalog document; it marshals with its engine id under "_id".
type Document = product.Document

// Collection is a resolved collection.
type Collection struct {
	Handle   string
	Products []Product
}

// HealthStatus represents the aggregated backend health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Internal interfaces for substitution in tests.
type collectionUseCase interface {
	Resolve(ctx context.Context, handle string, limit int) (collectionuc.Result, error)
}

type categoryUseCase interface {
	Browse(ctx context.Context, category string, limit int) ([]product.Document, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the catalog entry point.
type Client struct {
	store         db.Store
	collectionSvc collectionUseCase
	categorySvc   categoryUseCase
	healthSvc     healthUseCase
	obs           *observer
}

// New creates a Client and waits until the backend answers.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("catalog: backend address required (use WithElasticsearch or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	timeout := cfg.readinessTimeout
	if timeout <= 0 {
		timeout = defaultReadinessTimeout
	}
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalog: backend not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverElasticsearch:
		s, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			APIKey:   cfg.apiKey,

			InsecureSkipVerify: cfg.insecureSkipVerify,
			CACert:             cfg.caCert,
		})
		if err != nil {
			return nil, fmt.Errorf("catalog: create elasticsearch store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.addrs,
			Username:  cfg.username,
			Password:  cfg.password,
			DB:        cfg.redisDB,
			KeyPrefix: cfg.keyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("catalog: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("catalog: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	productIndex, categoryIndex := cfg.productIndex, cfg.categoryIndex
	if productIndex == "" {
		productIndex = defaultProductIndex
	}
	if categoryIndex == "" {
		categoryIndex = defaultCategoryIndex
	}
	defaultLimit := cfg.defaultLimit
	if defaultLimit <= 0 {
		defaultLimit = defaultCategoryLimit
	}

	repo := searchrepo.New(store)
	return &Client{
		store: store,
		collectionSvc: collectionuc.New(repo, productIndex,
			collectionuc.WithLimit(cfg.collectionLimit),
			collectionuc.WithStrictDocuments(cfg.strict),
		),
		categorySvc: categoryuc.New(repo, categoryIndex, defaultLimit, cfg.maxLimit),
		healthSvc:   healthuc.New(store.Backend(), store),
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Collection resolves handle ("" or "default" for the unfiltered listing).
// limit 0 keeps the configured size; a positive limit can only lower it.
func (c *Client) Collection(ctx context.Context, handle string, limit int) (col Collection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collection", start, err) }()

	res, err := c.collectionSvc.Resolve(c.withLogger(ctx), handle, limit)
	if err != nil {
		return Collection{}, fmt.Errorf("collection: %w", err)
	}
	return Collection{Handle: res.Handle, Products: res.Products}, nil
}

// Category lists raw documents whose category contains category.
func (c *Client) Category(ctx context.Context, category string, limit int) (docs []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("category", start, err) }()

	docs, err = c.categorySvc.Browse(c.withLogger(ctx), category, limit)
	if err != nil {
		return nil, fmt.Errorf("category: %w", err)
	}
	return docs, nil
}

// Health checks the search backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(c.withLogger(ctx))
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// withLogger hands the client logger to the services.
func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.obs == nil {
		return ctx
	}
	return logpkg.ContextWithLogger(ctx, c.obs.logger)
}
