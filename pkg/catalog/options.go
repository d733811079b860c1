package catalog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "elasticsearch" or "redis"
	addrs     []string
	username  string
	password  string
	apiKey    string
	keyPrefix string
	redisDB   int

	insecureSkipVerify bool
	caCert             []byte

	productIndex    string
	categoryIndex   string
	collectionLimit int
	defaultLimit    int
	maxLimit        int
	strict          bool

	readinessTimeout time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch connects to an Elasticsearch cluster with optional basic auth.
func WithElasticsearch(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.addrs = addrs
		c.username = username
		c.password = password
	})
}

// WithElasticsearchAPIKey connects to an Elasticsearch cluster using an API key.
func WithElasticsearchAPIKey(addrs []string, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.addrs = addrs
		c.apiKey = apiKey
	})
}

// WithTLS adjusts certificate checks for Elasticsearch: caCert is a PEM bundle
// trusted in addition to the system roots.
func WithTLS(insecureSkipVerify bool, caCert []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.insecureSkipVerify = insecureSkipVerify
		c.caCert = caCert
	})
}

// WithRedis connects to a Redis instance with the search module loaded.
// keyPrefix is stripped from document keys to form product ids.
func WithRedis(addr, password, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
		c.keyPrefix = keyPrefix
	})
}

// WithRedisAuth sets the ACL username and the logical database for WithRedis.
func WithRedisAuth(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.redisDB = db
	})
}

// WithIndexes sets the product and category index names.
// Defaults: amazon_products_4 and amazon_products_2.
func WithIndexes(product, category string) Option {
	return optionFunc(func(c *clientConfig) {
		c.productIndex = product
		c.categoryIndex = category
	})
}

// WithCollectionLimit lowers the collection size below the cap of 20.
func WithCollectionLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.collectionLimit = n
	})
}

// WithCategoryLimits sets the default and maximum category listing sizes.
// Default: 100 for both.
func WithCategoryLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithStrictDocuments fails a collection when any product misses a required field.
func WithStrictDocuments(strict bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.strict = strict
	})
}

// WithReadinessTimeout bounds the initial connectivity check. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
