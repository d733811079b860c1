package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Search drivers.
const (
	DriverElasticsearch = "elasticsearch"
	DriverRedis         = "redis"
)

// MaxCollectionLimit is the hard ceiling on collection size.
const MaxCollectionLimit = 20

// Config holds the storefront API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Search  SearchConfig  `yaml:"search"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	// LegacyStatus answers every request with HTTP 200 and puts "400" in the body on failure.
	LegacyStatus bool `yaml:"legacy_status"`
}

// SearchConfig holds search backend connection settings.
type SearchConfig struct {
	Driver             string   `yaml:"driver"` // elasticsearch, redis (default: elasticsearch)
	Addrs              []string `yaml:"addrs"`
	Username           string   `yaml:"username"`
	Password           string   `yaml:"password"`
	APIKey             string   `yaml:"api_key"`
	InsecureSkipVerify bool     `yaml:"insecure_skip_verify"`
	CACert             string   `yaml:"ca_cert"`    // path to a PEM bundle
	KeyPrefix          string   `yaml:"key_prefix"` // redis only
	DB                 int      `yaml:"db"`         // redis only
	ReadinessTimeout   int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds index names and result limits.
type CatalogConfig struct {
	ProductIndex    string `yaml:"product_index"`
	CategoryIndex   string `yaml:"category_index"`
	CollectionLimit int    `yaml:"collection_limit"`
	DefaultLimit    int    `yaml:"default_limit"`
	MaxLimit        int    `yaml:"max_limit"`
	StrictDocuments bool   `yaml:"strict_documents"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Driver == "" {
		c.Search.Driver = DriverElasticsearch
	}
	if c.Search.ReadinessTimeout <= 0 {
		c.Search.ReadinessTimeout = 10
	}
	if c.Catalog.ProductIndex == "" {
		c.Catalog.ProductIndex = "amazon_products_4"
	}
	if c.Catalog.CategoryIndex == "" {
		c.Catalog.CategoryIndex = "amazon_products_2"
	}
	if c.Catalog.CollectionLimit <= 0 {
		c.Catalog.CollectionLimit = MaxCollectionLimit
	}
	if c.Catalog.DefaultLimit <= 0 {
		c.Catalog.DefaultLimit = 100
	}
	if c.Catalog.MaxLimit <= 0 {
		c.Catalog.MaxLimit = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Search.Driver {
	case DriverElasticsearch, DriverRedis:
		// ok
	default:
		return fmt.Errorf("search.driver must be %q or %q, got %q", DriverElasticsearch, DriverRedis, c.Search.Driver)
	}
	if len(c.Search.Addrs) == 0 {
		return fmt.Errorf("search.addrs is required")
	}
	if c.Search.APIKey != "" && c.Search.Username != "" {
		return fmt.Errorf("search.api_key and search.username are mutually exclusive")
	}
	if c.Catalog.CollectionLimit > MaxCollectionLimit {
		return fmt.Errorf("catalog.collection_limit must be at most %d, got %d",
			MaxCollectionLimit, c.Catalog.CollectionLimit)
	}
	if c.Catalog.DefaultLimit > c.Catalog.MaxLimit {
		return fmt.Errorf("catalog.default_limit (%d) must not exceed catalog.max_limit (%d)",
			c.Catalog.DefaultLimit, c.Catalog.MaxLimit)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
