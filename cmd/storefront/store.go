package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db"
	dbElastic "github.com/kailas-cloud/storefront/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/storefront/internal/db/redis"
)

// openStore builds the search backend driver selected by cfg.Search.Driver.
func openStore(cfg config.SearchConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverElasticsearch:
		caCert, err := readCACert(cfg.CACert)
		if err != nil {
			return nil, err
		}
		s, err := dbElastic.NewStore(dbElastic.Config{
			Addrs:              cfg.Addrs,
			Username:           cfg.Username,
			Password:           cfg.Password,
			APIKey:             cfg.APIKey,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			CACert:             caCert,
		})
		if err != nil {
			return nil, fmt.Errorf("create elasticsearch store: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown search driver %q", cfg.Driver)
	}
}

// readCACert loads the PEM bundle at path; an empty path yields nil.
func readCACert(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	pem, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read ca_cert: %w", err)
	}
	return pem, nil
}
