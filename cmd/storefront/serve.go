package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
	searchrepo "github.com/kailas-cloud/storefront/internal/repository/search"
	chiTransport "github.com/kailas-cloud/storefront/internal/transport/chi"
	categoryuc "github.com/kailas-cloud/storefront/internal/usecase/category"
	collectionuc "github.com/kailas-cloud/storefront/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	"github.com/kailas-cloud/storefront/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting storefront API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("search_driver", cfg.Search.Driver),
		zap.Strings("search_addrs", cfg.Search.Addrs),
		zap.String("product_index", cfg.Catalog.ProductIndex),
		zap.String("category_index", cfg.Catalog.CategoryIndex),
	)

	store, err := openStore(cfg.Search)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("search backend not ready: %w", err)
	}
	logger.Info("Connected to search backend", zap.String("backend", store.Backend()))

	// Search metrics are registered explicitly (no init())
	metrics.RegisterSearchMetrics()

	searchRepo := searchrepo.New(store)

	collectionSvc := collectionuc.New(searchRepo, cfg.Catalog.ProductIndex,
		collectionuc.WithLimit(cfg.Catalog.CollectionLimit),
		collectionuc.WithStrictDocuments(cfg.Catalog.StrictDocuments),
	)
	categorySvc := categoryuc.New(searchRepo, cfg.Catalog.CategoryIndex,
		cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit)
	healthSvc := healthuc.New(store.Backend(), store)

	server := chiTransport.NewServer(collectionSvc, categorySvc, healthSvc, logger,
		chiTransport.WithLegacyStatus(cfg.HTTP.LegacyStatus),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
