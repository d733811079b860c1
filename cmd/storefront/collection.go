package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/storefront/internal/config"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/pkg/catalog"
)

var collectionCmd = &cobra.Command{
	Use:   "collection [handle]",
	Short: "Resolve a collection once and print it as JSON",
	Long: `collection resolves a single collection against the configured backend and
prints the response body the HTTP API would send. Without a handle (or with
"default") it lists the unfiltered collection. --category lists raw documents
by category instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")
		byCategory := cmd.Flags().Changed("category")

		var handle string
		if len(args) == 1 {
			handle = args[0]
		}

		cfg, err := config.Load(env)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		opts, err := catalogOptions(cfg)
		if err != nil {
			return err
		}
		logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		opts = append(opts, catalog.WithLogger(logger))

		ctx := cmd.Context()
		client, err := catalog.New(ctx, opts...)
		if err != nil {
			return err
		}
		defer client.Close()

		if byCategory {
			docs, err := client.Category(ctx, category, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), docs)
		}

		col, err := client.Collection(ctx, handle, limit)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), collectionBody(col))
	},
}

func init() {
	collectionCmd.Flags().Int("limit", 0, "maximum number of products (collections never exceed 20)")
	collectionCmd.Flags().String("category", "", "list raw documents whose category contains this text")

	rootCmd.AddCommand(collectionCmd)
}

// collectionEnvelope mirrors the HTTP success envelope.
type collectionEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    collectionData `json:"data"`
}

type collectionData struct {
	TotalProducts    int               `json:"totalProducts"`
	CollectionHandle string            `json:"collectionHandle"`
	MatchedProducts  []catalog.Product `json:"matchedProducts"`
}

func collectionBody(col catalog.Collection) collectionEnvelope {
	return collectionEnvelope{
		Status: strconv.Itoa(http.StatusOK),
		Data: collectionData{
			TotalProducts:    len(col.Products),
			CollectionHandle: col.Handle,
			MatchedProducts:  col.Products,
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// catalogOptions translates the service config into client options.
func catalogOptions(cfg config.Config) ([]catalog.Option, error) {
	var opts []catalog.Option
	switch cfg.Search.Driver {
	case config.DriverElasticsearch:
		if cfg.Search.APIKey != "" {
			opts = append(opts, catalog.WithElasticsearchAPIKey(cfg.Search.Addrs, cfg.Search.APIKey))
		} else {
			opts = append(opts, catalog.WithElasticsearch(cfg.Search.Addrs, cfg.Search.Username, cfg.Search.Password))
		}
		caCert, err := readCACert(cfg.Search.CACert)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithTLS(cfg.Search.InsecureSkipVerify, caCert))
	case config.DriverRedis:
		if len(cfg.Search.Addrs) == 0 {
			return nil, fmt.Errorf("search.addrs is required")
		}
		opts = append(opts,
			catalog.WithRedis(cfg.Search.Addrs[0], cfg.Search.Password, cfg.Search.KeyPrefix),
			catalog.WithRedisAuth(cfg.Search.Username, cfg.Search.DB),
		)
	default:
		return nil, fmt.Errorf("unknown search driver %q", cfg.Search.Driver)
	}

	return append(opts,
		catalog.WithIndexes(cfg.Catalog.ProductIndex, cfg.Catalog.CategoryIndex),
		catalog.WithCollectionLimit(cfg.Catalog.CollectionLimit),
		catalog.WithCategoryLimits(cfg.Catalog.DefaultLimit, cfg.Catalog.MaxLimit),
		catalog.WithStrictDocuments(cfg.Catalog.StrictDocuments),
		catalog.WithReadinessTimeout(time.Duration(cfg.Search.ReadinessTimeout)*time.Second),
	), nil
}
