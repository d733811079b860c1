// Package main is the entry point for the storefront catalog API and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/storefront/internal/config"
)

// env selects config/<env>.yaml; set by the --env flag.
var env string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Product catalog collections over a search backend",
	Long: `storefront serves product collections out of an Elasticsearch or
RediSearch index. "serve" runs the HTTP API; "collection" runs a single
query and prints the same JSON the API would answer with.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if env == "" {
			env = config.GetEnv()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "config environment: reads config/<env>.yaml (default: $ENV or local)")
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
