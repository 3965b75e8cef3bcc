package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "prosperian-api",
	Short: "Lead-generation aggregation API",
	Long:  "Aggregates Pronto saved-search leads and Google Places results behind a REST facade, with filtering, per-request enrichment and run history.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
