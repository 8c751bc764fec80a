package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crm-migrate",
	Short: "Legacy CRM to HubSpot migration pipeline",
	Long:  "Normalizes legacy CRM extracts, maps deals onto HubSpot pipelines, aggregates multi-site companies, resolves associations, and writes import-ready files.",
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
