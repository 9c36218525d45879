package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "snapwise",
	Short: "NYC SNAP store locator",
	Long:  "Serves nearby-store queries over the NYC food stamp retailer dataset, resolves ZIP codes to coordinates, and proxies an AI food-access advisor.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Secrets live in .env during local development.
		_ = godotenv.Load()

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
