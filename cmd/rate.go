package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/advisor"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/dataset"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
)

var (
	rateLimit       int
	rateConcurrency int
	rateOutput      string
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Generate AI health ratings for unrated stores",
	Long: `Rate stores on a 1-10 health scale using Claude and write the
updated dataset back to CSV. Stores that already carry a health score are
skipped, so the command can be re-run to fill in the remainder.

Examples:
  # Rate every unrated store
  rate

  # Rate the first 50 unrated stores and write to a new file
  rate --limit 50 --output rated.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("rate: SNAPWISE_ANTHROPIC_KEY is not set")
		}

		records, stats, err := dataset.Load(ctx, cfg.Dataset.Path)
		if err != nil {
			return err
		}
		zap.L().Info("dataset loaded",
			zap.Int("rows", stats.Rows),
			zap.Int("dropped", stats.Dropped),
		)

		concurrency := rateConcurrency
		if concurrency == 0 {
			concurrency = cfg.Rating.Concurrency
		}
		maxStores := rateLimit
		if maxStores == 0 {
			maxStores = cfg.Rating.MaxStores
		}

		client := anthropic.NewClient(cfg.Anthropic.Key)
		rated := advisor.RateStores(ctx, client, cfg.Anthropic.Model, records, advisor.RatingOptions{
			Concurrency:  concurrency,
			HealthyBonus: cfg.Rating.HealthyBonus,
			MaxStores:    maxStores,
		})
		zap.L().Info("rating complete", zap.Int("rated", rated))

		if rated == 0 {
			return nil
		}

		out := rateOutput
		if out == "" {
			out = cfg.Dataset.Path
		}
		if err := dataset.WriteCSV(out, records); err != nil {
			return err
		}
		zap.L().Info("dataset written", zap.String("path", out))

		return nil
	},
}

func init() {
	rateCmd.Flags().IntVar(&rateLimit, "limit", 0, "maximum stores to rate (0=use config)")
	rateCmd.Flags().IntVar(&rateConcurrency, "concurrency", 0, "parallel rating calls (0=use config)")
	rateCmd.Flags().StringVar(&rateOutput, "output", "", "output CSV path (default: overwrite dataset)")
	rootCmd.AddCommand(rateCmd)
}
