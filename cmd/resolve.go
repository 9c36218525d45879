package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resolver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <zip>",
	Short: "Resolve a ZIP code to coordinates",
	Long: `Resolve a ZIP code to a latitude/longitude pair using the same
tiered lookup the server uses: dataset centroid, borough table, external
geocoding, then postal-code validation with a prefix fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}

		coord, err := env.Resolver.Resolve(ctx, args[0])
		switch {
		case errors.Is(err, geo.ErrInvalidInput):
			return fmt.Errorf("invalid zip code %q", args[0])
		case errors.Is(err, resolver.ErrNotFound):
			return fmt.Errorf("zip code %q not found", args[0])
		case err != nil:
			return err
		}

		fmt.Printf("%s\t%.6f\t%.6f\n", geo.NormalizeZip(args[0]), coord.Latitude, coord.Longitude)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
