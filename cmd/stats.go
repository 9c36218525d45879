package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/dataset"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dataset summary statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, stats, err := dataset.Load(cmd.Context(), cfg.Dataset.Path)
		if err != nil {
			return err
		}

		healthy := 0
		rated := 0
		byBorough := map[string]int{}
		byType := map[string]int{}
		for _, rec := range records {
			if rec.IsHealthyStore {
				healthy++
			}
			if rec.HealthScore != nil {
				rated++
			}
			byBorough[rec.Borough]++
			byType[rec.StoreType]++
		}

		fmt.Printf("Rows read:     %d\n", stats.Rows)
		fmt.Printf("Dropped:       %d\n", stats.Dropped)
		fmt.Printf("Stores loaded: %d\n", len(records))
		fmt.Printf("Healthy:       %d\n", healthy)
		fmt.Printf("AI-rated:      %d\n", rated)

		fmt.Println("\nBy borough:")
		for _, k := range sortedKeys(byBorough) {
			fmt.Printf("  %-16s %d\n", k, byBorough[k])
		}

		fmt.Println("\nBy store type:")
		for _, k := range sortedKeys(byType) {
			fmt.Printf("  %-28s %d\n", k, byType[k])
		}

		return nil
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
