package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Pre-compute solar ingresses for a range of years",
	Long: `Computes ingress tables for every zodiac year in the given range and
writes them to the cache, so later lookups never hit the ephemeris
search. Existing cached years in the range are overwritten.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("start", 2000, "first zodiac year to compute")
	generateCmd.Flags().Int("end", 2100, "last zodiac year to compute")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")
	if start > end {
		return fmt.Errorf("invalid range: start %d is after end %d", start, end)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("Computing ingresses for %d-%d...\n", start, end)

	began := time.Now()
	years, err := a.cache.Populate(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	elapsed := time.Since(began)

	fmt.Printf("Done: %d years, %d ingress entries in %.1fs\n", years, years*12, elapsed.Seconds())
	fmt.Printf("Cache: %s (%s backend)\n", a.cfg.CachePath, a.cfg.CacheBackend)
	return nil
}
