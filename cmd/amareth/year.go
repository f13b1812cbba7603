package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/usterk/amareth-calendar/internal/zodiac"
)

var yearCmd = &cobra.Command{
	Use:   "year <era-year>",
	Short: "Show all months of an Amaréth year",
	Args:  cobra.ExactArgs(1),
	RunE:  runYear,
}

func init() {
	rootCmd.AddCommand(yearCmd)
}

func runYear(cmd *cobra.Command, args []string) error {
	eraYear, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid era year %q: want an integer", args[0])
	}
	year := zodiac.FromEra(eraYear)

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	table, err := a.cache.Get(ctx, year)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Amaréth Calendar - %s\n", zodiac.FormatEraYear(year))
	fmt.Printf("  %s\n", strings.Repeat("=", 55))
	fmt.Printf("  %3s  %-14s %6s  %20s  %4s\n", "Nr", "Month", "Symbol", "Begins", "Days")
	fmt.Printf("  %s\n", strings.Repeat("-", 55))

	total := 0
	for i, in := range table {
		sign := zodiac.Signs[in.SignIndex]
		days, err := a.conv.MonthLength(ctx, year, i+1)
		if err != nil {
			return err
		}
		total += days
		fmt.Printf("  %3d  %-14s %6s  %20s  %4d\n",
			i+1, sign.Name, sign.Symbol, in.At.UTC().Format("02 Jan 2006 15:04 UTC"), days)
	}

	fmt.Printf("  %s\n", strings.Repeat("-", 55))
	fmt.Printf("  %-40s %4d\n\n", "Days in the year:", total)
	return nil
}
