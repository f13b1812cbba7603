package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/usterk/amareth-calendar/internal/zodiac"
)

var monthCmd = &cobra.Command{
	Use:   "month <era-year> <1-12>",
	Short: "Show the days of a specific Amaréth month",
	Args:  cobra.ExactArgs(2),
	RunE:  runMonth,
}

func init() {
	rootCmd.AddCommand(monthCmd)
}

func runMonth(cmd *cobra.Command, args []string) error {
	eraYear, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid era year %q: want an integer", args[0])
	}
	month, err := parseMonth(args[1])
	if err != nil {
		return err
	}
	year := zodiac.FromEra(eraYear)

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	days, err := a.conv.MonthLength(ctx, year, month)
	if err != nil {
		return err
	}

	sign := zodiac.Signs[month-1]
	fmt.Printf("\n  %s %s (%s), %s\n", sign.Symbol, sign.Name, sign.Latin, zodiac.FormatEraYear(year))
	fmt.Printf("  Length: %d days\n", days)
	fmt.Printf("  Ecliptic span: %d°–%d°\n\n", sign.LongitudeStart, sign.LongitudeStart+30)

	for day := 1; day <= days; day++ {
		zd := zodiac.Date{Year: year, Month: month, Day: day}
		greg, err := a.conv.ZodiacToGregorian(ctx, zd)
		if err != nil {
			return err
		}
		fmt.Printf("  %3d %-14s = %s (%s)\n", day, sign.Name, greg.Format("2006-01-02"), greg.Weekday())
	}
	fmt.Println()
	return nil
}
