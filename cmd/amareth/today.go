package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's Amaréth date",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	zd, err := a.conv.Today(cmd.Context())
	if err != nil {
		return err
	}

	greg := time.Now().UTC()
	fmt.Printf("Today:     %s\n", zd.FormatFull())
	fmt.Printf("Gregorian: %s\n", greg.Format("2006-01-02"))
	return nil
}
