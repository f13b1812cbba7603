package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <date>",
	Short: "Convert a Gregorian date (YYYY-MM-DD) to Amaréth",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	greg, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	zd, err := a.conv.GregorianToZodiac(cmd.Context(), greg)
	if err != nil {
		return err
	}

	fmt.Printf("Gregorian: %s\n", greg.Format("2006-01-02"))
	fmt.Printf("Amaréth:   %s\n", zd.FormatFull())
	fmt.Printf("Short:     %s\n", zd.FormatShort())
	return nil
}
