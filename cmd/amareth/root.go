package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amareth",
	Short: "Amaréth zodiac calendar tools",
	Long: `Amareth converts between the Gregorian calendar and the Amaréth zodiac
calendar, whose months begin at the Sun's ingress into each zodiac sign.

Era years: 1 = from the Aries ingress of 2026, 0 = the year before, -1
the year before that, and so on.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand given: show help and signal failure, like the
		// rest of our tooling does.
		_ = cmd.Help()
		os.Exit(1)
	},
}

// Execute runs the root command. Errors from subcommands (including the
// core conversion errors) propagate here and terminate the process with
// a diagnostic and exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
