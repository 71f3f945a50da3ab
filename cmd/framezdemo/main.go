package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "framezdemo",
		Short: "Reactive frame-graph engine demos",
		Long: `framezdemo runs small, self-contained scenarios against the framez
engine: identity filters, chained dependencies, MAKE_LINEAR ordering,
SINGLE_THREADED backpressure, failure cascades, and shutdown under load.`,
		Version: version,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available scenarios:")
		for _, ex := range getAllScenarios() {
			fmt.Printf("  %-16s %s\n", ex.Name(), ex.Description())
		}
	},
}
