package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a scenario, or all of them in sequence",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) == 0 {
			for _, s := range getAllScenarios() {
				if err := runOne(ctx, s); err != nil {
					return err
				}
			}
			return nil
		}

		s, ok := getScenarioByName(args[0])
		if !ok {
			return fmt.Errorf("unknown scenario: %s\n\nRun 'framezdemo list' to see available scenarios", args[0])
		}
		return runOne(ctx, s)
	},
}

func runOne(ctx context.Context, s Scenario) error {
	fmt.Printf("=== %s: %s ===\n", s.Name(), s.Description())
	if err := s.Run(ctx); err != nil {
		fmt.Printf("FAILED: %v\n\n", err)
		return err
	}
	fmt.Println("OK")
	fmt.Println()
	return nil
}
