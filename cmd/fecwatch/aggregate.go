package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <person-id>",
	Short: "Compute the funding aggregate for one person",
	Args:  cobra.ExactArgs(1),
	RunE:  runAggregate,
}

var aggregateCycle string

func init() {
	aggregateCmd.Flags().StringVar(&aggregateCycle, "cycle", "all", "Cycle selector: a year, last3, or all")
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	agg, err := eng.GetAggregate(cmd.Context(), args[0], aggregateCycle)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return fmt.Errorf("failed to encode aggregate: %w", err)
	}
	return nil
}
