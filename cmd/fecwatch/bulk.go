package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <person-id>...",
	Short: "Compute funding aggregates for a batch of persons in one fetch",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBulk,
}

var bulkCycle string

func init() {
	bulkCmd.Flags().StringVar(&bulkCycle, "cycle", "all", "Cycle selector: a year, last3, or all")
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := eng.GetBulkAggregates(cmd.Context(), args, bulkCycle)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode aggregates: %w", err)
	}
	return nil
}
