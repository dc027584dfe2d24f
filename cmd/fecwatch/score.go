package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score <person-id>",
	Short: "Compute the lobby score, grade, category and humanity score for one person",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var scoreCycle string

func init() {
	scoreCmd.Flags().StringVar(&scoreCycle, "cycle", "all", "Cycle selector: a year, last3, or all")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	score, err := eng.GetScore(cmd.Context(), args[0], scoreCycle)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(score); err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}
	return nil
}
