// Package main provides the fecwatch debug CLI for the funding
// classification and aggregation engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fecwatch",
	Short: "Pro-Israel funding classification and aggregation engine",
	Long:  "fecwatch computes deduplicated pro-Israel lobby funding totals and scores per political person, through the same engine the site's detail and bulk views use.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
