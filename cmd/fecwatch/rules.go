package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the classification rule set",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the rule set, flagging an empty one",
	Args:  cobra.NoArgs,
	RunE:  runRulesCheck,
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesCheck(cmd *cobra.Command, _ []string) error {
	eng, cleanup, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ruleSet, err := eng.CheckRules(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("committee ids: %d\n", len(ruleSet.CommitteeIDs))
	fmt.Printf("keywords:      %d\n", len(ruleSet.Keywords))
	if ruleSet.Empty() {
		return fmt.Errorf("rule set is empty: every classification will fail closed and all scores will read No Support")
	}
	return nil
}
