// Package rules loads classification rule sets from YAML files. The file
// source serves the debug CLI and deployments that keep the rule set in
// version control instead of the config tables.
package rules

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mweinberg/fecwatch/internal/types"
)

var validate = validator.New()

// FileSource loads the rule set from a YAML file on every call, so edits to
// the file take effect on the next engine invocation without a restart.
type FileSource struct {
	Path string
	Log  zerolog.Logger
}

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	CommitteeIDs []string `yaml:"committee_ids"`
	Keywords     []string `yaml:"keywords"`
}

// Load reads and validates the rule file at path.
func Load(path string) (types.ClassificationRuleSet, error) {
	var rules types.ClassificationRuleSet

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return rules, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules = types.ClassificationRuleSet{
		CommitteeIDs: rf.CommitteeIDs,
		Keywords:     rf.Keywords,
	}
	if err := validate.Struct(rules); err != nil {
		return types.ClassificationRuleSet{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// LoadRules implements the engine.RuleSource boundary. An empty set is not an
// error, but it makes every classification fail closed, so it is logged as a
// likely misconfiguration rather than genuine zero funding.
func (f *FileSource) LoadRules(_ context.Context) (types.ClassificationRuleSet, error) {
	rules, err := Load(f.Path)
	if err != nil {
		return rules, err
	}
	if rules.Empty() {
		f.Log.Warn().Str("path", f.Path).Msg("rule set is empty; all classification will fail closed")
	}
	return rules, nil
}
