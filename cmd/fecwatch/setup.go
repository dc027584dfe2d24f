package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mweinberg/fecwatch/internal/config"
	"github.com/mweinberg/fecwatch/internal/db"
	"github.com/mweinberg/fecwatch/internal/engine"
	"github.com/mweinberg/fecwatch/internal/logger"
	"github.com/mweinberg/fecwatch/internal/rules"
	"github.com/mweinberg/fecwatch/internal/scoring"
)

// configPath is shared by all subcommands via the --config flag.
var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (env vars take precedence)")
}

// loadConfig layers environment variables over the optional config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine wires the engine from config: Postgres record source, rule source
// (YAML file when configured, config tables otherwise), thresholds override.
// The returned cleanup closes the pool.
func newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New()

	store, err := db.Connect(ctx, cfg.DatabaseURL, cfg.FetchTimeout())
	if err != nil {
		return nil, nil, err
	}

	var ruleSource engine.RuleSource = store
	if cfg.RulesFile != "" {
		ruleSource = &rules.FileSource{Path: cfg.RulesFile, Log: log}
	}

	var thresholds []scoring.Threshold
	for _, t := range cfg.Thresholds {
		thresholds = append(thresholds, scoring.Threshold{
			Amount: decimal.NewFromInt(t.Amount),
			Score:  t.Score,
		})
	}

	eng, err := engine.New(engine.Options{
		Source:       store,
		Rules:        ruleSource,
		CycleYears:   cfg.CycleYears,
		CacheTTL:     cfg.CacheTTL(),
		FetchTimeout: cfg.FetchTimeout(),
		Thresholds:   thresholds,
		Logger:       log,
	})
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to build engine: %w", err)
	}

	return eng, store.Close, nil
}
