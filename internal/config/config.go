// Package config provides configuration loading and validation for the
// engine and its CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ThresholdEntry is a score-table row as it appears in configuration files.
// Amounts are whole dollars.
type ThresholdEntry struct {
	Amount int64 `json:"amount" validate:"min=0"`
	Score  int   `json:"score" validate:"min=0,max=100"`
}

// Config holds everything the engine needs. All fields are optional except
// the database URL; missing values use defaults.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty" validate:"required"`

	// RulesFile, when set, loads the classification rule set from a YAML
	// file instead of the config tables.
	RulesFile string `json:"rules_file,omitempty"`

	// CacheTTLSeconds bounds how long an aggregate is served without
	// recomputation. Zero means the five-minute default.
	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty" validate:"min=0"`

	// FetchTimeoutSeconds bounds each record-source query.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty" validate:"min=0"`

	// CycleYears is the discrete set of covered election cycles. Empty uses
	// the built-in set.
	CycleYears []int `json:"cycle_years,omitempty" validate:"dive,min=1900"`

	// Thresholds overrides the shipped score table.
	Thresholds []ThresholdEntry `json:"thresholds,omitempty" validate:"dive"`
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds a config from environment variables. The .env file, when
// present, is loaded by the CLI before this runs.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RulesFile:   os.Getenv("RULES_FILE"),
	}

	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS %q: %w", v, err)
		}
		cfg.CacheTTLSeconds = n
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.FetchTimeoutSeconds = n
	}
	if v := os.Getenv("CYCLE_YEARS"); v != "" {
		years, err := parseYears(v)
		if err != nil {
			return nil, err
		}
		cfg.CycleYears = years
	}

	return cfg, nil
}

// parseYears parses a comma-separated year list like "2020,2022,2024".
func parseYears(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid CYCLE_YEARS entry %q: %w", p, err)
		}
		years = append(years, y)
	}
	return years, nil
}

// MergeWithDefaults returns a copy of c with empty fields filled from
// defaults. Used to layer env values over a config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RulesFile == "" {
		result.RulesFile = defaults.RulesFile
	}
	if result.CacheTTLSeconds == 0 {
		result.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if len(result.CycleYears) == 0 {
		result.CycleYears = defaults.CycleYears
	}
	if len(result.Thresholds) == 0 {
		result.Thresholds = defaults.Thresholds
	}

	return result
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	for _, y := range c.CycleYears {
		if y%2 != 0 {
			return fmt.Errorf("config error: cycle year %d is not an even election year", y)
		}
	}
	return nil
}

// CacheTTL returns the configured TTL as a duration, zero when unset.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the configured fetch timeout as a duration, zero when
// unset.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
