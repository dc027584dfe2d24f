package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"database_url": "postgres://localhost/fecwatch",
		"rules_file": "rules.yaml",
		"cache_ttl_seconds": 300,
		"cycle_years": [2020, 2022, 2024],
		"thresholds": [{"amount": 0, "score": 0}, {"amount": 1000, "score": 50}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/fecwatch", cfg.DatabaseURL)
	assert.Equal(t, []int{2020, 2022, 2024}, cfg.CycleYears)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Len(t, cfg.Thresholds, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "5")
	t.Setenv("CYCLE_YEARS", "2020, 2022,2024")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, []int{2020, 2022, 2024}, cfg.CycleYears)
}

func TestFromEnv_BadNumbers(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "soon")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://env/db"}
	defaults := Config{
		DatabaseURL: "postgres://file/db",
		RulesFile:   "rules.yaml",
		CycleYears:  []int{2022, 2024},
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "postgres://env/db", merged.DatabaseURL, "set values win over defaults")
	assert.Equal(t, "rules.yaml", merged.RulesFile)
	assert.Equal(t, []int{2022, 2024}, merged.CycleYears)
}

func TestValidate(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://localhost/fecwatch"}
	assert.NoError(t, cfg.Validate())

	missing := Config{}
	assert.Error(t, missing.Validate())

	oddYear := Config{DatabaseURL: "postgres://x", CycleYears: []int{2023}}
	assert.Error(t, oddYear.Validate())
}
