package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "139104", cfg.Dataset.InvalidTypeCode)
	assert.Equal(t, 4, cfg.Forecast.SeasonLength)
	assert.Equal(t, int64(42), cfg.Layout.Seed)
	assert.Equal(t, 50, cfg.Layout.Iterations)
	assert.Equal(t, 10, cfg.Report.TopAgencies)
	assert.Equal(t, 5, cfg.Report.TopActivities)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromYAMLFile(t *testing.T) {
	content := `
dataset:
  path: data/grants.csv
  invalid_type_code: "999"
layout:
  seed: 7
  iterations: 25
report:
  top_agencies: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/grants.csv", cfg.Dataset.Path)
	assert.Equal(t, "999", cfg.Dataset.InvalidTypeCode)
	assert.Equal(t, int64(7), cfg.Layout.Seed)
	assert.Equal(t, 25, cfg.Layout.Iterations)
	assert.Equal(t, 3, cfg.Report.TopAgencies)

	// Untouched sections keep their defaults.
	assert.Equal(t, 4, cfg.Forecast.SeasonLength)
	assert.Equal(t, 5, cfg.Report.TopActivities)
}

func TestEnvOverridesFile(t *testing.T) {
	content := "layout:\n  seed: 7\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("GRANTLENS_LAYOUT_SEED", "99")
	t.Setenv("GRANTLENS_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Layout.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Layout.Iterations = 0 }},
		{"alpha out of range", func(c *Config) { c.Forecast.Alpha = 1.5 }},
		{"season length too short", func(c *Config) { c.Forecast.SeasonLength = 1 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"empty output dir", func(c *Config) { c.Report.OutputDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
