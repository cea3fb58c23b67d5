package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FINSIGHT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.10, cfg.Engine.ForecastThreshold, 1e-9)
	assert.Equal(t, 10, cfg.Engine.InsightCap)
	assert.Equal(t, "roll", cfg.Engine.MonthEndPolicy)
	assert.False(t, cfg.Engine.CaseInsensitiveRules)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Sentry.DSN)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[engine]
forecast_threshold = 0.25
month_end_policy = "clamp"
case_insensitive_rules = true

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("FINSIGHT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.25, cfg.Engine.ForecastThreshold, 1e-9)
	assert.Equal(t, "clamp", cfg.Engine.MonthEndPolicy)
	assert.True(t, cfg.Engine.CaseInsensitiveRules)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[engine]\nmonth_end_policy = \"sideways\"\n"), 0o644))
	t.Setenv("FINSIGHT_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
