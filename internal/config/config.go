package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the finsight CLI.
type Config struct {
	Engine EngineConfig
	Log    LogConfig
	Sentry SentryConfig
}

// EngineConfig tunes the analysis thresholds.
type EngineConfig struct {
	ForecastThreshold    float64
	InsightCap           int
	MonthEndPolicy       string // "roll" or "clamp"
	CaseInsensitiveRules bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// SentryConfig enables error reporting when a DSN is set.
type SentryConfig struct {
	DSN         string
	Environment string
}

// Load reads configuration from file and env. Env var overrides use prefix FINSIGHT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("engine.forecast_threshold", 0.10)
	v.SetDefault("engine.insight_cap", 10)
	v.SetDefault("engine.month_end_policy", "roll")
	v.SetDefault("engine.case_insensitive_rules", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FINSIGHT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "finsight"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINSIGHT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Engine.MonthEndPolicy != "roll" && c.Engine.MonthEndPolicy != "clamp" {
		return Config{}, fmt.Errorf("invalid month_end_policy %q: want roll or clamp", c.Engine.MonthEndPolicy)
	}
	return c, nil
}
