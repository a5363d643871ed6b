package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PLAYOFF_ODDS"

// DefaultPath is used when no configuration path is given.
const DefaultPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads a YAML file and expands ${VAR} placeholders before handing it to viper.
func readExpanded(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads the configuration strictly from file and environment variables.
// Every required key must be present in the file.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with every documented default applied, so a
// missing or empty file yields a valid configuration. Environment variables prefixed
// with PLAYOFF_ODDS_ override file values (PLAYOFF_ODDS_SIMULATION_SIMULATIONS, ...).
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// Defaults returns the configuration produced by LoadWithDefaults with no file and no
// environment overrides.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "playoff-odds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("simulation.simulations", 20000)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.allow_partial", false)
	v.SetDefault("simulation.timeout_seconds", 300)

	v.SetDefault("model.pythagorean_gamma", 1.83)
	v.SetDefault("model.home_field_advantage", 0.054)
	v.SetDefault("model.league_average_fip", 4.20)
	v.SetDefault("model.clamp_min", 0.02)
	v.SetDefault("model.clamp_max", 0.98)
	v.SetDefault("model.coefficients.intercept", 0.0)
	v.SetDefault("model.coefficients.fip", 0.082)
	v.SetDefault("model.coefficients.bullpen", 0.031)
	v.SetDefault("model.coefficients.fatigue", -0.015)
	v.SetDefault("model.team_strength_weights.last30", 0.5)
	v.SetDefault("model.team_strength_weights.last90", 0.35)
	v.SetDefault("model.team_strength_weights.projection", 0.15)

	v.SetDefault("fatigue.decay", 0.7)
	v.SetDefault("fatigue.base_units", 1.0)
	v.SetDefault("fatigue.high_leverage_units", 1.5)
	v.SetDefault("fatigue.era_per_unit", 0.1)

	v.SetDefault("cache.ttl.odds", "6h")
	v.SetDefault("cache.ttl.game_data", "30m")
	v.SetDefault("cache.ttl.standings", "2h")
	v.SetDefault("cache.retention", "72h")
	v.SetDefault("cache.max_data_age", "24h")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "playoff_odds")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", "0 */6 * * *")

	v.SetDefault("snapshot.path", "")
	v.SetDefault("snapshot.url", "")
	v.SetDefault("snapshot.timeout", "30s")
	v.SetDefault("snapshot.max_retries", 3)
	v.SetDefault("snapshot.rate_limit", 1.0)
}
