package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("PLAYOFF_ODDS_TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(filepath.Join("testdata", "valid_config.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 50000, cfg.Simulation.Simulations)
	assert.Equal(t, uint64(20250801), cfg.Simulation.Seed)
	assert.True(t, cfg.Simulation.AllowPartial)
	assert.Equal(t, 2*time.Minute, cfg.Simulation.Timeout())
	assert.Equal(t, 0.4, cfg.Model.TeamStrengthWeights.Last90)
	assert.Equal(t, 0.95, cfg.Model.ClampMax)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL.Odds)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL.GameData)
	assert.Equal(t, 12*time.Hour, cfg.Cache.MaxDataAge)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "15 */6 * * *", cfg.Scheduler.Cron)
	assert.Equal(t, "https://stats.example.com/snapshot", cfg.Snapshot.URL)
	assert.Equal(t, 10*time.Second, cfg.Snapshot.Timeout)
	assert.Equal(t, 5, cfg.Snapshot.MaxRetries)
	assert.Equal(t, 2.0, cfg.Snapshot.RateLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join("testdata", "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 20000, cfg.Simulation.Simulations)
	assert.Equal(t, 1.83, cfg.Model.PythagoreanGamma)
	assert.Equal(t, 0.054, cfg.Model.HomeFieldAdvantage)
	assert.Equal(t, 0.5, cfg.Model.TeamStrengthWeights.Last30)
	assert.Equal(t, 0.35, cfg.Model.TeamStrengthWeights.Last90)
	assert.Equal(t, 0.15, cfg.Model.TeamStrengthWeights.Projection)
	assert.Equal(t, 0.7, cfg.Fatigue.Decay)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL.Standings)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, cfg, Defaults())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PLAYOFF_ODDS_SIMULATION_SIMULATIONS", "5000")
	t.Setenv("PLAYOFF_ODDS_APP_LOG_LEVEL", "warn")

	cfg, err := LoadWithDefaults(filepath.Join("testdata", "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Simulation.Simulations)
	assert.Equal(t, "warn", cfg.App.LogLevel)
}

func TestWeightsMustSumToOne(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join("testdata", "bad_weights.yaml"))
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 1")
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"environment", func(c *Config) { c.App.Environment = "qa" }, "development, staging, production"},
		{"log level", func(c *Config) { c.App.LogLevel = "verbose" }, "debug, info, warn, error"},
		{"clamp band", func(c *Config) { c.Model.ClampMin = 0.6 }, "ClampMin"},
		{"narrow band is fine", func(c *Config) { c.Model.ClampMin, c.Model.ClampMax = 0.45, 0.55 }, ""},
		{"simulations", func(c *Config) { c.Simulation.Simulations = 50 }, "simulation.simulations"},
		{"decay", func(c *Config) { c.Fatigue.Decay = 1.5 }, "Decay"},
		{"cron", func(c *Config) { c.Scheduler.Enabled = true; c.Scheduler.Cron = "every day" }, "scheduler.cron"},
		{"retention", func(c *Config) { c.Cache.Retention = time.Hour }, "cache.retention"},
		{"database", func(c *Config) { c.Database.Enabled = true; c.Database.Host = "" }, "database host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Password = "pw"
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/playoff_odds?sslmode=disable", cfg.GetDatabaseDSN())
}
