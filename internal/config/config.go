// Package config provides configuration management for the playoff odds engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Fatigue    FatigueConfig    `mapstructure:"fatigue" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SimulationConfig controls Monte Carlo batches
type SimulationConfig struct {
	Simulations    int    `mapstructure:"simulations" validate:"gte=0"`
	Workers        int    `mapstructure:"workers" validate:"gte=0"`
	Seed           uint64 `mapstructure:"seed"`
	AllowPartial   bool   `mapstructure:"allow_partial"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

// Timeout returns the batch timeout, or zero for none.
func (s SimulationConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ModelConfig represents the team strength and game outcome model parameters
type ModelConfig struct {
	PythagoreanGamma    float64            `mapstructure:"pythagorean_gamma" validate:"gt=0"`
	HomeFieldAdvantage  float64            `mapstructure:"home_field_advantage" validate:"gte=0,lt=0.5"`
	LeagueAverageFIP    float64            `mapstructure:"league_average_fip" validate:"gt=0"`
	ClampMin            float64            `mapstructure:"clamp_min" validate:"gte=0,lt=0.5"`
	ClampMax            float64            `mapstructure:"clamp_max" validate:"gt=0.5,lte=1"`
	Coefficients        CoefficientsConfig `mapstructure:"coefficients"`
	TeamStrengthWeights WeightsConfig      `mapstructure:"team_strength_weights"`
}

// CoefficientsConfig holds the game model's linear coefficients
type CoefficientsConfig struct {
	Intercept float64 `mapstructure:"intercept"`
	FIP       float64 `mapstructure:"fip" validate:"gte=0"`
	Bullpen   float64 `mapstructure:"bullpen" validate:"gte=0"`
	Fatigue   float64 `mapstructure:"fatigue" validate:"lte=0"`
}

// WeightsConfig blends the strength signals. The weights must sum to 1.
type WeightsConfig struct {
	Last30     float64 `mapstructure:"last30" validate:"gte=0,lte=1"`
	Last90     float64 `mapstructure:"last90" validate:"gte=0,lte=1"`
	Projection float64 `mapstructure:"projection" validate:"gte=0,lte=1,weightsum"`
}

// FatigueConfig represents bullpen fatigue parameters
type FatigueConfig struct {
	Decay             float64 `mapstructure:"decay" validate:"gt=0,lte=1"`
	BaseUnits         float64 `mapstructure:"base_units" validate:"gte=0"`
	HighLeverageUnits float64 `mapstructure:"high_leverage_units" validate:"gte=0"`
	ERAPerUnit        float64 `mapstructure:"era_per_unit" validate:"gte=0"`
}

// CacheConfig represents result cache configuration
type CacheConfig struct {
	TTL        CacheTTLConfig `mapstructure:"ttl"`
	Retention  time.Duration  `mapstructure:"retention" validate:"gt=0"`
	MaxDataAge time.Duration  `mapstructure:"max_data_age" validate:"gt=0"`
}

// CacheTTLConfig holds the freshness window per cache category
type CacheTTLConfig struct {
	Odds      time.Duration `mapstructure:"odds" validate:"gt=0"`
	GameData  time.Duration `mapstructure:"game_data" validate:"gt=0"`
	Standings time.Duration `mapstructure:"standings" validate:"gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the periodic odds refresh
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// SnapshotConfig points at the input snapshot consumed by the service. URL takes
// precedence over Path when both are set.
type SnapshotConfig struct {
	Path       string        `mapstructure:"path"`
	URL        string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit  float64       `mapstructure:"rate_limit" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
