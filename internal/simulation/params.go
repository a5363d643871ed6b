// Package simulation runs the season Monte Carlo: the remaining regular season, the
// playoff seeding and the postseason bracket, many times over.
package simulation

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/yourusername/playoff-odds/internal/config"
	"github.com/yourusername/playoff-odds/internal/fatigue"
	"github.com/yourusername/playoff-odds/internal/model"
)

// Simulation count bounds.
const (
	DefaultSimulations = 20000
	MinSimulations     = 1000
	MaxSimulations     = 100000
)

// LeagueAverageFIP stands in for a starter when a team has no rotation on file.
const LeagueAverageFIP = 4.20

// cancelCheckInterval is how many paths a worker runs between context checks.
const cancelCheckInterval = 64

// ErrCancelled is returned when a batch is stopped before all paths completed.
var ErrCancelled = errors.New("simulation cancelled")

// Params are the per-request batch settings.
type Params struct {
	Simulations int
	// Seed fixes the random streams. Zero picks a time-derived seed, reported in the result.
	Seed    uint64
	Workers int
	// AllowPartial returns a Degraded result instead of ErrCancelled on cancellation.
	AllowPartial bool
}

// Normalize fills defaults and clamps Simulations into [MinSimulations, MaxSimulations].
// The second return value reports whether clamping happened.
func (p Params) Normalize() (Params, bool) {
	clamped := false
	switch {
	case p.Simulations == 0:
		p.Simulations = DefaultSimulations
	case p.Simulations < MinSimulations:
		p.Simulations = MinSimulations
		clamped = true
	case p.Simulations > MaxSimulations:
		p.Simulations = MaxSimulations
		clamped = true
	}
	if p.Workers <= 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p, clamped
}

// CacheKey identifies the parameters that affect a batch's output. Worker count is
// excluded because results do not depend on it.
func (p Params) CacheKey() string {
	return fmt.Sprintf("n=%d,seed=%d", p.Simulations, p.Seed)
}

// ParamsFromConfig returns the configured batch defaults.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Simulations:  cfg.Simulation.Simulations,
		Seed:         cfg.Simulation.Seed,
		Workers:      cfg.Simulation.Workers,
		AllowPartial: cfg.Simulation.AllowPartial,
	}
}

// Options are the model parameters fixed for the lifetime of a Simulator.
type Options struct {
	Gamma            float64
	Weights          model.StrengthWeights
	Coefficients     model.Coefficients
	Band             model.Band
	Fatigue          fatigue.Config
	LeagueAverageFIP float64
}

// DefaultOptions returns the fitted model defaults.
func DefaultOptions() Options {
	return Options{
		Gamma:            model.DefaultPythagoreanGamma,
		Weights:          model.DefaultStrengthWeights(),
		Coefficients:     model.DefaultCoefficients(),
		Band:             model.DefaultBand(),
		Fatigue:          fatigue.DefaultConfig(),
		LeagueAverageFIP: LeagueAverageFIP,
	}
}

// OptionsFromConfig maps the model and fatigue sections of the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	m := cfg.Model
	return Options{
		Gamma: m.PythagoreanGamma,
		Weights: model.StrengthWeights{
			Last30:     m.TeamStrengthWeights.Last30,
			Last90:     m.TeamStrengthWeights.Last90,
			Projection: m.TeamStrengthWeights.Projection,
		},
		Coefficients: model.Coefficients{
			Intercept:    m.Coefficients.Intercept,
			FIPDiff:      m.Coefficients.FIP,
			HomeField:    m.HomeFieldAdvantage,
			BullpenDelta: m.Coefficients.Bullpen,
			Fatigue:      m.Coefficients.Fatigue,
		},
		Band: model.Band{Min: m.ClampMin, Max: m.ClampMax},
		Fatigue: fatigue.Config{
			Decay:             cfg.Fatigue.Decay,
			BaseUnits:         cfg.Fatigue.BaseUnits,
			HighLeverageUnits: cfg.Fatigue.HighLeverageUnits,
			ERAPerUnit:        cfg.Fatigue.ERAPerUnit,
		},
		LeagueAverageFIP: m.LeagueAverageFIP,
	}
}
