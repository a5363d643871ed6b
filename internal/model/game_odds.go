package model

import (
	"math"

	"github.com/yourusername/playoff-odds/internal/models"
)

// Coefficients are the linear adjustments applied on top of the strength matchup.
type Coefficients struct {
	Intercept    float64
	FIPDiff      float64
	HomeField    float64
	BullpenDelta float64
	Fatigue      float64
}

// DefaultCoefficients returns the fitted coefficients.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		Intercept:    0,
		FIPDiff:      0.082,
		HomeField:    0.054,
		BullpenDelta: 0.031,
		Fatigue:      -0.015,
	}
}

// Band bounds a probability away from certainty.
type Band struct {
	Min float64
	Max float64
}

// DefaultBand is [0.02, 0.98].
func DefaultBand() Band {
	return Band{Min: 0.02, Max: 0.98}
}

// Clamp limits p to the band.
func (b Band) Clamp(p float64) float64 {
	return clamp(p, b.Min, b.Max)
}

// GameInputs are the per-game signals fed to the outcome model.
type GameInputs struct {
	HomeFIP      float64
	AwayFIP      float64
	HomeField    float64 // 1 at the home park, 0 at a neutral site
	BullpenDelta float64 // away bullpen ERA adjustment minus home
	FatigueDelta float64 // home consecutive game days minus away
	HomeStrength float64
	AwayStrength float64
}

// GameModel turns GameInputs into a home win probability. It holds no mutable state
// and is safe for concurrent use.
type GameModel struct {
	coef Coefficients
	band Band
}

// NewGameModel creates a game model.
func NewGameModel(coef Coefficients, band Band) *GameModel {
	return &GameModel{coef: coef, band: band}
}

// Coefficients returns the model coefficients.
func (m *GameModel) Coefficients() Coefficients { return m.coef }

// HomeWinProbability returns the clamped home win probability. When the inputs produce
// a non-finite value the result is 0.5 and degenerate is true.
func (m *GameModel) HomeWinProbability(in GameInputs) (p float64, degenerate bool) {
	p = Log5(in.HomeStrength, in.AwayStrength) +
		m.coef.Intercept +
		m.coef.FIPDiff*(in.AwayFIP-in.HomeFIP) +
		m.coef.HomeField*in.HomeField +
		m.coef.BullpenDelta*in.BullpenDelta +
		m.coef.Fatigue*in.FatigueDelta

	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0.5, true
	}
	return m.band.Clamp(p), false
}

// Explain returns the probability together with each factor's contribution. Factors
// that cannot be computed are reported as zero.
func (m *GameModel) Explain(in GameInputs) (float64, models.GameFactors, bool) {
	p, degenerate := m.HomeWinProbability(in)
	factors := models.GameFactors{
		StrengthAdvantage:  finiteOrZero(Log5(in.HomeStrength, in.AwayStrength) - 0.5),
		PitchingAdvantage:  finiteOrZero(m.coef.FIPDiff * (in.AwayFIP - in.HomeFIP)),
		HomeFieldAdvantage: finiteOrZero(m.coef.HomeField * in.HomeField),
		BullpenAdvantage:   finiteOrZero(m.coef.BullpenDelta * in.BullpenDelta),
		Fatigue:            finiteOrZero(m.coef.Fatigue * in.FatigueDelta),
	}
	return p, factors, degenerate
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Log5 is the probability a team of strength home beats a team of strength away,
// both expressed as winning percentages against an average opponent.
func Log5(home, away float64) float64 {
	if home == away {
		return 0.5
	}
	den := home + away - 2*home*away
	if den == 0 {
		return 0.5
	}
	return (home - home*away) / den
}
