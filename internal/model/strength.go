// Package model implements the team strength estimator and the per-game outcome model.
package model

import (
	"math"

	"github.com/yourusername/playoff-odds/internal/models"
)

// DefaultPythagoreanGamma is the exponent of the Pythagorean expectation.
const DefaultPythagoreanGamma = 1.83

// StrengthWeights blends the recent-form windows with the preseason projection.
type StrengthWeights struct {
	Last30     float64
	Last90     float64
	Projection float64
}

// DefaultStrengthWeights returns the 0.5 / 0.35 / 0.15 blend.
func DefaultStrengthWeights() StrengthWeights {
	return StrengthWeights{Last30: 0.5, Last90: 0.35, Projection: 0.15}
}

// Sum returns the total weight.
func (w StrengthWeights) Sum() float64 {
	return w.Last30 + w.Last90 + w.Projection
}

// Pythagorean returns rs^γ / (rs^γ + ra^γ). A team with no runs either way is .500.
func Pythagorean(rs, ra, gamma float64) float64 {
	if rs <= 0 && ra <= 0 {
		return 0.5
	}
	rsG := math.Pow(math.Max(rs, 0), gamma)
	raG := math.Pow(math.Max(ra, 0), gamma)
	return rsG / (rsG + raG)
}

// TrueTalent blends the 30-day and 90-day Pythagorean records with the projection.
// Weights are expected to sum to 1. The result is clamped to [0, 1].
func TrueTalent(perf models.TeamPerformance, w StrengthWeights, gamma float64) float64 {
	p30 := Pythagorean(perf.RS30d, perf.RA30d, gamma)
	p90 := Pythagorean(perf.RS90d, perf.RA90d, gamma)

	// Centred on .500 so balanced inputs come out exactly average.
	talent := 0.5 +
		w.Last30*(p30-0.5) +
		w.Last90*(p90-0.5) +
		w.Projection*(perf.Projection-0.5)

	return clamp(talent, 0, 1)
}

// EstimateStrengths computes true talent for each performance record, keyed by team.
// The returned records have PythagoreanWpct and TrueTalent filled in; the input is not modified.
func EstimateStrengths(perfs []models.TeamPerformance, w StrengthWeights, gamma float64) (map[string]float64, []models.TeamPerformance) {
	talents := make(map[string]float64, len(perfs))
	out := make([]models.TeamPerformance, len(perfs))
	for i, perf := range perfs {
		perf.PythagoreanWpct = Pythagorean(perf.RS90d, perf.RA90d, gamma)
		perf.TrueTalent = TrueTalent(perf, w, gamma)
		talents[perf.TeamID] = perf.TrueTalent
		out[i] = perf
	}
	return talents, out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
