package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHomeWinProbabilityReferenceCase(t *testing.T) {
	m := NewGameModel(DefaultCoefficients(), DefaultBand())

	p, degenerate := m.HomeWinProbability(GameInputs{
		HomeFIP:      3.50,
		AwayFIP:      4.20,
		HomeField:    1,
		HomeStrength: 0.5,
		AwayStrength: 0.5,
	})

	assert.False(t, degenerate)
	assert.InDelta(t, 0.6114, p, 1e-6)
}

func TestHomeWinProbabilityClamped(t *testing.T) {
	m := NewGameModel(DefaultCoefficients(), DefaultBand())

	tests := []struct {
		name     string
		home     float64
		away     float64
		expected float64
	}{
		{"home ace", 0, 10, 0.98},
		{"away ace", 10, 0, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := m.HomeWinProbability(GameInputs{
				HomeFIP: tt.home, AwayFIP: tt.away, HomeField: 1,
				HomeStrength: 0.5, AwayStrength: 0.5,
			})
			assert.Equal(t, tt.expected, p)
			assert.GreaterOrEqual(t, p, 0.02)
			assert.LessOrEqual(t, p, 0.98)
		})
	}
}

func TestHomeWinProbabilityDegenerate(t *testing.T) {
	m := NewGameModel(DefaultCoefficients(), DefaultBand())

	p, degenerate := m.HomeWinProbability(GameInputs{
		HomeFIP: math.NaN(), AwayFIP: 4.0, HomeStrength: 0.5, AwayStrength: 0.5,
	})
	assert.True(t, degenerate)
	assert.Equal(t, 0.5, p)

	p, degenerate = m.HomeWinProbability(GameInputs{
		HomeFIP: 4.0, AwayFIP: math.Inf(1), HomeStrength: 0.5, AwayStrength: 0.5,
	})
	assert.True(t, degenerate)
	assert.Equal(t, 0.5, p)
}

func TestBullpenAndFatigueDirection(t *testing.T) {
	m := NewGameModel(DefaultCoefficients(), DefaultBand())
	base := GameInputs{HomeFIP: 4, AwayFIP: 4, HomeStrength: 0.5, AwayStrength: 0.5}

	tiredAway := base
	tiredAway.BullpenDelta = 1
	pBullpen, _ := m.HomeWinProbability(tiredAway)
	assert.InDelta(t, 0.531, pBullpen, 1e-9)

	tiredHome := base
	tiredHome.FatigueDelta = 4
	pFatigue, _ := m.HomeWinProbability(tiredHome)
	assert.InDelta(t, 0.44, pFatigue, 1e-9)
}

func TestLog5(t *testing.T) {
	assert.Equal(t, 0.5, Log5(0.5, 0.5))
	assert.Equal(t, 0.5, Log5(0.62, 0.62))
	assert.Equal(t, 0.5, Log5(1, 1))
	assert.InDelta(t, 0.6, Log5(0.6, 0.5), 1e-12)
	assert.InDelta(t, 1-Log5(0.6, 0.45), Log5(0.45, 0.6), 1e-12)
}

func TestExplain(t *testing.T) {
	m := NewGameModel(DefaultCoefficients(), DefaultBand())

	p, factors, degenerate := m.Explain(GameInputs{
		HomeFIP: 3.5, AwayFIP: 4.2, HomeField: 1,
		BullpenDelta: 0.5, FatigueDelta: 2,
		HomeStrength: 0.55, AwayStrength: 0.5,
	})

	assert.False(t, degenerate)
	assert.InDelta(t, 0.082*0.7, factors.PitchingAdvantage, 1e-12)
	assert.InDelta(t, 0.054, factors.HomeFieldAdvantage, 1e-12)
	assert.InDelta(t, 0.0155, factors.BullpenAdvantage, 1e-12)
	assert.InDelta(t, -0.03, factors.Fatigue, 1e-12)

	sum := 0.5 + factors.StrengthAdvantage + factors.PitchingAdvantage +
		factors.HomeFieldAdvantage + factors.BullpenAdvantage + factors.Fatigue
	assert.InDelta(t, sum, p, 1e-12)
}
