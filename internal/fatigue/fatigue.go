// Package fatigue tracks bullpen workload, rest streaks and injuries along one simulated path.
package fatigue

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

// Config controls bullpen fatigue accumulation and recovery.
type Config struct {
	// Decay is the fraction of bullpen fatigue carried into the next day.
	Decay float64
	// BaseUnits is charged to each bullpen for every game played.
	BaseUnits float64
	// HighLeverageUnits is charged on top when a high-leverage relief appearance occurs.
	HighLeverageUnits float64
	// ERAPerUnit converts fatigue units into a bullpen ERA penalty.
	ERAPerUnit float64
}

// DefaultConfig returns the default fatigue parameters.
func DefaultConfig() Config {
	return Config{
		Decay:             0.7,
		BaseUnits:         1.0,
		HighLeverageUnits: 1.5,
		ERAPerUnit:        0.1,
	}
}

type player struct {
	team   int
	risk   float64
	impact float64
}

// Baseline is the read-only starting state shared by every path.
type Baseline struct {
	cfg        Config
	units      []float64
	streak     []int
	lastPlayed []int
	players    []player
}

// NewBaseline builds the shared starting state from the snapshot's bullpen and injury
// feeds. Completed games seed each team's current run of consecutive days played.
func NewBaseline(cfg Config, table *league.Table, bullpens []models.BullpenFatigue, injuries []models.InjuryRisk, completed []models.Game) (*Baseline, error) {
	b := &Baseline{
		cfg:        cfg,
		units:      make([]float64, table.Len()),
		streak:     make([]int, table.Len()),
		lastPlayed: make([]int, table.Len()),
		players:    make([]player, 0, len(injuries)),
	}
	if err := b.seedRest(table, completed); err != nil {
		return nil, err
	}

	for _, bp := range bullpens {
		idx, err := table.Index(bp.TeamID)
		if err != nil {
			return nil, fmt.Errorf("bullpen fatigue: %w", err)
		}
		b.units[idx] = bp.FatigueUnits
	}

	for _, inj := range injuries {
		idx, err := table.Index(inj.TeamID)
		if err != nil {
			return nil, fmt.Errorf("injury risk for %s: %w", inj.PlayerID, err)
		}
		if inj.InjuryRisk <= 0 {
			continue
		}
		b.players = append(b.players, player{team: idx, risk: inj.InjuryRisk, impact: inj.ImpactOnTeam})
	}

	return b, nil
}

// seedRest records, per team, the last day played and the run of consecutive days
// ending on it.
func (b *Baseline) seedRest(table *league.Table, completed []models.Game) error {
	days := make([][]int, table.Len())
	for _, g := range completed {
		d := models.DayNumber(g.Date)
		for _, id := range [2]string{g.HomeTeam, g.AwayTeam} {
			i, err := table.Index(id)
			if err != nil {
				return fmt.Errorf("completed game %d: %w", g.GamePk, err)
			}
			days[i] = append(days[i], d)
		}
	}

	for i, played := range days {
		b.lastPlayed[i] = math.MinInt32
		if len(played) == 0 {
			continue
		}
		slices.Sort(played)
		played = slices.Compact(played)
		last := len(played) - 1
		streak := 1
		for k := last; k > 0 && played[k-1] == played[k]-1; k-- {
			streak++
		}
		b.lastPlayed[i] = played[last]
		b.streak[i] = streak
	}
	return nil
}

// Units returns a team's starting bullpen fatigue.
func (b *Baseline) Units(team int) float64 { return b.units[team] }

// RestStreak returns how many consecutive days the team has played going into day,
// from completed games only.
func (b *Baseline) RestStreak(team, day int) int {
	if b.lastPlayed[team] >= day-1 {
		return b.streak[team]
	}
	return 0
}

// ERAAdjustment returns a team's starting bullpen ERA penalty.
func (b *Baseline) ERAAdjustment(team int) float64 { return b.cfg.ERAPerUnit * b.units[team] }

// NewTracker allocates a tracker initialised to the baseline.
func (b *Baseline) NewTracker() *Tracker {
	n := len(b.units)
	t := &Tracker{
		base:       b,
		units:      make([]float64, n),
		streak:     make([]int, n),
		lastPlayed: make([]int, n),
		talentAdj:  make([]float64, n),
		injured:    make([]bool, len(b.players)),
	}
	t.Reset()
	return t
}

// Tracker is the mutable fatigue and injury state of a single path. It is not safe for
// concurrent use; each worker owns one and calls Reset between paths.
type Tracker struct {
	base       *Baseline
	units      []float64
	streak     []int
	lastPlayed []int
	talentAdj  []float64
	injured    []bool
	day        int
	started    bool
}

// Reset restores the baseline state without reallocating.
func (t *Tracker) Reset() {
	copy(t.units, t.base.units)
	copy(t.streak, t.base.streak)
	copy(t.lastPlayed, t.base.lastPlayed)
	clear(t.talentAdj)
	clear(t.injured)
	t.day = 0
	t.started = false
}

// Clone returns an independent copy of the current state.
func (t *Tracker) Clone() *Tracker {
	c := &Tracker{
		base:       t.base,
		units:      append([]float64(nil), t.units...),
		streak:     append([]int(nil), t.streak...),
		lastPlayed: append([]int(nil), t.lastPlayed...),
		talentAdj:  append([]float64(nil), t.talentAdj...),
		injured:    append([]bool(nil), t.injured...),
		day:        t.day,
		started:    t.started,
	}
	return c
}

// AdvanceTo moves the tracker to day (see models.DayNumber). Bullpen fatigue decays for
// every elapsed day and each healthy player gets one injury draw per day reached.
// Calling it again for the current or an earlier day is a no-op.
func (t *Tracker) AdvanceTo(day int, rng *rand.Rand) {
	if t.started && day <= t.day {
		return
	}

	if t.started {
		factor := math.Pow(t.base.cfg.Decay, float64(day-t.day))
		for i := range t.units {
			t.units[i] *= factor
		}
	}
	t.day = day
	t.started = true

	for i, p := range t.base.players {
		if t.injured[i] {
			continue
		}
		if rng.Float64() < p.risk {
			t.injured[i] = true
			t.talentAdj[p.team] -= p.impact
		}
	}
}

// Day returns the current day number.
func (t *Tracker) Day() int { return t.day }

// RecordGame charges both bullpens for a game played on the current day. leverage is the
// probability of a high-leverage relief appearance for each side.
func (t *Tracker) RecordGame(home, away int, leverage float64, rng *rand.Rand) {
	t.charge(home, leverage, rng)
	t.charge(away, leverage, rng)
}

func (t *Tracker) charge(team int, leverage float64, rng *rand.Rand) {
	t.units[team] += t.base.cfg.BaseUnits
	if rng.Float64() < leverage {
		t.units[team] += t.base.cfg.HighLeverageUnits
	}

	switch t.lastPlayed[team] {
	case t.day:
		// second game of a doubleheader
	case t.day - 1:
		t.streak[team]++
	default:
		t.streak[team] = 1
	}
	t.lastPlayed[team] = t.day
}

// Units returns a team's current bullpen fatigue.
func (t *Tracker) Units(team int) float64 { return t.units[team] }

// ERAAdjustment returns a team's current bullpen ERA penalty. It increases with fatigue.
func (t *Tracker) ERAAdjustment(team int) float64 {
	return t.base.cfg.ERAPerUnit * t.units[team]
}

// RestStreak returns how many consecutive days the team has played going into today.
// An off day yesterday resets the streak.
func (t *Tracker) RestStreak(team int) int {
	if t.lastPlayed[team] >= t.day-1 {
		return t.streak[team]
	}
	return 0
}

// TalentAdjustment returns the cumulative talent lost to injuries on this path. Never positive.
func (t *Tracker) TalentAdjustment(team int) float64 { return t.talentAdj[team] }

// Leverage maps a game's win probability to the chance of a high-leverage relief
// appearance: certain for a coin flip, zero for a foregone conclusion.
func Leverage(p float64) float64 {
	l := 1 - 2*math.Abs(p-0.5)
	if l < 0 {
		return 0
	}
	return l
}
