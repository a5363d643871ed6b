package simulation

import (
	"math/rand/v2"

	"github.com/yourusername/playoff-odds/internal/model"
	"github.com/yourusername/playoff-odds/internal/standings"
)

// series describes a best-of-N round. home[g] is true when the higher seed hosts game g.
type series struct {
	games int
	home  []bool
}

var (
	wildCardSeries     = series{games: 3, home: []bool{true, true, true}}
	divisionSeries     = series{games: 5, home: []bool{true, true, false, false, true}}
	championshipSeries = series{games: 7, home: []bool{true, true, false, false, false, true, true}}
)

// playPostseason plays each league's bracket and the World Series, returning the champion.
func (s *Simulator) playPostseason(p *plan, st *pathState, seeds []standings.LeagueSeeds, rng *rand.Rand, acc *accumulator) int {
	if len(seeds) == 1 {
		return s.playLeague(p, st, &seeds[0], rng, acc)
	}

	al := s.playLeague(p, st, &seeds[0], rng, acc)
	nl := s.playLeague(p, st, &seeds[1], rng, acc)
	higher, lower := al, nl
	switch c := st.tally.CompareRecord(al, nl); {
	case c < 0:
		higher, lower = nl, al
	case c == 0 && rng.IntN(2) == 1:
		higher, lower = nl, al
	}
	return s.playSeries(p, st, higher, lower, championshipSeries, rng, acc)
}

// playLeague runs the wild card round (3 v 6, 4 v 5), the division series (1 v 4/5,
// 2 v 3/6) and the championship series, where the better seed hosts.
func (s *Simulator) playLeague(p *plan, st *pathState, ls *standings.LeagueSeeds, rng *rand.Rand, acc *accumulator) int {
	sd := ls.Seeds
	w36 := s.playSeries(p, st, sd[2], sd[5], wildCardSeries, rng, acc)
	w45 := s.playSeries(p, st, sd[3], sd[4], wildCardSeries, rng, acc)

	d1 := s.playSeries(p, st, sd[0], w45, divisionSeries, rng, acc)
	d2 := s.playSeries(p, st, sd[1], w36, divisionSeries, rng, acc)

	higher, lower := d1, d2
	if seedOf(sd[:], d2) < seedOf(sd[:], d1) {
		higher, lower = d2, d1
	}
	return s.playSeries(p, st, higher, lower, championshipSeries, rng, acc)
}

func seedOf(seeds []int, team int) int {
	for i, t := range seeds {
		if t == team {
			return i
		}
	}
	return len(seeds)
}

// playSeries returns the winner of a best-of-N between the higher and lower seed.
func (s *Simulator) playSeries(p *plan, st *pathState, higher, lower int, sr series, rng *rand.Rand, acc *accumulator) int {
	need := sr.games/2 + 1
	hw, lw := 0, 0
	for g := 0; hw < need && lw < need; g++ {
		if sr.home[g] {
			if s.playGame(p, st, higher, lower, rng, acc) {
				hw++
			} else {
				lw++
			}
			continue
		}
		if s.playGame(p, st, lower, higher, rng, acc) {
			lw++
		} else {
			hw++
		}
	}
	if hw == need {
		return higher
	}
	return lower
}

// playGame plays one postseason game and reports whether the home team won. Bullpens
// carry their end-of-season workload; no further fatigue is accrued.
func (s *Simulator) playGame(p *plan, st *pathState, home, away int, rng *rand.Rand, acc *accumulator) bool {
	in := model.GameInputs{
		HomeFIP:      s.starterFIP(p, st, home, false, 0),
		AwayFIP:      s.starterFIP(p, st, away, false, 0),
		HomeField:    1,
		BullpenDelta: st.tracker.ERAAdjustment(away) - st.tracker.ERAAdjustment(home),
		HomeStrength: st.strength(p, home),
		AwayStrength: st.strength(p, away),
	}
	prob, degenerate := s.game.HomeWinProbability(in)
	if degenerate {
		acc.degenerate++
	}
	return rng.Float64() < prob
}
