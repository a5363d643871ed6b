package simulation

import (
	"context"
	"math/rand/v2"

	"github.com/yourusername/playoff-odds/internal/fatigue"
	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/model"
	"github.com/yourusername/playoff-odds/internal/standings"
)

// accumulator counts outcomes over the paths of one worker.
type accumulator struct {
	playoff    []int
	division   []int
	wildcard   []int
	champion   []int
	completed  int
	degenerate int
}

func newAccumulator(n int) *accumulator {
	return &accumulator{
		playoff:  make([]int, n),
		division: make([]int, n),
		wildcard: make([]int, n),
		champion: make([]int, n),
	}
}

func (a *accumulator) merge(o *accumulator) {
	for i := range a.playoff {
		a.playoff[i] += o.playoff[i]
		a.division[i] += o.division[i]
		a.wildcard[i] += o.wildcard[i]
		a.champion[i] += o.champion[i]
	}
	a.completed += o.completed
	a.degenerate += o.degenerate
}

// pathState is the mutable state of one path, allocated once per worker and reset
// between paths.
type pathState struct {
	tally    *standings.Tally
	tracker  *fatigue.Tracker
	resolver *standings.Resolver
	rotation []int
}

func (s *Simulator) newPathState(p *plan) *pathState {
	return &pathState{
		tally:    p.tally.Clone(),
		tracker:  p.fatigue.NewTracker(),
		resolver: standings.NewResolver(s.table),
		rotation: make([]int, p.n),
	}
}

func (s *Simulator) runChunk(ctx context.Context, p *plan, seed uint64, c *chunk, wins []int16, n int) error {
	st := s.newPathState(p)
	src := rand.NewPCG(0, 0)
	rng := rand.New(src)

	for i := c.lo; i < c.hi; i++ {
		if (i-c.lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		src.Seed(seed, uint64(i))
		s.simulatePath(p, st, rng, c.acc)

		for team := 0; team < p.n; team++ {
			wins[team*n+i] = int16(st.tally.Wins(team))
		}
		c.acc.completed++
	}
	return nil
}

func (s *Simulator) simulatePath(p *plan, st *pathState, rng *rand.Rand, acc *accumulator) {
	st.tally.CopyFrom(p.tally)
	st.tracker.Reset()
	clear(st.rotation)

	for gi := range p.games {
		g := &p.games[gi]
		st.tracker.AdvanceTo(g.day, rng)

		in := model.GameInputs{
			HomeFIP:      s.starterFIP(p, st, g.home, g.homeAnnounced, g.homeFIP),
			AwayFIP:      s.starterFIP(p, st, g.away, g.awayAnnounced, g.awayFIP),
			HomeField:    1,
			BullpenDelta: st.tracker.ERAAdjustment(g.away) - st.tracker.ERAAdjustment(g.home),
			FatigueDelta: float64(st.tracker.RestStreak(g.home) - st.tracker.RestStreak(g.away)),
			HomeStrength: st.strength(p, g.home),
			AwayStrength: st.strength(p, g.away),
		}
		prob, degenerate := s.game.HomeWinProbability(in)
		if degenerate {
			acc.degenerate++
		}

		if rng.Float64() < prob {
			st.tally.RecordWin(g.home, g.away)
		} else {
			st.tally.RecordWin(g.away, g.home)
		}
		st.tracker.RecordGame(g.home, g.away, fatigue.Leverage(prob), rng)
	}

	seeds := st.resolver.Seed(st.tally, rng)
	for _, ls := range seeds {
		for k, team := range ls.Seeds {
			acc.playoff[team]++
			if k < league.DivisionWinnersPerLeague {
				acc.division[team]++
			} else {
				acc.wildcard[team]++
			}
		}
	}

	acc.champion[s.playPostseason(p, st, seeds, rng, acc)]++
}

// starterFIP returns the FIP of the team's starter for its next game. The rotation
// advances on every game, announced starter or not.
func (s *Simulator) starterFIP(p *plan, st *pathState, team int, announced bool, fip float64) float64 {
	rot := p.rotations[team]
	if len(rot) == 0 {
		if announced {
			return fip
		}
		return s.opts.LeagueAverageFIP
	}
	slot := st.rotation[team] % len(rot)
	st.rotation[team]++
	if announced {
		return fip
	}
	return rot[slot]
}

// strength is the team's talent on this path after injuries, kept within [0, 1].
func (st *pathState) strength(p *plan, team int) float64 {
	t := p.talents[team] + st.tracker.TalentAdjustment(team)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
