package simulation

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/yourusername/playoff-odds/internal/fatigue"
	"github.com/yourusername/playoff-odds/internal/model"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/snapshot"
	"github.com/yourusername/playoff-odds/internal/standings"
)

type plannedGame struct {
	gamePk        int64
	date          time.Time
	day           int
	home, away    int
	homeFIP       float64
	awayFIP       float64
	homeAnnounced bool
	awayAnnounced bool
}

// plan is the snapshot compiled into dense, read-only form shared by every worker.
type plan struct {
	n         int
	tally     *standings.Tally
	talents   []float64
	rotations [][]float64
	games     []plannedGame
	fatigue   *fatigue.Baseline
	remaining []int
	sos       []float64
}

func (s *Simulator) buildPlan(snap *snapshot.Snapshot) (*plan, error) {
	n := s.table.Len()
	p := &plan{
		n:         n,
		talents:   make([]float64, n),
		rotations: make([][]float64, n),
		remaining: make([]int, n),
		sos:       make([]float64, n),
	}

	tally, err := standings.FromStandings(s.table, snap.Standings, snap.Schedule.CompletedGames)
	if err != nil {
		return nil, err
	}
	p.tally = tally

	for i := range p.talents {
		p.talents[i] = 0.5
	}
	talents, _ := model.EstimateStrengths(snap.Performances, s.opts.Weights, s.opts.Gamma)
	for id, talent := range talents {
		i, err := s.table.Index(id)
		if err != nil {
			return nil, fmt.Errorf("performance: %w", err)
		}
		p.talents[i] = talent
	}

	for id, starters := range snap.Rotations() {
		i, err := s.table.Index(id)
		if err != nil {
			return nil, fmt.Errorf("rotation: %w", err)
		}
		fips := make([]float64, len(starters))
		for k, sp := range starters {
			fips[k] = pitcherFIP(sp)
		}
		p.rotations[i] = fips
	}

	p.fatigue, err = fatigue.NewBaseline(s.opts.Fatigue, s.table, snap.Bullpens, snap.Injuries, snap.Schedule.CompletedGames)
	if err != nil {
		return nil, err
	}

	p.games = make([]plannedGame, 0, len(snap.Schedule.RemainingGames))
	for _, g := range snap.Schedule.RemainingGames {
		home, err := s.table.Index(g.HomeTeam)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		away, err := s.table.Index(g.AwayTeam)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		pg := plannedGame{gamePk: g.GamePk, date: g.Date, day: models.DayNumber(g.Date), home: home, away: away}
		if sp, ok := g.HomePitcher.Get(); ok {
			pg.homeFIP, pg.homeAnnounced = pitcherFIP(sp), true
		}
		if sp, ok := g.AwayPitcher.Get(); ok {
			pg.awayFIP, pg.awayAnnounced = pitcherFIP(sp), true
		}
		p.games = append(p.games, pg)
	}
	slices.SortFunc(p.games, func(a, b plannedGame) int {
		if c := cmp.Compare(a.day, b.day); c != 0 {
			return c
		}
		if c := a.date.Compare(b.date); c != 0 {
			return c
		}
		return cmp.Compare(a.gamePk, b.gamePk)
	})

	opponents := make([]float64, n)
	for _, g := range p.games {
		p.remaining[g.home]++
		p.remaining[g.away]++
		opponents[g.home] += p.talents[g.away]
		opponents[g.away] += p.talents[g.home]
	}
	for i := range p.sos {
		if p.remaining[i] > 0 {
			p.sos[i] = opponents[i] / float64(p.remaining[i])
		}
	}

	return p, nil
}

// pitcherFIP is the pitcher's FIP, or NaN when it is missing. A NaN input makes the game
// model return 0.5 and flag the game as degenerate.
func pitcherFIP(sp models.Pitcher) float64 {
	if fip, ok := sp.ValidFIP(); ok {
		return fip
	}
	return math.NaN()
}

// rotationMean is the average FIP of a team's rotation members that have one, or the
// league average when none do.
func (p *plan) rotationMean(team int, leagueAverage float64) float64 {
	sum, n := 0.0, 0
	for _, fip := range p.rotations[team] {
		if math.IsNaN(fip) {
			continue
		}
		sum += fip
		n++
	}
	if n == 0 {
		return leagueAverage
	}
	return sum / float64(n)
}
