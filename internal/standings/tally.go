// Package standings keeps win-loss tallies and resolves playoff brackets with tie-breaks.
package standings

import (
	"fmt"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

// Tally is a season's win-loss record for every team, addressed by dense team index.
type Tally struct {
	n       int
	wins    []int
	losses  []int
	runDiff []int
	// h2h[i*n+j] counts wins of i over j.
	h2h []int
}

// NewTally returns an empty tally for n teams.
func NewTally(n int) *Tally {
	return &Tally{
		n:       n,
		wins:    make([]int, n),
		losses:  make([]int, n),
		runDiff: make([]int, n),
		h2h:     make([]int, n*n),
	}
}

// FromStandings seeds a tally from current standings and the season's completed games.
func FromStandings(table *league.Table, st models.Standings, completed []models.Game) (*Tally, error) {
	t := NewTally(table.Len())

	for id, row := range st {
		i, err := table.Index(id)
		if err != nil {
			return nil, fmt.Errorf("standings: %w", err)
		}
		t.wins[i] = row.Wins
		t.losses[i] = row.Losses
		t.runDiff[i] = row.RunDifferential
	}

	for _, g := range completed {
		winner, ok := g.Winner()
		if !ok {
			continue
		}
		home, err := table.Index(g.HomeTeam)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		away, err := table.Index(g.AwayTeam)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		if winner == g.HomeTeam {
			t.h2h[home*t.n+away]++
		} else {
			t.h2h[away*t.n+home]++
		}
	}

	return t, nil
}

// Len returns the number of teams.
func (t *Tally) Len() int { return t.n }

// CopyFrom overwrites t with src. Both must have the same size.
func (t *Tally) CopyFrom(src *Tally) {
	copy(t.wins, src.wins)
	copy(t.losses, src.losses)
	copy(t.runDiff, src.runDiff)
	copy(t.h2h, src.h2h)
}

// Clone returns an independent copy.
func (t *Tally) Clone() *Tally {
	c := NewTally(t.n)
	c.CopyFrom(t)
	return c
}

// RecordWin credits winner with a win over loser.
func (t *Tally) RecordWin(winner, loser int) {
	t.wins[winner]++
	t.losses[loser]++
	t.h2h[winner*t.n+loser]++
}

// Wins returns a team's wins.
func (t *Tally) Wins(i int) int { return t.wins[i] }

// Losses returns a team's losses.
func (t *Tally) Losses(i int) int { return t.losses[i] }

// RunDifferential returns a team's run differential.
func (t *Tally) RunDifferential(i int) int { return t.runDiff[i] }

// HeadToHead returns the number of wins i has over j.
func (t *Tally) HeadToHead(i, j int) int { return t.h2h[i*t.n+j] }

// CompareRecord compares win percentages exactly. It returns a positive number when i
// has the better record, negative when j does and zero on a tie. Teams without a game
// played rank as .000.
func (t *Tally) CompareRecord(i, j int) int {
	gi := t.wins[i] + t.losses[i]
	gj := t.wins[j] + t.losses[j]
	switch {
	case gi == 0 && gj == 0:
		return 0
	case gi == 0:
		return -t.wins[j]
	case gj == 0:
		return t.wins[i]
	}
	return t.wins[i]*gj - t.wins[j]*gi
}

// Standings renders the tally as a standings table with games back per division.
func (t *Tally) Standings(table *league.Table) models.Standings {
	out := make(models.Standings, t.n)
	for _, l := range table.Leagues() {
		for _, d := range table.Divisions(l) {
			teams := table.DivisionTeams(d)
			leader := teams[0]
			for _, i := range teams[1:] {
				if t.CompareRecord(i, leader) > 0 {
					leader = i
				}
			}
			for _, i := range teams {
				gb := float64((t.wins[leader]-t.wins[i])+(t.losses[i]-t.losses[leader])) / 2
				if gb < 0 {
					gb = 0
				}
				out[table.Team(i).ID] = models.StandingsRow{
					Wins:            t.wins[i],
					Losses:          t.losses[i],
					WinPct:          models.WinPct(t.wins[i], t.losses[i]),
					GamesBack:       gb,
					Division:        d,
					League:          l,
					RunDifferential: t.runDiff[i],
				}
			}
		}
	}
	return out
}
