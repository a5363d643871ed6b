package standings

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

// LeagueSeeds is one league's postseason field as dense team indices. Seeds 1-3 are the
// division winners ordered by record, seeds 4-6 the wild cards.
type LeagueSeeds struct {
	League models.League
	Seeds  [league.PlayoffTeamsPerLeague]int
}

// DivisionWinners returns the first three seeds.
func (s *LeagueSeeds) DivisionWinners() []int {
	return s.Seeds[:league.DivisionWinnersPerLeague]
}

// WildCards returns seeds four through six.
func (s *LeagueSeeds) WildCards() []int {
	return s.Seeds[league.DivisionWinnersPerLeague:]
}

type leagueLayout struct {
	league    models.League
	divisions [][]int
	teams     []int
}

// Resolver ranks teams and builds playoff fields. Ties are broken by win percentage,
// then head-to-head win percentage within the tied group, then run differential, then
// a random key per team drawn once per resolution.
//
// A Resolver reuses internal buffers and is not safe for concurrent use.
type Resolver struct {
	table   *league.Table
	layout  []leagueLayout
	keys    []uint64
	h2hWins []int
	h2hGame []int
	buf     []int
	winner  []bool
	seeds   []LeagueSeeds
}

// NewResolver creates a resolver for a league table.
func NewResolver(table *league.Table) *Resolver {
	r := &Resolver{
		table:   table,
		keys:    make([]uint64, table.Len()),
		h2hWins: make([]int, table.Len()),
		h2hGame: make([]int, table.Len()),
		buf:     make([]int, 0, table.Len()),
		winner:  make([]bool, table.Len()),
	}
	for _, l := range table.Leagues() {
		layout := leagueLayout{league: l, teams: table.LeagueTeams(l)}
		for _, d := range table.Divisions(l) {
			layout.divisions = append(layout.divisions, table.DivisionTeams(d))
		}
		r.layout = append(r.layout, layout)
	}
	r.seeds = make([]LeagueSeeds, len(r.layout))
	return r
}

// Seed resolves each league's postseason field. The returned slice is owned by the
// resolver and is overwritten by the next call.
func (r *Resolver) Seed(t *Tally, rng *rand.Rand) []LeagueSeeds {
	for i := range r.keys {
		r.keys[i] = rng.Uint64()
	}
	clear(r.winner)

	for li, layout := range r.layout {
		out := &r.seeds[li]
		out.League = layout.league

		winners := out.Seeds[:0]
		for _, div := range layout.divisions {
			r.buf = append(r.buf[:0], div...)
			r.rank(t, r.buf)
			winners = append(winners, r.buf[0])
			r.winner[r.buf[0]] = true
		}
		r.rank(t, winners)

		r.buf = r.buf[:0]
		for _, i := range layout.teams {
			if !r.winner[i] {
				r.buf = append(r.buf, i)
			}
		}
		r.rank(t, r.buf)
		copy(out.Seeds[league.DivisionWinnersPerLeague:], r.buf)
	}

	return r.seeds
}

// Resolve builds the playoff bracket for a finished season.
func (r *Resolver) Resolve(t *Tally, rng *rand.Rand) models.PlayoffBracket {
	var bracket models.PlayoffBracket
	for _, s := range r.Seed(t, rng) {
		lb := bracket.League(s.League)
		lb.Division = make(map[models.Division]string, league.DivisionWinnersPerLeague)
		for _, i := range s.DivisionWinners() {
			team := r.table.Team(i)
			lb.Division[team.Division] = team.ID
		}
		for _, i := range s.WildCards() {
			lb.Wildcard = append(lb.Wildcard, r.table.Team(i).ID)
		}
		for _, i := range s.Seeds {
			lb.Seeds = append(lb.Seeds, r.table.Team(i).ID)
		}
	}
	return bracket
}

// Resolve is a convenience wrapper for one-off resolutions.
func Resolve(t *Tally, table *league.Table, rng *rand.Rand) models.PlayoffBracket {
	return NewResolver(table).Resolve(t, rng)
}

// rank orders teams best first.
func (r *Resolver) rank(t *Tally, teams []int) {
	slices.SortFunc(teams, func(a, b int) int {
		return -sign(t.CompareRecord(a, b))
	})

	for i := 0; i < len(teams); {
		j := i + 1
		for j < len(teams) && t.CompareRecord(teams[i], teams[j]) == 0 {
			j++
		}
		if j-i > 1 {
			r.breakTie(t, teams[i:j])
		}
		i = j
	}
}

func (r *Resolver) breakTie(t *Tally, group []int) {
	for _, a := range group {
		wins, games := 0, 0
		for _, b := range group {
			if a == b {
				continue
			}
			wins += t.HeadToHead(a, b)
			games += t.HeadToHead(a, b) + t.HeadToHead(b, a)
		}
		r.h2hWins[a] = wins
		r.h2hGame[a] = games
	}

	slices.SortFunc(group, func(a, b int) int {
		if c := r.compareHeadToHead(a, b); c != 0 {
			return -c
		}
		if c := cmp.Compare(t.RunDifferential(a), t.RunDifferential(b)); c != 0 {
			return -c
		}
		return -cmp.Compare(r.keys[a], r.keys[b])
	})
}

// compareHeadToHead compares win percentages within the tied group. A team that has not
// faced the rest of the group counts as .500.
func (r *Resolver) compareHeadToHead(a, b int) int {
	wa, ga := r.h2hWins[a], r.h2hGame[a]
	wb, gb := r.h2hWins[b], r.h2hGame[b]
	if ga == 0 {
		wa, ga = 1, 2
	}
	if gb == 0 {
		wb, gb = 1, 2
	}
	return sign(wa*gb - wb*ga)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
