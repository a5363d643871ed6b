// Package league holds the static reference table of clubs, divisions and playoff slots.
package league

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yourusername/playoff-odds/internal/models"
)

// ErrMissingReference is returned when the reference table is empty or inconsistent.
var ErrMissingReference = errors.New("league reference table missing or invalid")

const (
	// DivisionWinnersPerLeague is the number of automatic playoff berths per league.
	DivisionWinnersPerLeague = 3
	// WildCardsPerLeague is the number of at-large playoff berths per league.
	WildCardsPerLeague = 3
	// PlayoffTeamsPerLeague is the size of each league's postseason field.
	PlayoffTeamsPerLeague = DivisionWinnersPerLeague + WildCardsPerLeague
)

// Table is an immutable view of the league structure. Teams are addressed by a dense
// index in [0, Len()) so per-path state can live in flat slices.
type Table struct {
	teams     []models.Team
	index     map[string]int
	divisions map[models.Division][]int
	leagues   []models.League
	byLeague  map[models.League][]int
	divOrder  map[models.League][]models.Division
}

// New builds a table from a team list.
func New(teams []models.Team) (*Table, error) {
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no teams", ErrMissingReference)
	}

	t := &Table{
		teams:     append([]models.Team(nil), teams...),
		index:     make(map[string]int, len(teams)),
		divisions: make(map[models.Division][]int),
		byLeague:  make(map[models.League][]int),
		divOrder:  make(map[models.League][]models.Division),
	}

	for i, team := range t.teams {
		if team.ID == "" {
			return nil, fmt.Errorf("%w: team at position %d has no id", ErrMissingReference, i)
		}
		if _, dup := t.index[team.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate team %s", ErrMissingReference, team.ID)
		}
		if team.Division.League() == "" || team.Division.League() != team.League {
			return nil, fmt.Errorf("%w: team %s has division %q in league %q",
				ErrMissingReference, team.ID, team.Division, team.League)
		}
		t.index[team.ID] = i
		if _, seen := t.divisions[team.Division]; !seen {
			t.divOrder[team.League] = append(t.divOrder[team.League], team.Division)
		}
		t.divisions[team.Division] = append(t.divisions[team.Division], i)
		if _, seen := t.byLeague[team.League]; !seen {
			t.leagues = append(t.leagues, team.League)
		}
		t.byLeague[team.League] = append(t.byLeague[team.League], i)
	}

	for _, l := range t.leagues {
		if n := len(t.divOrder[l]); n != DivisionWinnersPerLeague {
			return nil, fmt.Errorf("%w: league %s has %d divisions, want %d",
				ErrMissingReference, l, n, DivisionWinnersPerLeague)
		}
		if n := len(t.byLeague[l]); n < PlayoffTeamsPerLeague {
			return nil, fmt.Errorf("%w: league %s has %d teams, need at least %d",
				ErrMissingReference, l, n, PlayoffTeamsPerLeague)
		}
	}

	return t, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the MLB table, built once per process.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = New(mlbTeams)
	})
	return defaultTable, defaultErr
}

// MustDefault returns the MLB table and panics if it cannot be built.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of teams.
func (t *Table) Len() int { return len(t.teams) }

// Team returns the team at a dense index.
func (t *Table) Team(i int) models.Team { return t.teams[i] }

// Teams returns a copy of the team list in index order.
func (t *Table) Teams() []models.Team {
	return append([]models.Team(nil), t.teams...)
}

// Index resolves a team code to its dense index.
func (t *Table) Index(id string) (int, error) {
	i, ok := t.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownTeam, id)
	}
	return i, nil
}

// Lookup resolves a team code to its reference entry.
func (t *Table) Lookup(id string) (models.Team, error) {
	i, err := t.Index(id)
	if err != nil {
		return models.Team{}, err
	}
	return t.teams[i], nil
}

// Leagues returns the leagues in table order.
func (t *Table) Leagues() []models.League {
	return append([]models.League(nil), t.leagues...)
}

// Divisions returns the divisions of a league in table order.
func (t *Table) Divisions(l models.League) []models.Division {
	return append([]models.Division(nil), t.divOrder[l]...)
}

// DivisionTeams returns the dense indices of a division's teams.
func (t *Table) DivisionTeams(d models.Division) []int {
	return append([]int(nil), t.divisions[d]...)
}

// LeagueTeams returns the dense indices of a league's teams.
func (t *Table) LeagueTeams(l models.League) []int {
	return append([]int(nil), t.byLeague[l]...)
}
