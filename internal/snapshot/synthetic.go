package snapshot

import (
	"time"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

// Synthetic builds a snapshot of evenly matched teams with every record at 0-0 and
// days rounds of a round-robin schedule starting at start, one round per day. It is
// used for dry runs of the engine and as a test fixture.
func Synthetic(table *league.Table, start time.Time, days int) *Snapshot {
	snap := &Snapshot{
		AsOf:      start,
		FetchedAt: start,
		Standings: make(models.Standings, table.Len()),
	}

	for _, team := range table.Teams() {
		snap.Standings[team.ID] = models.StandingsRow{Division: team.Division, League: team.League}
		snap.Performances = append(snap.Performances, models.TeamPerformance{
			TeamID: team.ID,
			Date:   start,
			RS30d:  130, RA30d: 130,
			RS90d: 390, RA90d: 390,
			Projection: 0.5,
		})
	}

	snap.Schedule.RemainingGames = roundRobin(table, start, days)
	snap.Schedule.TotalGames = len(snap.Schedule.RemainingGames)
	return snap
}

// roundRobin pairs teams with the circle method: team 0 stays fixed while the rest rotate.
func roundRobin(table *league.Table, start time.Time, days int) []models.Game {
	n := table.Len()
	ring := make([]int, n)
	for i := range ring {
		ring[i] = i
	}
	if n%2 == 1 {
		ring = append(ring, -1)
	}
	m := len(ring)

	games := make([]models.Game, 0, days*m/2)
	var pk int64 = 1
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		for k := 0; k < m/2; k++ {
			a, b := ring[k], ring[m-1-k]
			if a < 0 || b < 0 {
				continue
			}
			if (day+k)%2 == 1 {
				a, b = b, a
			}
			games = append(games, models.Game{
				GamePk:   pk,
				Date:     date,
				HomeTeam: table.Team(a).ID,
				AwayTeam: table.Team(b).ID,
			})
			pk++
		}
		// rotate everything but the first slot
		last := ring[m-1]
		copy(ring[2:], ring[1:m-1])
		ring[1] = last
	}
	return games
}
