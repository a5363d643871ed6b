package simulation

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/snapshot"
)

// aggregate turns the merged counts and the per-path win matrix into per-team odds.
// Only the completed prefix of each chunk is read, so partial batches aggregate correctly.
func (s *Simulator) aggregate(p *plan, snap *snapshot.Snapshot, chunks []chunk, acc *accumulator, wins []int16, n int) []models.PlayoffOdds {
	total := acc.completed
	sorted := make([]int16, 0, total)
	values := make([]float64, total)
	updated := s.now()

	out := make([]models.PlayoffOdds, 0, p.n)
	for team := 0; team < p.n; team++ {
		sorted = sorted[:0]
		for _, c := range chunks {
			base := team*n + c.lo
			sorted = append(sorted, wins[base:base+c.acc.completed]...)
		}
		for i, w := range sorted {
			values[i] = float64(w)
		}
		mean, std := stat.MeanStdDev(values, nil)
		if total < 2 {
			std = 0
		}
		slices.Sort(sorted)

		info := s.table.Team(team)
		row := snap.Standings[info.ID]
		seasonGames := row.Wins + row.Losses + p.remaining[team]

		out = append(out, models.PlayoffOdds{
			TeamID:        info.ID,
			TeamName:      info.Name,
			Division:      info.Division,
			League:        info.League,
			CurrentRecord: models.Record{Wins: row.Wins, Losses: row.Losses},
			ProjectedRecord: models.ProjectedRecord{
				Wins:       mean,
				Losses:     float64(seasonGames) - mean,
				WinsStdDev: std,
				WinsMedian: percentile(sorted, 0.5),
				WinsP5:     percentile(sorted, 0.05),
				WinsP95:    percentile(sorted, 0.95),
			},
			PlayoffPct:         fraction(acc.playoff[team], total),
			DivisionPct:        fraction(acc.division[team], total),
			WildcardPct:        fraction(acc.wildcard[team], total),
			WSPct:              fraction(acc.champion[team], total),
			TrueTalent:         p.talents[team],
			StrengthOfSchedule: p.sos[team],
			LastUpdated:        updated,
		})
	}
	return out
}

// percentile reads the value at index ceil(q*N)-1, clamped to the slice.
func percentile(sorted []int16, q float64) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return int(sorted[idx])
}

func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
