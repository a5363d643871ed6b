package simulation

import (
	"time"

	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/model"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/snapshot"
)

// PredictGames returns the model's home win probability and factor breakdown for every
// remaining game scheduled on date's calendar day. Starters that have not been announced
// are represented by their rotation's average FIP.
func (s *Simulator) PredictGames(snap *snapshot.Snapshot, date time.Time) ([]models.GameOdds, error) {
	if err := snap.Validate(s.table); err != nil {
		return nil, err
	}
	p, err := s.buildPlan(snap)
	if err != nil {
		return nil, err
	}

	day := models.DayNumber(date)

	var out []models.GameOdds
	degenerate := 0
	for _, g := range p.games {
		if g.day != day {
			continue
		}
		homeFIP := p.rotationMean(g.home, s.opts.LeagueAverageFIP)
		if g.homeAnnounced {
			homeFIP = g.homeFIP
		}
		awayFIP := p.rotationMean(g.away, s.opts.LeagueAverageFIP)
		if g.awayAnnounced {
			awayFIP = g.awayFIP
		}

		prob, factors, bad := s.game.Explain(model.GameInputs{
			HomeFIP:      homeFIP,
			AwayFIP:      awayFIP,
			HomeField:    1,
			BullpenDelta: p.fatigue.ERAAdjustment(g.away) - p.fatigue.ERAAdjustment(g.home),
			FatigueDelta: float64(p.fatigue.RestStreak(g.home, day) - p.fatigue.RestStreak(g.away, day)),
			HomeStrength: p.talents[g.home],
			AwayStrength: p.talents[g.away],
		})
		if bad {
			degenerate++
		}

		out = append(out, models.GameOdds{
			GamePk:      g.gamePk,
			Date:        g.date,
			HomeTeam:    s.table.Team(g.home).ID,
			AwayTeam:    s.table.Team(g.away).ID,
			HomeWinProb: prob,
			Degenerate:  bad,
			Factors:     factors,
		})
	}

	if degenerate > 0 {
		s.log.LogDegenerateProbabilities("predict", degenerate)
		metrics.RecordDegenerateProbabilities(degenerate)
	}
	return out, nil
}
