// Package snapshot defines the validated input bundle consumed by the simulator.
package snapshot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

// Snapshot is everything known about the season at one moment. It is read-only once
// validated and may be shared by any number of goroutines.
type Snapshot struct {
	AsOf         time.Time                `json:"as_of"`
	FetchedAt    time.Time                `json:"fetched_at" validate:"required"`
	Standings    models.Standings         `json:"standings" validate:"required,min=1,dive"`
	Schedule     models.SeasonSchedule    `json:"schedule"`
	Performances []models.TeamPerformance `json:"performances" validate:"dive"`
	Pitchers     []models.Pitcher         `json:"pitchers" validate:"dive"`
	Bullpens     []models.BullpenFatigue  `json:"bullpens" validate:"dive"`
	Injuries     []models.InjuryRisk      `json:"injuries" validate:"dive"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks field constraints and that every team code resolves in the table.
// Errors wrap models.ErrInvalidSnapshot, and models.ErrUnknownTeam where applicable.
func (s *Snapshot) Validate(table *league.Table) error {
	if err := structValidator().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", models.ErrInvalidSnapshot, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", models.ErrInvalidSnapshot, err)
	}

	invalid := func(err error) error {
		return fmt.Errorf("%w: %w", models.ErrInvalidSnapshot, err)
	}

	for id := range s.Standings {
		if _, err := table.Index(id); err != nil {
			return invalid(fmt.Errorf("standings: %w", err))
		}
	}
	for _, team := range table.Teams() {
		if _, ok := s.Standings[team.ID]; !ok {
			return invalid(fmt.Errorf("standings missing team %s", team.ID))
		}
	}

	seen := make(map[int64]struct{}, len(s.Schedule.RemainingGames)+len(s.Schedule.CompletedGames))
	checkGame := func(g *models.Game) error {
		if _, dup := seen[g.GamePk]; dup {
			return fmt.Errorf("duplicate game %d", g.GamePk)
		}
		seen[g.GamePk] = struct{}{}
		if _, err := table.Index(g.HomeTeam); err != nil {
			return fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		if _, err := table.Index(g.AwayTeam); err != nil {
			return fmt.Errorf("game %d: %w", g.GamePk, err)
		}
		return nil
	}

	for i := range s.Schedule.CompletedGames {
		g := &s.Schedule.CompletedGames[i]
		if err := checkGame(g); err != nil {
			return invalid(err)
		}
		home, okHome := g.HomeScore.Get()
		away, okAway := g.AwayScore.Get()
		if !g.Completed || !okHome || !okAway {
			return invalid(fmt.Errorf("completed game %d must carry both scores", g.GamePk))
		}
		if home < 0 || away < 0 {
			return invalid(fmt.Errorf("game %d has a negative score", g.GamePk))
		}
	}
	for i := range s.Schedule.RemainingGames {
		g := &s.Schedule.RemainingGames[i]
		if err := checkGame(g); err != nil {
			return invalid(err)
		}
		if g.Completed {
			return invalid(fmt.Errorf("remaining game %d is marked completed", g.GamePk))
		}
		if p, ok := g.HomeWinProb.Get(); ok && (p < 0 || p > 1) {
			return invalid(fmt.Errorf("game %d: %w", g.GamePk, models.ErrInvalidPrediction))
		}
	}

	for _, perf := range s.Performances {
		if _, err := table.Index(perf.TeamID); err != nil {
			return invalid(fmt.Errorf("performance: %w", err))
		}
	}
	for _, p := range s.Pitchers {
		if p.TeamID == "" {
			continue
		}
		if _, err := table.Index(p.TeamID); err != nil {
			return invalid(fmt.Errorf("pitcher %s: %w", p.ID, err))
		}
	}
	for _, bp := range s.Bullpens {
		if _, err := table.Index(bp.TeamID); err != nil {
			return invalid(fmt.Errorf("bullpen: %w", err))
		}
	}
	for _, inj := range s.Injuries {
		if _, err := table.Index(inj.TeamID); err != nil {
			return invalid(fmt.Errorf("injury %s: %w", inj.PlayerID, err))
		}
	}

	return nil
}

// Age returns how old the snapshot's data was at now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Rotations groups starting pitchers by team in listed order.
func (s *Snapshot) Rotations() map[string][]models.Pitcher {
	out := make(map[string][]models.Pitcher)
	for _, p := range s.Pitchers {
		if p.IsStarter() && p.TeamID != "" {
			out[p.TeamID] = append(out[p.TeamID], p)
		}
	}
	return out
}
