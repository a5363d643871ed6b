package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is a win-loss record.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// ProjectedRecord summarizes the simulated final win distribution.
type ProjectedRecord struct {
	Wins       float64 `json:"wins"`
	Losses     float64 `json:"losses"`
	WinsStdDev float64 `json:"wins_std_dev"`
	WinsMedian int     `json:"wins_median"`
	WinsP5     int     `json:"wins_p5"`
	WinsP95    int     `json:"wins_p95"`
}

// PlayoffOdds is one team's simulated postseason outlook.
type PlayoffOdds struct {
	TeamID             string          `json:"team_id"`
	TeamName           string          `json:"team_name"`
	Division           Division        `json:"division"`
	League             League          `json:"league"`
	CurrentRecord      Record          `json:"current_record"`
	ProjectedRecord    ProjectedRecord `json:"projected_record"`
	PlayoffPct         float64         `json:"playoff_pct"`
	DivisionPct        float64         `json:"division_pct"`
	WildcardPct        float64         `json:"wildcard_pct"`
	WSPct              float64         `json:"ws_pct"`
	TrueTalent         float64         `json:"true_talent"`
	StrengthOfSchedule float64         `json:"strength_of_schedule"`
	LastUpdated        time.Time       `json:"last_updated"`
}

// SimulationResult is the output of one Monte Carlo batch.
type SimulationResult struct {
	RunID            uuid.UUID     `json:"run_id"`
	Date             time.Time     `json:"date"`
	Teams            []PlayoffOdds `json:"teams"`
	TotalSimulations int           `json:"total_simulations"`
	SimulationTime   time.Duration `json:"simulation_time"`
	Seed             uint64        `json:"seed"`
	// Degraded marks a batch cut short by cancellation.
	Degraded bool `json:"degraded,omitempty"`
	// Stale marks a result built from, or served in place of, out-of-date data.
	Stale bool `json:"stale,omitempty"`
}

// Team looks up a team's odds by ID.
func (r *SimulationResult) Team(id string) (PlayoffOdds, bool) {
	for _, t := range r.Teams {
		if t.TeamID == id {
			return t, true
		}
	}
	return PlayoffOdds{}, false
}

// AsStale returns a shallow copy flagged stale. The receiver is left untouched.
func (r *SimulationResult) AsStale() *SimulationResult {
	out := *r
	out.Stale = true
	return &out
}
