package models

import (
	"math"
	"time"
)

// League identifies the American or National League.
type League string

// Division identifies one of the six MLB divisions.
type Division string

const (
	LeagueAL League = "AL"
	LeagueNL League = "NL"

	DivisionALEast    Division = "ALE"
	DivisionALCentral Division = "ALC"
	DivisionALWest    Division = "ALW"
	DivisionNLEast    Division = "NLE"
	DivisionNLCentral Division = "NLC"
	DivisionNLWest    Division = "NLW"
)

// League returns the league a division belongs to, or "" for an unknown division.
func (d Division) League() League {
	switch d {
	case DivisionALEast, DivisionALCentral, DivisionALWest:
		return LeagueAL
	case DivisionNLEast, DivisionNLCentral, DivisionNLWest:
		return LeagueNL
	}
	return ""
}

// Team is a club in the league reference table.
type Team struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	FullName string   `json:"full_name"`
	Division Division `json:"division" validate:"required,oneof=ALE ALC ALW NLE NLC NLW"`
	League   League   `json:"league" validate:"required,oneof=AL NL"`
}

// TeamPerformance carries the run-scoring windows used to estimate team strength.
type TeamPerformance struct {
	TeamID          string    `json:"team_id" validate:"required"`
	Date            time.Time `json:"date"`
	RS30d           float64   `json:"rs_30d" validate:"gte=0"`
	RA30d           float64   `json:"ra_30d" validate:"gte=0"`
	RS90d           float64   `json:"rs_90d" validate:"gte=0"`
	RA90d           float64   `json:"ra_90d" validate:"gte=0"`
	Projection      float64   `json:"projection" validate:"gte=0,lte=1"`
	PythagoreanWpct float64   `json:"pythagorean_wpct"`
	TrueTalent      float64   `json:"true_talent"`
}

// Pitcher is a rostered pitcher. Starters (Role "SP") form the team's rotation in listed order.
// FIP is absent when the feed has no value for the pitcher.
type Pitcher struct {
	ID      string            `json:"id" validate:"required"`
	Name    string            `json:"name"`
	TeamID  string            `json:"team_id"`
	Role    string            `json:"role" validate:"omitempty,oneof=SP RP"`
	FIP     Optional[float64] `json:"fip"`
	WAR     float64           `json:"war"`
	ERA     float64           `json:"era"`
	IP      float64           `json:"ip" validate:"gte=0"`
	Fatigue float64           `json:"fatigue" validate:"gte=0"`
}

// IsStarter reports whether the pitcher belongs to a rotation.
func (p *Pitcher) IsStarter() bool {
	return p.Role == "SP"
}

// ValidFIP returns the pitcher's FIP and whether it is present and finite.
func (p *Pitcher) ValidFIP() (float64, bool) {
	fip, ok := p.FIP.Get()
	if !ok || math.IsNaN(fip) || math.IsInf(fip, 0) {
		return 0, false
	}
	return fip, true
}

// BullpenFatigue is a team's accumulated relief workload on a date.
type BullpenFatigue struct {
	TeamID        string    `json:"team_id" validate:"required"`
	Date          time.Time `json:"date"`
	FatigueUnits  float64   `json:"fatigue_units" validate:"gte=0"`
	ERAAdjustment float64   `json:"era_adjustment"`
}

// InjuryRisk is the daily probability that a player goes on the injured list.
type InjuryRisk struct {
	PlayerID          string    `json:"player_id" validate:"required"`
	PlayerName        string    `json:"player_name"`
	TeamID            string    `json:"team_id" validate:"required"`
	Date              time.Time `json:"date"`
	InjuryRisk        float64   `json:"injury_risk" validate:"gte=0,lte=1"`
	DaysOnILPredicted int       `json:"days_on_il_predicted" validate:"gte=0"`
	ImpactOnTeam      float64   `json:"impact_on_team" validate:"gte=0"`
}
