package models

import "time"

// Game is a single scheduled or completed game.
type Game struct {
	GamePk      int64             `json:"game_pk" validate:"required"`
	Date        time.Time         `json:"date" validate:"required"`
	HomeTeam    string            `json:"home_team" validate:"required"`
	AwayTeam    string            `json:"away_team" validate:"required,nefield=HomeTeam"`
	HomePitcher Optional[Pitcher] `json:"home_pitcher"`
	AwayPitcher Optional[Pitcher] `json:"away_pitcher"`
	HomeWinProb Optional[float64] `json:"home_win_prob"`
	Completed   bool              `json:"completed"`
	HomeScore   Optional[int]     `json:"home_score"`
	AwayScore   Optional[int]     `json:"away_score"`
}

// Winner returns the winning team of a completed game.
func (g *Game) Winner() (string, bool) {
	home, okHome := g.HomeScore.Get()
	away, okAway := g.AwayScore.Get()
	if !g.Completed || !okHome || !okAway || home == away {
		return "", false
	}
	if home > away {
		return g.HomeTeam, true
	}
	return g.AwayTeam, true
}

// SeasonSchedule splits the season into played and unplayed games.
type SeasonSchedule struct {
	RemainingGames []Game `json:"remaining_games" validate:"dive"`
	CompletedGames []Game `json:"completed_games" validate:"dive"`
	TotalGames     int    `json:"total_games" validate:"gte=0"`
}

// GameFactors breaks a home win probability into its contributions.
type GameFactors struct {
	StrengthAdvantage  float64 `json:"strength_advantage"`
	PitchingAdvantage  float64 `json:"pitching_advantage"`
	HomeFieldAdvantage float64 `json:"home_field_advantage"`
	BullpenAdvantage   float64 `json:"bullpen_advantage"`
	Fatigue            float64 `json:"fatigue"`
}

// GameOdds is the model's prediction for one game.
type GameOdds struct {
	GamePk      int64       `json:"game_pk"`
	Date        time.Time   `json:"date"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	HomeWinProb float64     `json:"home_win_prob"`
	Degenerate  bool        `json:"degenerate,omitempty"`
	Factors     GameFactors `json:"factors"`
}

// DayNumber returns the calendar day of t, in t's location, as days since the Unix epoch.
func DayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
