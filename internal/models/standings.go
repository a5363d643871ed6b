package models

// StandingsRow is one team's line in the standings table.
type StandingsRow struct {
	Wins            int      `json:"wins" validate:"gte=0"`
	Losses          int      `json:"losses" validate:"gte=0"`
	WinPct          float64  `json:"win_pct"`
	GamesBack       float64  `json:"games_back"`
	Division        Division `json:"division"`
	League          League   `json:"league"`
	RunDifferential int      `json:"run_differential"`
}

// GamesPlayed returns wins plus losses.
func (r StandingsRow) GamesPlayed() int {
	return r.Wins + r.Losses
}

// Standings maps team ID to its standings row.
type Standings map[string]StandingsRow

// WinPct returns W/(W+L), or 0 before any game is played.
func WinPct(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses)
}

// LeagueBracket is one league's postseason field.
type LeagueBracket struct {
	Division map[Division]string `json:"division"`
	Wildcard []string            `json:"wildcard"`
	// Seeds lists the field in seed order: division winners first, then wild cards.
	Seeds []string `json:"seeds"`
}

// PlayoffBracket holds both leagues' postseason fields.
type PlayoffBracket struct {
	AL LeagueBracket `json:"al"`
	NL LeagueBracket `json:"nl"`
}

// League returns the bracket for a league.
func (b *PlayoffBracket) League(l League) *LeagueBracket {
	if l == LeagueAL {
		return &b.AL
	}
	return &b.NL
}

// Qualifiers returns every team that reached the postseason.
func (b *PlayoffBracket) Qualifiers() []string {
	out := make([]string, 0, len(b.AL.Seeds)+len(b.NL.Seeds))
	out = append(out, b.AL.Seeds...)
	return append(out, b.NL.Seeds...)
}
