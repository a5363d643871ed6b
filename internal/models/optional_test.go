package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalJSON(t *testing.T) {
	type payload struct {
		Score Optional[int] `json:"score"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Score.IsPresent())

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"score": null}`), &null))
	assert.False(t, null.Score.IsPresent())

	var zero payload
	require.NoError(t, json.Unmarshal([]byte(`{"score": 0}`), &zero))
	v, ok := zero.Score.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	out, err := json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": null}`, string(out))
}

func TestOptionalOrElse(t *testing.T) {
	assert.Equal(t, 4.2, None[float64]().OrElse(4.2))
	assert.Equal(t, 3.1, Some(3.1).OrElse(4.2))
}

func TestGameWinner(t *testing.T) {
	g := Game{HomeTeam: "NYY", AwayTeam: "BOS", Completed: true, HomeScore: Some(3), AwayScore: Some(5)}
	winner, ok := g.Winner()
	assert.True(t, ok)
	assert.Equal(t, "BOS", winner)

	g.AwayScore = None[int]()
	_, ok = g.Winner()
	assert.False(t, ok)

	g = Game{HomeTeam: "NYY", AwayTeam: "BOS", HomeScore: Some(3), AwayScore: Some(1)}
	_, ok = g.Winner()
	assert.False(t, ok, "scheduled game has no winner")
}

func TestWinPct(t *testing.T) {
	assert.Equal(t, 0.0, WinPct(0, 0))
	assert.Equal(t, 0.6, WinPct(6, 4))
}

func TestDivisionLeague(t *testing.T) {
	assert.Equal(t, LeagueAL, DivisionALWest.League())
	assert.Equal(t, LeagueNL, DivisionNLCentral.League())
	assert.Equal(t, League(""), Division("XYZ").League())
}

func TestDayNumber(t *testing.T) {
	morning := time.Date(2025, 8, 1, 1, 0, 0, 0, time.UTC)
	night := time.Date(2025, 8, 1, 23, 30, 0, 0, time.UTC)
	next := time.Date(2025, 8, 2, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, DayNumber(morning), DayNumber(night))
	assert.Equal(t, DayNumber(morning)+1, DayNumber(next))
}

func TestPitcherValidFIP(t *testing.T) {
	var p Pitcher
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","team_id":"NYY","role":"SP"}`), &p))
	_, ok := p.ValidFIP()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","fip":3.25}`), &p))
	fip, ok := p.ValidFIP()
	assert.True(t, ok)
	assert.Equal(t, 3.25, fip)

	p.FIP = Some(math.Inf(1))
	_, ok = p.ValidFIP()
	assert.False(t, ok)
}
