package fatigue

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/models"
)

func newTestBaseline(t *testing.T, injuries []models.InjuryRisk) (*Baseline, *league.Table) {
	t.Helper()
	table := league.MustDefault()
	b, err := NewBaseline(DefaultConfig(), table,
		[]models.BullpenFatigue{{TeamID: "NYY", FatigueUnits: 2}},
		injuries, nil)
	require.NoError(t, err)
	return b, table
}

func mustIndex(t *testing.T, table *league.Table, id string) int {
	t.Helper()
	i, err := table.Index(id)
	require.NoError(t, err)
	return i
}

func TestNewBaselineUnknownTeam(t *testing.T) {
	_, err := NewBaseline(DefaultConfig(), league.MustDefault(),
		[]models.BullpenFatigue{{TeamID: "ZZZ", FatigueUnits: 1}}, nil, nil)
	assert.ErrorIs(t, err, models.ErrUnknownTeam)

	_, err = NewBaseline(DefaultConfig(), league.MustDefault(), nil,
		[]models.InjuryRisk{{PlayerID: "p1", TeamID: "ZZZ", InjuryRisk: 0.1}}, nil)
	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}

func TestBullpenDecay(t *testing.T) {
	b, table := newTestBaseline(t, nil)
	nyy := mustIndex(t, table, "NYY")
	rng := rand.New(rand.NewPCG(1, 2))

	tr := b.NewTracker()
	tr.AdvanceTo(100, rng)
	assert.Equal(t, 2.0, tr.Units(nyy), "first day carries the baseline")

	tr.AdvanceTo(102, rng)
	assert.InDelta(t, 2*0.7*0.7, tr.Units(nyy), 1e-12)

	tr.AdvanceTo(101, rng)
	assert.InDelta(t, 2*0.7*0.7, tr.Units(nyy), 1e-12, "going backwards is a no-op")
}

func TestRecordGameAccumulates(t *testing.T) {
	b, table := newTestBaseline(t, nil)
	bos := mustIndex(t, table, "BOS")
	tb := mustIndex(t, table, "TB")
	rng := rand.New(rand.NewPCG(1, 2))

	tr := b.NewTracker()
	tr.AdvanceTo(10, rng)

	tr.RecordGame(bos, tb, 0, rng)
	assert.Equal(t, 1.0, tr.Units(bos))
	assert.Equal(t, 1.0, tr.Units(tb))

	tr.RecordGame(bos, tb, 1, rng)
	assert.Equal(t, 3.5, tr.Units(bos))
	assert.Equal(t, 3.5, tr.Units(tb))
	assert.Greater(t, tr.ERAAdjustment(bos), b.ERAAdjustment(bos))
}

func TestERAAdjustmentMonotone(t *testing.T) {
	b, table := newTestBaseline(t, nil)
	bos := mustIndex(t, table, "BOS")
	tb := mustIndex(t, table, "TB")
	rng := rand.New(rand.NewPCG(3, 4))

	tr := b.NewTracker()
	tr.AdvanceTo(1, rng)
	prev := tr.ERAAdjustment(bos)
	for i := 0; i < 5; i++ {
		tr.RecordGame(bos, tb, 0.5, rng)
		cur := tr.ERAAdjustment(bos)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestRestStreak(t *testing.T) {
	b, table := newTestBaseline(t, nil)
	bos := mustIndex(t, table, "BOS")
	tb := mustIndex(t, table, "TB")
	rng := rand.New(rand.NewPCG(1, 1))

	tr := b.NewTracker()
	for day := 1; day <= 3; day++ {
		tr.AdvanceTo(day, rng)
		assert.Equal(t, day-1, tr.RestStreak(bos), "day %d", day)
		tr.RecordGame(bos, tb, 0, rng)
	}

	tr.AdvanceTo(5, rng)
	assert.Equal(t, 0, tr.RestStreak(bos), "off day resets the streak")
	tr.RecordGame(bos, tb, 0, rng)
	assert.Equal(t, 1, tr.RestStreak(bos))
}

func TestInjuriesSampledOncePerDay(t *testing.T) {
	b, table := newTestBaseline(t, []models.InjuryRisk{
		{PlayerID: "p1", TeamID: "LAD", InjuryRisk: 1, ImpactOnTeam: 0.02},
		{PlayerID: "p2", TeamID: "LAD", InjuryRisk: 0, ImpactOnTeam: 0.5},
	})
	lad := mustIndex(t, table, "LAD")
	rng := rand.New(rand.NewPCG(9, 9))

	tr := b.NewTracker()
	tr.AdvanceTo(1, rng)
	assert.InDelta(t, -0.02, tr.TalentAdjustment(lad), 1e-12)

	tr.AdvanceTo(1, rng)
	tr.AdvanceTo(2, rng)
	assert.InDelta(t, -0.02, tr.TalentAdjustment(lad), 1e-12, "an injured player is not drawn again")
}

func TestResetAndCloneIsolation(t *testing.T) {
	b, table := newTestBaseline(t, []models.InjuryRisk{
		{PlayerID: "p1", TeamID: "SEA", InjuryRisk: 1, ImpactOnTeam: 0.03},
	})
	sea := mustIndex(t, table, "SEA")
	nyy := mustIndex(t, table, "NYY")
	rng := rand.New(rand.NewPCG(5, 6))

	tr := b.NewTracker()
	tr.AdvanceTo(1, rng)
	tr.RecordGame(sea, nyy, 0, rng)

	clone := tr.Clone()
	clone.RecordGame(sea, nyy, 0, rng)
	assert.Equal(t, 1.0, tr.Units(sea))
	assert.Equal(t, 2.0, clone.Units(sea))

	tr.Reset()
	assert.Equal(t, 0.0, tr.Units(sea))
	assert.Equal(t, 2.0, tr.Units(nyy))
	assert.Zero(t, tr.TalentAdjustment(sea))
	assert.Equal(t, 2.0, b.Units(nyy), "baseline is never mutated")
}

func TestLeverage(t *testing.T) {
	assert.Equal(t, 1.0, Leverage(0.5))
	assert.InDelta(t, 0.0, Leverage(1), 1e-12)
	assert.InDelta(t, 0.8, Leverage(0.6), 1e-12)
}

func TestBaselineSeedsRestFromCompletedGames(t *testing.T) {
	table := league.MustDefault()
	day0 := time.Date(2025, 8, 1, 19, 5, 0, 0, time.UTC)
	completed := []models.Game{
		{GamePk: 1, Date: day0, HomeTeam: "BOS", AwayTeam: "TB", Completed: true},
		{GamePk: 2, Date: day0.AddDate(0, 0, 1), HomeTeam: "BOS", AwayTeam: "TB", Completed: true},
		{GamePk: 3, Date: day0.AddDate(0, 0, 1).Add(4 * time.Hour), HomeTeam: "BOS", AwayTeam: "TB", Completed: true},
		{GamePk: 4, Date: day0.AddDate(0, 0, 2), HomeTeam: "BOS", AwayTeam: "NYY", Completed: true},
	}
	b, err := NewBaseline(DefaultConfig(), table, nil, nil, completed)
	require.NoError(t, err)

	bos := mustIndex(t, table, "BOS")
	tb := mustIndex(t, table, "TB")
	nyy := mustIndex(t, table, "NYY")
	lad := mustIndex(t, table, "LAD")
	today := models.DayNumber(day0.AddDate(0, 0, 3))

	assert.Equal(t, 3, b.RestStreak(bos, today), "doubleheader counts once")
	assert.Equal(t, 0, b.RestStreak(tb, today), "off yesterday")
	assert.Equal(t, 1, b.RestStreak(nyy, today))
	assert.Equal(t, 0, b.RestStreak(lad, today))

	rng := rand.New(rand.NewPCG(3, 3))
	tr := b.NewTracker()
	tr.AdvanceTo(today, rng)
	assert.Equal(t, 3, tr.RestStreak(bos), "simulated paths start from the real streak")
	tr.RecordGame(bos, lad, 0, rng)
	tr.AdvanceTo(today+1, rng)
	assert.Equal(t, 4, tr.RestStreak(bos))

	tr.Reset()
	tr.AdvanceTo(today, rng)
	assert.Equal(t, 3, tr.RestStreak(bos), "reset restores the seeded streak")
}

func TestBaselineRejectsUnknownCompletedTeam(t *testing.T) {
	_, err := NewBaseline(DefaultConfig(), league.MustDefault(), nil, nil,
		[]models.Game{{GamePk: 9, HomeTeam: "ZZZ", AwayTeam: "BOS"}})
	assert.ErrorIs(t, err, models.ErrUnknownTeam)
}
