package calibration

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/playoff-odds/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestBrierScore(t *testing.T) {
	tests := []struct {
		name     string
		probs    []float64
		outcomes []bool
		expected float64
	}{
		{"perfect", []float64{1, 0}, []bool{true, false}, 0},
		{"always wrong", []float64{1, 0}, []bool{false, true}, 1},
		{"coin flips", []float64{0.5, 0.5}, []bool{true, false}, 0.25},
		{"mixed", []float64{0.8, 0.3}, []bool{true, true}, (0.04 + 0.49) / 2},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BrierScore(tt.probs, tt.outcomes), 1e-12)
		})
	}
}

func TestReliabilityBins(t *testing.T) {
	probs := []float64{0.05, 0.15, 0.12, 0.95, 1.0}
	outcomes := []bool{false, true, false, true, true}

	buckets := Reliability(probs, outcomes)
	require.Len(t, buckets, Buckets)

	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 2, buckets[1].Count)
	assert.InDelta(t, 0.135, buckets[1].MeanPredicted, 1e-12)
	assert.InDelta(t, 0.5, buckets[1].ObservedFrequency, 1e-12)
	assert.Equal(t, 2, buckets[9].Count, "1.0 falls in the last bin")
	assert.InDelta(t, 0.9, buckets[9].Lower, 1e-12)
	assert.InDelta(t, 1.0, buckets[9].Upper, 1e-12)
	assert.Equal(t, 0, buckets[5].Count)
}

func TestExpectedCalibrationError(t *testing.T) {
	buckets := []models.CalibrationBucket{
		{Count: 3, MeanPredicted: 0.2, ObservedFrequency: 0.2},
		{Count: 1, MeanPredicted: 0.9, ObservedFrequency: 0.5},
	}
	assert.InDelta(t, 0.1, ExpectedCalibrationError(buckets), 1e-12)
	assert.Equal(t, 0.0, ExpectedCalibrationError(nil))
}

func TestEvaluate(t *testing.T) {
	rec, err := Evaluate(day(1),
		map[string]float64{"NYY": 0.9, "BOS": 0.2, "TB": 0.6},
		map[string]bool{"NYY": true, "BOS": false})
	require.NoError(t, err)

	assert.InDelta(t, (0.01+0.04)/2, rec.BrierScore, 1e-12)
	assert.GreaterOrEqual(t, rec.Calibration, 0.0)
	assert.Len(t, rec.Buckets, Buckets)

	_, err = Evaluate(day(1), map[string]float64{"NYY": 0.9}, map[string]bool{"BOS": true})
	assert.ErrorIs(t, err, ErrEmptyRecord)

	_, err = Evaluate(day(1), map[string]float64{"NYY": 1.5}, map[string]bool{"NYY": true})
	assert.ErrorIs(t, err, models.ErrInvalidPrediction)
}

func TestTrackerRecordAndSummary(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	tracker := NewTracker(NewMemoryStore(), log)
	ctx := context.Background()

	_, err := tracker.Record(ctx, day(1), map[string]float64{"NYY": 1, "BOS": 0}, map[string]bool{"NYY": true, "BOS": false})
	require.NoError(t, err)
	_, err = tracker.Record(ctx, day(2), map[string]float64{"NYY": 0.5, "BOS": 0.5}, map[string]bool{"NYY": true, "BOS": false})
	require.NoError(t, err)
	_, err = tracker.Record(ctx, day(10), map[string]float64{"NYY": 0}, map[string]bool{"NYY": true})
	require.NoError(t, err)

	sum, err := tracker.Summary(ctx, day(1), day(5))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Days)
	assert.Equal(t, 4, sum.Predictions)
	assert.InDelta(t, 0.125, sum.MeanBrierScore, 1e-12)
	assert.Equal(t, 2, sum.Buckets[5].Count)

	_, err = tracker.Summary(ctx, day(20), day(25))
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestMemoryStoreReplacesSameDay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.HistoricalAccuracy{Date: day(3), BrierScore: 0.3}))
	require.NoError(t, store.Save(ctx, &models.HistoricalAccuracy{Date: day(3).Add(5 * time.Hour), BrierScore: 0.1}))

	recs, err := store.Range(ctx, day(1), day(30))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.1, recs[0].BrierScore)
}
