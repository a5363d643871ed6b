// Package calibration scores playoff probabilities against realized outcomes.
package calibration

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yourusername/playoff-odds/internal/models"
)

// Buckets is the number of equal-width reliability bins over [0, 1].
const Buckets = 10

// ErrEmptyRecord is returned when a record has no prediction with a matching outcome.
var ErrEmptyRecord = errors.New("calibration: no predictions with outcomes")

// Evaluate scores one date's predictions. Predictions without an outcome, and outcomes
// without a prediction, are ignored.
func Evaluate(date time.Time, predictions map[string]float64, actual map[string]bool) (*models.HistoricalAccuracy, error) {
	probs, outcomes, err := pairs(predictions, actual)
	if err != nil {
		return nil, err
	}

	buckets := Reliability(probs, outcomes)
	return &models.HistoricalAccuracy{
		Date:        date,
		Predictions: predictions,
		Actual:      actual,
		BrierScore:  BrierScore(probs, outcomes),
		Calibration: ExpectedCalibrationError(buckets),
		Buckets:     buckets,
	}, nil
}

// pairs lines up predictions with outcomes in a stable key order.
func pairs(predictions map[string]float64, actual map[string]bool) ([]float64, []bool, error) {
	keys := make([]string, 0, len(predictions))
	for k, p := range predictions {
		if _, ok := actual[k]; !ok {
			continue
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, nil, fmt.Errorf("prediction %s = %v: %w", k, p, models.ErrInvalidPrediction)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, nil, ErrEmptyRecord
	}
	sort.Strings(keys)

	probs := make([]float64, len(keys))
	outcomes := make([]bool, len(keys))
	for i, k := range keys {
		probs[i] = predictions[k]
		outcomes[i] = actual[k]
	}
	return probs, outcomes, nil
}

// BrierScore is the mean squared difference between probability and outcome.
func BrierScore(probs []float64, outcomes []bool) float64 {
	if len(probs) == 0 {
		return 0
	}
	sum := 0.0
	for i, p := range probs {
		d := p - indicator(outcomes[i])
		sum += d * d
	}
	return sum / float64(len(probs))
}

// Reliability bins predictions into Buckets equal-width bins. A probability of exactly
// 1 falls in the last bin. Every bin is returned, empty ones with Count 0.
func Reliability(probs []float64, outcomes []bool) []models.CalibrationBucket {
	out := make([]models.CalibrationBucket, Buckets)
	sums := make([]float64, Buckets)
	hits := make([]float64, Buckets)
	for b := range out {
		out[b].Lower = float64(b) / Buckets
		out[b].Upper = float64(b+1) / Buckets
	}

	for i, p := range probs {
		b := min(max(int(p*Buckets), 0), Buckets-1)
		out[b].Count++
		sums[b] += p
		hits[b] += indicator(outcomes[i])
	}

	for b := range out {
		if n := out[b].Count; n > 0 {
			out[b].MeanPredicted = sums[b] / float64(n)
			out[b].ObservedFrequency = hits[b] / float64(n)
		}
	}
	return out
}

// ExpectedCalibrationError is the count-weighted mean gap between predicted and observed
// frequency across bins.
func ExpectedCalibrationError(buckets []models.CalibrationBucket) float64 {
	total, sum := 0, 0.0
	for _, b := range buckets {
		total += b.Count
		sum += float64(b.Count) * math.Abs(b.MeanPredicted-b.ObservedFrequency)
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
