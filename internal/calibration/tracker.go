package calibration

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/models"
)

// Summary aggregates stored records over a date range.
type Summary struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	Days            int                        `json:"days"`
	Predictions     int                        `json:"predictions"`
	MeanBrierScore  float64                    `json:"mean_brier_score"`
	MeanCalibration float64                    `json:"mean_calibration"`
	Buckets         []models.CalibrationBucket `json:"buckets"`
}

// Tracker scores and stores daily predictions.
type Tracker struct {
	store Store
	log   *logrus.Entry
}

// NewTracker creates a tracker backed by store.
func NewTracker(store Store, log *logrus.Logger) *Tracker {
	return &Tracker{
		store: store,
		log:   logger.OrDefault(log).WithField("component", "calibration"),
	}
}

// Record scores the predictions for date against actual and stores the result.
func (t *Tracker) Record(ctx context.Context, date time.Time, predictions map[string]float64, actual map[string]bool) (*models.HistoricalAccuracy, error) {
	rec, err := Evaluate(date, predictions, actual)
	if err != nil {
		return nil, err
	}
	if err := t.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save calibration record: %w", err)
	}

	metrics.RecordCalibration(rec.BrierScore, rec.Calibration)
	t.log.WithFields(logrus.Fields{
		"date":        date.Format(time.DateOnly),
		"brier_score": rec.BrierScore,
		"calibration": rec.Calibration,
		"predictions": len(predictions),
	}).Info("Calibration recorded")

	return rec, nil
}

// Summary averages the stored scores in [from, to] and pools every stored prediction
// into one reliability table. It returns ErrEmptyRecord when the range holds nothing.
func (t *Tracker) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	recs, err := t.store.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration records: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmptyRecord
	}

	briers := make([]float64, len(recs))
	eces := make([]float64, len(recs))
	var probs []float64
	var outcomes []bool
	for i, rec := range recs {
		briers[i] = rec.BrierScore
		eces[i] = rec.Calibration
		p, o, err := pairs(rec.Predictions, rec.Actual)
		if err != nil {
			continue
		}
		probs = append(probs, p...)
		outcomes = append(outcomes, o...)
	}

	return &Summary{
		From:            from,
		To:              to,
		Days:            len(recs),
		Predictions:     len(probs),
		MeanBrierScore:  stat.Mean(briers, nil),
		MeanCalibration: stat.Mean(eces, nil),
		Buckets:         Reliability(probs, outcomes),
	}, nil
}
