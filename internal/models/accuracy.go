package models

import "time"

// CalibrationBucket is one bin of a reliability diagram.
type CalibrationBucket struct {
	Lower             float64 `json:"lower"`
	Upper             float64 `json:"upper"`
	Count             int     `json:"count"`
	MeanPredicted     float64 `json:"mean_predicted"`
	ObservedFrequency float64 `json:"observed_frequency"`
}

// HistoricalAccuracy scores one date's predictions against realized outcomes.
type HistoricalAccuracy struct {
	Date        time.Time           `json:"date" db:"date"`
	Predictions map[string]float64  `json:"predictions" db:"predictions"`
	Actual      map[string]bool     `json:"actual" db:"actual"`
	BrierScore  float64             `json:"brier_score" db:"brier_score"`
	Calibration float64             `json:"calibration" db:"calibration"`
	Buckets     []CalibrationBucket `json:"buckets" db:"buckets"`
}
