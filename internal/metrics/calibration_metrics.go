package metrics

import "github.com/prometheus/client_golang/prometheus"

// Calibration gauges track the most recently scored date.
var (
	CalibrationBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_brier_score",
		Help:      "Brier score of the most recently evaluated predictions",
	})
	CalibrationError = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_error",
		Help:      "Expected calibration error of the most recently evaluated predictions",
	})
	CalibrationRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calibration_records_total",
		Help:      "Number of prediction sets scored against outcomes",
	})
	RefreshRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_refresh_runs_total",
		Help:      "Scheduled odds refreshes by status",
	}, []string{"status"})
)

// RecordCalibration records a scored prediction set.
func RecordCalibration(brier, calibrationError float64) {
	CalibrationRecordsTotal.Inc()
	CalibrationBrierScore.Set(brier)
	CalibrationError.Set(calibrationError)
}

// RecordRefresh records a scheduled refresh outcome.
func RecordRefresh(status string) {
	RefreshRunsTotal.WithLabelValues(status).Inc()
}
