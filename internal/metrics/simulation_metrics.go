package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counters
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_runs_total",
		Help:      "Total number of simulation batches by status",
	}, []string{"status"})
	SimulationPathsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_paths_total",
		Help:      "Total number of simulated season paths",
	})
	SimulationsClampedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_clamped_total",
		Help:      "Number of requests whose simulation count was clamped",
	})
	DegenerateProbabilitiesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degenerate_probabilities_total",
		Help:      "Game probabilities replaced with 0.5 after a non-finite result",
	})
)

// SimulationDuration tracks batch wall time.
var SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "simulation_duration_seconds",
	Help:      "Duration of simulation batches in seconds",
	Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
})

// Simulation statuses
const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// RecordSimulationRun records a finished batch.
func RecordSimulationRun(status string, paths int, durationSeconds float64) {
	SimulationRunsTotal.WithLabelValues(status).Inc()
	SimulationPathsTotal.Add(float64(paths))
	SimulationDuration.Observe(durationSeconds)
}

// RecordSimulationsClamped records an out-of-bounds simulation request.
func RecordSimulationsClamped() {
	SimulationsClampedTotal.Inc()
}

// RecordDegenerateProbabilities adds n degenerate game probabilities.
func RecordDegenerateProbabilities(n int) {
	if n > 0 {
		DegenerateProbabilitiesTotal.Add(float64(n))
	}
}
