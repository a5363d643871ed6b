// Package metrics provides the centralized Prometheus registry for the playoff odds engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "playoff_odds"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// InitRegistry creates the registry and registers every collector. Safe to call repeatedly.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Simulation metrics
		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(SimulationPathsTotal)
		registry.MustRegister(SimulationsClampedTotal)
		registry.MustRegister(DegenerateProbabilitiesTotal)

		// Cache metrics
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheRecomputesTotal)
		registry.MustRegister(StaleResultsServedTotal)

		// Calibration metrics
		registry.MustRegister(CalibrationBrierScore)
		registry.MustRegister(CalibrationError)
		registry.MustRegister(CalibrationRecordsTotal)

		// Scheduler metrics
		registry.MustRegister(RefreshRunsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
