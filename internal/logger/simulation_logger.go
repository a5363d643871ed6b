package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for Monte Carlo batches.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: OrDefault(baseLogger).WithField("component", "simulation"),
	}
}

// LogBatchStarted logs the start of a batch.
func (sl *SimulationLogger) LogBatchStarted(runID string, date time.Time, simulations, workers int, seed uint64) {
	sl.WithFields(logrus.Fields{
		"run_id":      runID,
		"date":        date.Format("2006-01-02"),
		"simulations": simulations,
		"workers":     workers,
		"seed":        seed,
	}).Info("Simulation batch started")
}

// LogBatchCompleted logs a finished batch.
func (sl *SimulationLogger) LogBatchCompleted(runID string, completed int, elapsed time.Duration, degraded bool) {
	sl.WithFields(logrus.Fields{
		"run_id":      runID,
		"completed":   completed,
		"duration_ms": elapsed.Milliseconds(),
		"degraded":    degraded,
	}).Info("Simulation batch completed")
}

// LogSimulationsClamped warns that a requested path count was out of bounds.
func (sl *SimulationLogger) LogSimulationsClamped(requested, applied int) {
	sl.WithFields(logrus.Fields{
		"requested": requested,
		"applied":   applied,
	}).Warn("Simulation count out of bounds, clamped")
}

// LogDegenerateProbabilities warns about game probabilities replaced by 0.5.
func (sl *SimulationLogger) LogDegenerateProbabilities(runID string, count int) {
	sl.WithFields(logrus.Fields{
		"run_id": runID,
		"count":  count,
	}).Warn("Non-finite game probabilities replaced with 0.5")
}

// LogBatchCancelled logs a batch stopped before completion.
func (sl *SimulationLogger) LogBatchCancelled(runID string, completed, requested int, partial bool) {
	sl.WithFields(logrus.Fields{
		"run_id":    runID,
		"completed": completed,
		"requested": requested,
		"partial":   partial,
	}).Warn("Simulation batch cancelled")
}
