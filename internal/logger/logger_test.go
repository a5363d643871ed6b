package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = newLogger(buf, "nonsense", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestOrDefault(t *testing.T) {
	assert.NotNil(t, OrDefault(nil))
	log := logrus.New()
	assert.Same(t, log, OrDefault(log))
}

func TestSimulationLoggerBatchStarted(t *testing.T) {
	log, buf := setupTestLogger()
	sl := NewSimulationLogger(log)

	sl.LogBatchStarted("run-1", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), 20000, 8, 42)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "simulation", entry["component"])
	assert.Equal(t, "2025-08-01", entry["date"])
	assert.Equal(t, float64(20000), entry["simulations"])
	assert.Equal(t, "info", entry["level"])
}

func TestSimulationLoggerClamped(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogSimulationsClamped(500000, 100000)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, float64(100000), entry["applied"])
}

func TestSimulationLoggerCancelled(t *testing.T) {
	log, buf := setupTestLogger()
	NewSimulationLogger(log).LogBatchCancelled("run-2", 640, 20000, true)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, true, entry["partial"])
	assert.Equal(t, float64(640), entry["completed"])
}

func TestCacheLogger(t *testing.T) {
	log, buf := setupTestLogger()
	cl := NewCacheLogger(log, "odds")

	cl.LogStaleServed("2025-08-01|n=20000", 3*time.Hour, "snapshot too old")
	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "cache", entry["component"])
	assert.Equal(t, "odds", entry["category"])
	assert.Equal(t, "3h0m0s", entry["age"])

	buf.Reset()
	cl.LogComputeFailed("k", errors.New("boom"))
	entry = parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "error", entry["level"])
}
