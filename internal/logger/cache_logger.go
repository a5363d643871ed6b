package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// CacheLogger provides dedicated logging for the result cache and the odds service.
type CacheLogger struct {
	*logrus.Entry
}

// NewCacheLogger creates a new cache logger.
func NewCacheLogger(baseLogger *logrus.Logger, category string) *CacheLogger {
	return &CacheLogger{
		Entry: OrDefault(baseLogger).WithFields(logrus.Fields{
			"component": "cache",
			"category":  category,
		}),
	}
}

// LogRecompute logs a cache fill.
func (cl *CacheLogger) LogRecompute(key string, elapsed time.Duration) {
	cl.WithFields(logrus.Fields{
		"key":         key,
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Cache entry recomputed")
}

// LogComputeFailed logs a failed cache fill.
func (cl *CacheLogger) LogComputeFailed(key string, err error) {
	cl.WithError(err).WithField("key", key).Error("Cache recompute failed")
}

// LogStaleServed warns that an out-of-date entry was returned.
func (cl *CacheLogger) LogStaleServed(key string, age time.Duration, reason string) {
	cl.WithFields(logrus.Fields{
		"key":    key,
		"age":    age.String(),
		"reason": reason,
	}).Warn("Serving stale cache entry")
}
