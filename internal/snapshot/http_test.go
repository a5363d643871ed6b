package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/playoff-odds/internal/league"
)

func testHTTPConfig() HTTPConfig {
	cfg := DefaultHTTPConfig()
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	cfg.RateLimit = 0
	cfg.CircuitBreakerMax = 2
	return cfg
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestHTTPProviderFetchesSnapshot(t *testing.T) {
	table := league.MustDefault()
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	body, err := json.Marshal(Synthetic(table, start, 2))
	require.NoError(t, err)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "2025-08-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, table, testHTTPConfig(), quietLogger())
	snap, err := p.Snapshot(context.Background(), start)
	require.NoError(t, err)
	assert.Len(t, snap.Schedule.RemainingGames, 30)
	assert.Equal(t, int32(2), calls.Load(), "one retry after the 503")
}

func TestHTTPProviderCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	p := NewHTTPProvider(srv.URL, league.MustDefault(), testHTTPConfig(), quietLogger())
	p.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.Snapshot(ctx, now)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.Equal(t, int32(2), calls.Load(), "404 is not retried")

	_, err := p.Snapshot(ctx, now)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = p.Snapshot(ctx, now)
	assert.NotErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPProviderRejectsInvalidSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fetched_at": "2025-08-01T00:00:00Z", "standings": {"XYZ": {"wins": 1}}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, league.MustDefault(), testHTTPConfig(), quietLogger())
	_, err := p.Snapshot(context.Background(), time.Now())
	assert.Error(t, err)
}
