package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/logger"
)

// ErrCircuitOpen is returned while the provider refuses requests after repeated failures.
var ErrCircuitOpen = errors.New("snapshot source circuit breaker open")

// HTTPConfig holds configuration for the HTTP snapshot source.
type HTTPConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is requests per second.
	RateLimit float64
	// CircuitBreakerMax is the number of consecutive failures that opens the breaker.
	CircuitBreakerMax int
	// CircuitBreakerReset is how long the breaker stays open before a trial request.
	CircuitBreakerReset time.Duration
}

// DefaultHTTPConfig returns recommended defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:             30 * time.Second,
		MaxRetries:          3,
		RetryWaitMin:        200 * time.Millisecond,
		RetryWaitMax:        10 * time.Second,
		RateLimit:           1,
		CircuitBreakerMax:   5,
		CircuitBreakerReset: time.Minute,
	}
}

// HTTPProvider fetches snapshots as JSON from baseURL?date=YYYY-MM-DD, with retries,
// client-side rate limiting and a circuit breaker.
type HTTPProvider struct {
	baseURL string
	table   *league.Table
	client  *retryablehttp.Client
	limiter *rate.Limiter
	cfg     HTTPConfig
	log     *logrus.Entry
	now     func() time.Time

	mu                sync.Mutex
	consecutiveErrors int
	openedAt          time.Time
	lastError         error
}

// NewHTTPProvider creates a provider for baseURL.
func NewHTTPProvider(baseURL string, table *league.Table, cfg HTTPConfig, log *logrus.Logger) *HTTPProvider {
	entry := logger.OrDefault(log).WithField("component", "snapshot_http")

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = cfg.Timeout
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.CheckRetry = retryPolicy
	client.Logger = nil
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			entry.WithFields(logrus.Fields{"url": req.URL.String(), "attempt": attempt}).Warn("Retrying snapshot request")
		}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &HTTPProvider{
		baseURL: baseURL,
		table:   table,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		log:     entry,
		now:     time.Now,
	}
}

// Snapshot fetches, decodes and validates the snapshot for asOf.
func (p *HTTPProvider) Snapshot(ctx context.Context, asOf time.Time) (*Snapshot, error) {
	if err := p.allow(); err != nil {
		return nil, err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	snap, err := p.fetch(ctx, asOf)
	p.record(err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *HTTPProvider) fetch(ctx context.Context, asOf time.Time) (*Snapshot, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot url: %w", err)
	}
	q := u.Query()
	q.Set("date", asOf.Format(time.DateOnly))
	u.RawQuery = q.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snapshot source returned %s: %s", resp.Status, body)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.AsOf.IsZero() {
		snap.AsOf = asOf
	}
	if err := snap.Validate(p.table); err != nil {
		return nil, err
	}
	return &snap, nil
}

// allow rejects requests while the breaker is open. After CircuitBreakerReset one trial
// request is let through.
func (p *HTTPProvider) allow() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.openedAt.IsZero() {
		return nil
	}
	if p.now().Sub(p.openedAt) >= p.cfg.CircuitBreakerReset {
		p.openedAt = time.Time{}
		return nil
	}
	return fmt.Errorf("%w: %w", ErrCircuitOpen, p.lastError)
}

func (p *HTTPProvider) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		p.consecutiveErrors = 0
		return
	}
	p.consecutiveErrors++
	p.lastError = err
	if p.cfg.CircuitBreakerMax > 0 && p.consecutiveErrors >= p.cfg.CircuitBreakerMax {
		p.openedAt = p.now()
		p.log.WithError(err).WithField("failures", p.consecutiveErrors).Error("Snapshot source circuit breaker opened")
	}
}

// retryPolicy retries network errors, 429 and 5xx gateway responses.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return true, nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}
