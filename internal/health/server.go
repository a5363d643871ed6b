// Package health provides the operational HTTP server: liveness and readiness probes,
// the prometheus endpoint and read-only odds queries.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/simulation"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// OddsSource answers odds queries. service.OddsService satisfies it.
type OddsSource interface {
	ComputeOdds(ctx context.Context, asOf time.Time, params simulation.Params) (*models.SimulationResult, error)
	ComputeGameOdds(ctx context.Context, asOf time.Time) ([]models.GameOdds, error)
	CurrentStandings(ctx context.Context, asOf time.Time) (models.Standings, error)
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Config holds the configuration for the server.
type Config struct {
	ServiceName    string
	Version        string
	Addr           string
	MetricsPath    string
	MetricsHandler http.Handler
	Odds           OddsSource
	Defaults       simulation.Params
	Logger         *logrus.Logger
	DB             DatabasePinger
}

// Server serves the operational endpoints.
type Server struct {
	cfg    Config
	server *http.Server
	log    *logrus.Entry
	mu     sync.RWMutex
	ready  bool
}

// NewServer creates a new server. An empty Addr listens on :8080.
func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{
		cfg: cfg,
		log: logger.OrDefault(cfg.Logger).WithField("component", "http"),
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /odds", s.handleOdds)
	mux.HandleFunc("GET /games", s.handleGames)
	mux.HandleFunc("GET /standings", s.handleStandings)
	if s.cfg.MetricsHandler != nil {
		mux.Handle("GET "+s.cfg.MetricsPath, s.cfg.MetricsHandler)
	}
	return mux
}

// Start serves in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":    s.cfg.Addr,
			"service": s.cfg.ServiceName,
		}).Info("HTTP server starting")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("HTTP server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.log.Info("HTTP server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.cfg.ServiceName})
}

// handleReady reports not ready until the first odds are available, or when the
// database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["odds"] = "ok"
	} else {
		healthy = false
		checks["odds"] = "not_ready"
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	resp := ReadyResponse{Service: s.cfg.ServiceName, Checks: checks, Duration: time.Since(start).String()}
	if !healthy {
		resp.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Status = "ok"
	writeJSON(w, http.StatusOK, resp)
}

// queryDate parses ?date=YYYY-MM-DD, defaulting to today in UTC.
func queryDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse(time.DateOnly, raw)
}

func (s *Server) queryParams(r *http.Request) (simulation.Params, error) {
	params := s.cfg.Defaults
	q := r.URL.Query()
	if raw := q.Get("simulations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid simulations: %w", err)
		}
		params.Simulations = n
	}
	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid seed: %w", err)
		}
		params.Seed = seed
	}
	return params, nil
}

func (s *Server) oddsUnavailable(w http.ResponseWriter) bool {
	if s.cfg.Odds == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("odds service not configured"))
		return true
	}
	return false
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	if s.oddsUnavailable(w) {
		return
	}
	date, err := queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	params, err := s.queryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.cfg.Odds.ComputeOdds(r.Context(), date, params)
	if err != nil {
		s.log.WithError(err).Warn("Odds request failed")
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.oddsUnavailable(w) {
		return
	}
	date, err := queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	games, err := s.cfg.Odds.ComputeGameOdds(r.Context(), date)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	if s.oddsUnavailable(w) {
		return
	}
	date, err := queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := s.cfg.Odds.CurrentStandings(r.Context(), date)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidSnapshot), errors.Is(err, models.ErrUnknownTeam):
		return http.StatusUnprocessableEntity
	case errors.Is(err, simulation.ErrCancelled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
