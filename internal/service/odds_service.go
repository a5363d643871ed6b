// Package service exposes playoff odds to callers, combining the snapshot provider, the
// simulator and the result caches.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/playoff-odds/internal/cache"
	"github.com/yourusername/playoff-odds/internal/config"
	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/simulation"
	"github.com/yourusername/playoff-odds/internal/snapshot"
	"github.com/yourusername/playoff-odds/internal/standings"
)

// SnapshotProvider supplies the season state as of a date.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, asOf time.Time) (*snapshot.Snapshot, error)
}

// Options configures an OddsService.
type Options struct {
	OddsTTL      time.Duration
	GameDataTTL  time.Duration
	StandingsTTL time.Duration
	Retention    time.Duration
	// MaxDataAge is how old a snapshot may be before results built from it are stale.
	MaxDataAge time.Duration
	// Timeout bounds a single batch. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	Now     func() time.Time
}

// DefaultOptions returns the documented cache windows.
func DefaultOptions() Options {
	return Options{
		OddsTTL:      6 * time.Hour,
		GameDataTTL:  30 * time.Minute,
		StandingsTTL: 2 * time.Hour,
		Retention:    72 * time.Hour,
		MaxDataAge:   24 * time.Hour,
		Now:          time.Now,
	}
}

// OptionsFromConfig maps the cache and simulation sections of the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OddsTTL:      cfg.Cache.TTL.Odds,
		GameDataTTL:  cfg.Cache.TTL.GameData,
		StandingsTTL: cfg.Cache.TTL.Standings,
		Retention:    cfg.Cache.Retention,
		MaxDataAge:   cfg.Cache.MaxDataAge,
		Timeout:      cfg.Simulation.Timeout(),
		Now:          time.Now,
	}
}

// OddsService computes and caches playoff odds, per-game odds and standings.
type OddsService struct {
	table    *league.Table
	provider SnapshotProvider
	sim      *simulation.Simulator
	opts     Options
	now      func() time.Time

	odds      *cache.Cache[*models.SimulationResult]
	games     *cache.Cache[[]models.GameOdds]
	standings *cache.Cache[models.Standings]

	log      *logrus.Entry
	stale    map[cache.Category]*logger.CacheLogger
	mu       sync.Mutex
	inflight map[string]map[uint64]context.CancelFunc
	latest   map[string]string
	nextID   uint64
}

// NewOddsService creates the service.
func NewOddsService(
	table *league.Table,
	provider SnapshotProvider,
	sim *simulation.Simulator,
	opts Options,
	log *logrus.Logger,
) *OddsService {
	log = logger.OrDefault(log)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	clock := cache.WithClock(opts.Now)
	withLog := cache.WithLogger(log)

	return &OddsService{
		table:     table,
		provider:  provider,
		sim:       sim,
		opts:      opts,
		now:       opts.Now,
		odds:      cache.New[*models.SimulationResult](cache.CategoryOdds, opts.OddsTTL, opts.Retention, clock, withLog),
		games:     cache.New[[]models.GameOdds](cache.CategoryGameData, opts.GameDataTTL, opts.Retention, clock, withLog),
		standings: cache.New[models.Standings](cache.CategoryStandings, opts.StandingsTTL, opts.Retention, clock, withLog),
		log:       log.WithField("component", "odds_service"),
		stale: map[cache.Category]*logger.CacheLogger{
			cache.CategoryOdds:      logger.NewCacheLogger(log, string(cache.CategoryOdds)),
			cache.CategoryGameData:  logger.NewCacheLogger(log, string(cache.CategoryGameData)),
			cache.CategoryStandings: logger.NewCacheLogger(log, string(cache.CategoryStandings)),
		},
		inflight: make(map[string]map[uint64]context.CancelFunc),
		latest:   make(map[string]string),
	}
}

func dateKey(asOf time.Time) string {
	return cache.Key{Date: asOf}.String()
}

// ComputeOdds returns playoff odds for asOf.
//
// A fresh cached result for the same date and parameters is returned as is. On a miss
// one load per key fetches the snapshot and simulates; concurrent callers share it.
// When the snapshot cannot be fetched, or is older than MaxDataAge, the most recent
// cached result for the date is returned with Stale set; if nothing is cached a stale
// snapshot is simulated anyway and the result flagged Stale.
//
// If every caller waiting on a batch gives up, the batch is cancelled. With
// params.AllowPartial the last caller receives the Degraded partial result.
func (s *OddsService) ComputeOdds(ctx context.Context, asOf time.Time, params simulation.Params) (*models.SimulationResult, error) {
	key := s.oddsKey(asOf, params)
	return s.odds.GetOrLoad(ctx, key, s.loadOdds(asOf, key, params, true))
}

// Refresh supersedes any batch running for asOf and recomputes the odds, replacing the
// cached entry even if it is still fresh. A snapshot fetch failure is returned as an
// error instead of falling back to a cached result.
func (s *OddsService) Refresh(ctx context.Context, asOf time.Time, params simulation.Params) (*models.SimulationResult, error) {
	s.Supersede(asOf)

	key := s.oddsKey(asOf, params)
	load := s.loadOdds(asOf, key, params, false)
	res, err := s.odds.Reload(ctx, key, load)
	if errors.Is(err, simulation.ErrCancelled) && ctx.Err() == nil {
		// joined the flight that was just superseded
		res, err = s.odds.Reload(ctx, key, load)
	}
	return res, err
}

// Supersede cancels every batch currently running for asOf. It returns how many were
// cancelled.
func (s *OddsService) Supersede(asOf time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches := s.inflight[dateKey(asOf)]
	for _, cancel := range batches {
		cancel()
	}
	if len(batches) > 0 {
		s.log.WithFields(logrus.Fields{
			"date":    dateKey(asOf),
			"batches": len(batches),
		}).Info("Superseded in-flight simulations")
	}
	return len(batches)
}

// ComputeGameOdds returns the model's prediction for every game scheduled on asOf.
func (s *OddsService) ComputeGameOdds(ctx context.Context, asOf time.Time) ([]models.GameOdds, error) {
	key := dateKey(asOf)
	return s.games.GetOrLoad(ctx, key, func(ctx context.Context) (cache.Loaded[[]models.GameOdds], error) {
		snap, stale, err := s.fetch(ctx, asOf)
		if err != nil || stale {
			if e, ok := s.games.GetStale(key); ok {
				s.servedStale(cache.CategoryGameData, key, e.Age(s.now()), err)
				return cache.Transient(e.Data), nil
			}
			if err != nil {
				return cache.Loaded[[]models.GameOdds]{}, err
			}
		}

		odds, err := s.sim.PredictGames(snap, asOf)
		if err != nil {
			return cache.Loaded[[]models.GameOdds]{}, err
		}
		return cache.Keep(odds), nil
	})
}

// CurrentStandings returns the standings as of asOf with games back recomputed per division.
func (s *OddsService) CurrentStandings(ctx context.Context, asOf time.Time) (models.Standings, error) {
	key := dateKey(asOf)
	return s.standings.GetOrLoad(ctx, key, func(ctx context.Context) (cache.Loaded[models.Standings], error) {
		snap, stale, err := s.fetch(ctx, asOf)
		if err != nil || stale {
			if e, ok := s.standings.GetStale(key); ok {
				s.servedStale(cache.CategoryStandings, key, e.Age(s.now()), err)
				return cache.Transient(e.Data), nil
			}
			if err != nil {
				return cache.Loaded[models.Standings]{}, err
			}
		}

		tally, err := standings.FromStandings(s.table, snap.Standings, snap.Schedule.CompletedGames)
		if err != nil {
			return cache.Loaded[models.Standings]{}, err
		}
		return cache.Keep(tally.Standings(s.table)), nil
	})
}

// CacheStats returns activity counters per cache category.
func (s *OddsService) CacheStats() map[cache.Category]cache.Stats {
	return map[cache.Category]cache.Stats{
		cache.CategoryOdds:      s.odds.Stats(),
		cache.CategoryGameData:  s.games.Stats(),
		cache.CategoryStandings: s.standings.Stats(),
	}
}

// fetch loads the snapshot and reports whether it is older than MaxDataAge.
func (s *OddsService) fetch(ctx context.Context, asOf time.Time) (*snapshot.Snapshot, bool, error) {
	snap, err := s.provider.Snapshot(ctx, asOf)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch snapshot for %s: %w", dateKey(asOf), err)
	}
	stale := s.opts.MaxDataAge > 0 && snap.Age(s.now()) > s.opts.MaxDataAge
	return snap, stale, nil
}

// staleOdds returns the cached entry for key, or failing that the latest result stored
// for the date under any parameters.
func (s *OddsService) staleOdds(key string, asOf time.Time, cause error) (*models.SimulationResult, bool) {
	e, ok := s.odds.GetStale(key)
	if !ok {
		s.mu.Lock()
		latest, found := s.latest[dateKey(asOf)]
		s.mu.Unlock()
		if !found {
			return nil, false
		}
		if e, ok = s.odds.GetStale(latest); !ok {
			return nil, false
		}
		key = latest
	}
	s.servedStale(cache.CategoryOdds, key, e.Age(s.now()), cause)
	return e.Data.AsStale(), true
}

func (s *OddsService) servedStale(category cache.Category, key string, age time.Duration, cause error) {
	reason := "snapshot older than max data age"
	if cause != nil {
		reason = cause.Error()
	}
	s.stale[category].LogStaleServed(key, age, reason)
	metrics.RecordStaleServed(string(category))
}

func (s *OddsService) remember(asOf time.Time, key string) {
	s.mu.Lock()
	s.latest[dateKey(asOf)] = key
	s.mu.Unlock()
}

func (s *OddsService) oddsKey(asOf time.Time, params simulation.Params) string {
	normalized, _ := params.Normalize()
	return cache.Key{Date: asOf, Params: normalized.CacheKey()}.String()
}

// loadOdds returns the cache load for one odds key. Results served from a stale entry
// and degraded batches are handed to the callers without being stored.
func (s *OddsService) loadOdds(asOf time.Time, key string, params simulation.Params, fallback bool) cache.LoadFunc[*models.SimulationResult] {
	return func(ctx context.Context) (cache.Loaded[*models.SimulationResult], error) {
		var none cache.Loaded[*models.SimulationResult]

		snap, stale, err := s.fetch(ctx, asOf)
		if fallback && (err != nil || stale) {
			if res, ok := s.staleOdds(key, asOf, err); ok {
				return cache.Transient(res), nil
			}
		}
		if err != nil {
			return none, err
		}

		res, err := s.simulate(ctx, asOf, snap, params)
		if err != nil {
			return none, err
		}
		res.Stale = stale
		if res.Degraded {
			return cache.Transient(res), nil
		}
		s.remember(asOf, key)
		return cache.Keep(res), nil
	}
}

// simulate runs one batch. The batch is registered so Supersede can cancel it.
func (s *OddsService) simulate(ctx context.Context, asOf time.Time, snap *snapshot.Snapshot, params simulation.Params) (*models.SimulationResult, error) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if s.opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	date := dateKey(asOf)
	id := s.track(date, cancel)
	defer s.untrack(date, id)

	return s.sim.Run(runCtx, snap, params)
}

func (s *OddsService) track(date string, cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	if s.inflight[date] == nil {
		s.inflight[date] = make(map[uint64]context.CancelFunc)
	}
	s.inflight[date][s.nextID] = cancel
	return s.nextID
}

func (s *OddsService) untrack(date string, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight[date], id)
	if len(s.inflight[date]) == 0 {
		delete(s.inflight, date)
	}
}
