package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/playoff-odds/internal/league"
	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/model"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/snapshot"
)

// Simulator runs Monte Carlo batches over a league table. It holds no per-batch state
// and may run several batches concurrently.
type Simulator struct {
	table *league.Table
	opts  Options
	game  *model.GameModel
	log   *logger.SimulationLogger
	now   func() time.Time
}

// NewSimulator creates a simulator.
func NewSimulator(table *league.Table, opts Options, log *logrus.Logger) *Simulator {
	return &Simulator{
		table: table,
		opts:  opts,
		game:  model.NewGameModel(opts.Coefficients, opts.Band),
		log:   logger.NewSimulationLogger(log),
		now:   time.Now,
	}
}

// chunk is one worker's contiguous range of path indices and its private tallies.
type chunk struct {
	lo, hi int
	acc    *accumulator
}

// Run simulates the rest of the season Simulations times and aggregates playoff odds.
//
// Path i draws from its own PCG stream seeded with (seed, i), so a fixed seed yields
// identical results for any worker count. If ctx is cancelled the batch stops within
// a few dozen paths per worker and ErrCancelled is returned, unless AllowPartial is set
// and at least one path completed, in which case the result is marked Degraded.
func (s *Simulator) Run(ctx context.Context, snap *snapshot.Snapshot, params Params) (*models.SimulationResult, error) {
	requested := params.Simulations
	params, clamped := params.Normalize()
	if clamped {
		s.log.LogSimulationsClamped(requested, params.Simulations)
		metrics.RecordSimulationsClamped()
	}

	if err := snap.Validate(s.table); err != nil {
		return nil, err
	}
	p, err := s.buildPlan(snap)
	if err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(s.now().UnixNano())
	}
	runID := uuid.New()
	n := params.Simulations
	workers := min(params.Workers, n)
	started := s.now()
	s.log.LogBatchStarted(runID.String(), snap.AsOf, n, workers, seed)

	wins := make([]int16, p.n*n)
	chunks := make([]chunk, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range chunks {
		c := &chunks[w]
		c.lo, c.hi = w*n/workers, (w+1)*n/workers
		c.acc = newAccumulator(p.n)
		g.Go(func() error {
			return s.runChunk(gctx, p, seed, c, wins, n)
		})
	}
	runErr := g.Wait()
	elapsed := s.now().Sub(started)

	merged := newAccumulator(p.n)
	for _, c := range chunks {
		merged.merge(c.acc)
	}

	degraded := false
	if runErr != nil {
		s.log.LogBatchCancelled(runID.String(), merged.completed, n, params.AllowPartial)
		if !params.AllowPartial || merged.completed == 0 || !isContextErr(runErr) {
			metrics.RecordSimulationRun(metrics.StatusCancelled, merged.completed, elapsed.Seconds())
			return nil, fmt.Errorf("%w after %d of %d paths: %w", ErrCancelled, merged.completed, n, runErr)
		}
		degraded = true
	}

	if merged.degenerate > 0 {
		s.log.LogDegenerateProbabilities(runID.String(), merged.degenerate)
		metrics.RecordDegenerateProbabilities(merged.degenerate)
	}

	result := &models.SimulationResult{
		RunID:            runID,
		Date:             snap.AsOf,
		Teams:            s.aggregate(p, snap, chunks, merged, wins, n),
		TotalSimulations: merged.completed,
		SimulationTime:   elapsed,
		Seed:             seed,
		Degraded:         degraded,
	}

	status := metrics.StatusCompleted
	if degraded {
		status = metrics.StatusDegraded
	}
	metrics.RecordSimulationRun(status, merged.completed, elapsed.Seconds())
	s.log.LogBatchCompleted(runID.String(), merged.completed, elapsed, degraded)

	return result, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
