// Package scheduler runs periodic odds refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/playoff-odds/internal/logger"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/simulation"
)

// Refresher recomputes the odds for a date. service.OddsService satisfies it.
type Refresher interface {
	Refresh(ctx context.Context, asOf time.Time, params simulation.Params) (*models.SimulationResult, error)
}

// Scheduler manages scheduled refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	refresher       Refresher
	log             *logrus.Entry
	now             func() time.Time
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	cbMu            sync.Mutex
	onSuccess       []func(*models.SimulationResult)
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher Refresher, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		log:             logger.OrDefault(log).WithField("component", "scheduler"),
		now:             time.Now,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// OnSuccess registers fn to be called after every successful refresh, scheduled or not.
func (s *Scheduler) OnSuccess(fn func(*models.SimulationResult)) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.onSuccess = append(s.onSuccess, fn)
}

// ScheduleOddsRefresh schedules a refresh of today's odds (UTC) with params. timeout
// bounds each run; zero means no bound.
func (s *Scheduler) ScheduleOddsRefresh(cronExpression string, params simulation.Params, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_ = s.RunNow(ctx, params)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithField("cron", cronExpression).Info("Scheduled odds refresh")
	return nil
}

// RunNow refreshes today's odds synchronously.
func (s *Scheduler) RunNow(ctx context.Context, params simulation.Params) error {
	asOf := s.now().UTC().Truncate(24 * time.Hour)
	fields := logrus.Fields{"date": asOf.Format(time.DateOnly)}

	res, err := s.refresher.Refresh(ctx, asOf, params)
	if err != nil {
		metrics.RecordRefresh("failure")
		s.log.WithError(err).WithFields(fields).Error("Scheduled odds refresh failed")
		return err
	}

	metrics.RecordRefresh("success")
	fields["run_id"] = res.RunID.String()
	fields["simulations"] = res.TotalSimulations
	fields["stale"] = res.Stale
	s.log.WithFields(fields).Info("Scheduled odds refresh completed")

	s.cbMu.Lock()
	callbacks := s.onSuccess
	s.cbMu.Unlock()
	for _, fn := range callbacks {
		fn(res)
	}
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
