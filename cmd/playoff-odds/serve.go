package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/playoff-odds/internal/database"
	"github.com/yourusername/playoff-odds/internal/health"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/models"
	"github.com/yourusername/playoff-odds/internal/scheduler"
	"github.com/yourusername/playoff-odds/internal/simulation"
)

var serveOpts struct {
	snapshot string
	addr     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Refresh odds on a schedule and serve them over HTTP with prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.snapshot, "snapshot", "", "Path to the JSON snapshot (defaults to snapshot.path from config)")
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "Listen address (defaults to :metrics.port)")
}

func runServe(ctx context.Context) error {
	metrics.InitRegistry()

	provider, err := snapshotProvider(serveOpts.snapshot)
	if err != nil {
		return err
	}
	svc := newService(provider)
	params := simulation.ParamsFromConfig(cfg)

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	addr := serveOpts.addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}
	srvCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Addr:        addr,
		MetricsPath: cfg.Metrics.Path,
		Odds:        svc,
		Defaults:    params,
		Logger:      logger,
	}
	if cfg.Metrics.Enabled {
		srvCfg.MetricsHandler = metrics.Handler()
	}
	if db != nil {
		srvCfg.DB = db
	}
	srv := health.NewServer(srvCfg)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(svc, logger)
	sched.OnSuccess(func(*models.SimulationResult) { srv.SetReady(true) })
	if err := sched.RunNow(ctx, params); err != nil {
		logger.WithError(err).Warn("Initial odds computation failed, waiting for the next scheduled refresh")
	}

	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleOddsRefresh(cfg.Scheduler.Cron, params, cfg.Simulation.Timeout()); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
		logger.WithField("next_run", sched.GetNextRun().Format(time.RFC3339)).Info("Odds refresh scheduled")
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}
