package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/service"
	"github.com/yourusername/playoff-odds/internal/simulation"
	"github.com/yourusername/playoff-odds/internal/snapshot"
)

var simulateOpts struct {
	snapshot     string
	synthetic    int
	date         string
	simulations  int
	seed         uint64
	workers      int
	allowPartial bool
	games        bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one batch and print the playoff odds as JSON",
	Example: `  playoff-odds simulate --snapshot snapshot.json --date 2025-08-15 --simulations 20000 --seed 42
  playoff-odds simulate --synthetic 60 --simulations 5000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runSimulate(ctx, cmd)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateOpts.snapshot, "snapshot", "", "Path to a JSON snapshot (defaults to snapshot.path from config)")
	f.IntVar(&simulateOpts.synthetic, "synthetic", 0, "Simulate N days of a balanced synthetic schedule instead of a snapshot")
	f.StringVar(&simulateOpts.date, "date", "", "As-of date, YYYY-MM-DD (defaults to today)")
	f.IntVarP(&simulateOpts.simulations, "simulations", "n", 0, "Number of season paths (defaults to simulation.simulations)")
	f.Uint64Var(&simulateOpts.seed, "seed", 0, "Random seed; 0 picks one and reports it")
	f.IntVarP(&simulateOpts.workers, "workers", "w", 0, "Worker goroutines (defaults to GOMAXPROCS)")
	f.BoolVar(&simulateOpts.allowPartial, "allow-partial", false, "Return partial results on interrupt")
	f.BoolVar(&simulateOpts.games, "games", false, "Print per-game odds for the date instead of season odds")
}

// syntheticProvider serves a fresh balanced snapshot for any date.
type syntheticProvider struct {
	days int
}

func (p syntheticProvider) Snapshot(ctx context.Context, asOf time.Time) (*snapshot.Snapshot, error) {
	snap := snapshot.Synthetic(table, asOf, p.days)
	snap.FetchedAt = time.Now()
	return snap, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", raw, err)
	}
	return date, nil
}

func snapshotProvider(path string) (service.SnapshotProvider, error) {
	if simulateOpts.synthetic > 0 {
		return syntheticProvider{days: simulateOpts.synthetic}, nil
	}
	if path == "" && cfg.Snapshot.URL != "" {
		httpCfg := snapshot.DefaultHTTPConfig()
		httpCfg.Timeout = cfg.Snapshot.Timeout
		httpCfg.MaxRetries = cfg.Snapshot.MaxRetries
		httpCfg.RateLimit = cfg.Snapshot.RateLimit
		return snapshot.NewHTTPProvider(cfg.Snapshot.URL, table, httpCfg, logger), nil
	}
	if path == "" {
		path = cfg.Snapshot.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no snapshot given: use --snapshot, --synthetic, snapshot.path or snapshot.url")
	}
	return snapshot.NewFileProvider(path, table), nil
}

func newService(provider service.SnapshotProvider) *service.OddsService {
	sim := simulation.NewSimulator(table, simulation.OptionsFromConfig(cfg), logger)
	return service.NewOddsService(table, provider, sim, service.OptionsFromConfig(cfg), logger)
}

func runSimulate(ctx context.Context, cmd *cobra.Command) error {
	metrics.InitRegistry()

	date, err := parseDate(simulateOpts.date)
	if err != nil {
		return err
	}
	provider, err := snapshotProvider(simulateOpts.snapshot)
	if err != nil {
		return err
	}
	svc := newService(provider)

	var out any
	if simulateOpts.games {
		out, err = svc.ComputeGameOdds(ctx, date)
	} else {
		params := simulation.ParamsFromConfig(cfg)
		if cmd.Flags().Changed("simulations") {
			params.Simulations = simulateOpts.simulations
		}
		if cmd.Flags().Changed("seed") {
			params.Seed = simulateOpts.seed
		}
		if cmd.Flags().Changed("workers") {
			params.Workers = simulateOpts.workers
		}
		if cmd.Flags().Changed("allow-partial") {
			params.AllowPartial = simulateOpts.allowPartial
		}
		out, err = svc.ComputeOdds(ctx, date, params)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
