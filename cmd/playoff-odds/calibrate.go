package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/playoff-odds/internal/calibration"
	"github.com/yourusername/playoff-odds/internal/database"
	"github.com/yourusername/playoff-odds/internal/metrics"
	"github.com/yourusername/playoff-odds/internal/repository"
)

var historyFile string

// historyEntry is one date of the calibration history file.
type historyEntry struct {
	Date        string             `json:"date"`
	Predictions map[string]float64 `json:"predictions"`
	Actual      map[string]bool    `json:"actual"`
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Score historical playoff probabilities against outcomes",
	Long: `Reads a JSON array of {"date", "predictions", "actual"} records, scores each date and
prints the Brier score, expected calibration error and reliability buckets over the range.
Records are persisted to PostgreSQL when database.enabled is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return runCalibrate(ctx, cmd)
	},
}

func init() {
	calibrateCmd.Flags().StringVar(&historyFile, "history", "", "Path to the prediction history JSON file")
	calibrateCmd.MarkFlagRequired("history")
}

func runCalibrate(ctx context.Context, cmd *cobra.Command) error {
	metrics.InitRegistry()

	data, err := os.ReadFile(historyFile)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode history: %w", err)
	}
	if len(entries) == 0 {
		return calibration.ErrEmptyRecord
	}

	var store calibration.Store = calibration.NewMemoryStore()
	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}
		store = repos.Calibration
	}
	tracker := calibration.NewTracker(store, logger)

	var from, to time.Time
	for _, e := range entries {
		date, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", e.Date, err)
		}
		if _, err := tracker.Record(ctx, date, e.Predictions, e.Actual); err != nil {
			logger.WithError(err).WithField("date", e.Date).Warn("Skipping history entry")
			continue
		}
		if from.IsZero() || date.Before(from) {
			from = date
		}
		if date.After(to) {
			to = date
		}
	}
	if from.IsZero() {
		return calibration.ErrEmptyRecord
	}

	summary, err := tracker.Summary(ctx, from, to)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
