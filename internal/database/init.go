package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/playoff-odds/internal/config"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS historical_accuracy (
		date        DATE PRIMARY KEY,
		predictions JSONB NOT NULL,
		actual      JSONB NOT NULL,
		brier_score DOUBLE PRECISION NOT NULL CHECK (brier_score >= 0),
		calibration DOUBLE PRECISION NOT NULL,
		buckets     JSONB NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Initialize opens the pool and makes sure the schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables used by the repositories if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
