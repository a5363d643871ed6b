package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/playoff-odds/internal/database"
	"github.com/yourusername/playoff-odds/internal/models"
)

// PostgresCalibrationRepository stores one HistoricalAccuracy row per date.
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) *PostgresCalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

const selectAccuracy = `
	SELECT date, predictions, actual, brier_score, calibration, buckets
	FROM historical_accuracy
`

// Save inserts rec or replaces the row for the same date.
func (r *PostgresCalibrationRepository) Save(ctx context.Context, rec *models.HistoricalAccuracy) error {
	predictions, err := json.Marshal(rec.Predictions)
	if err != nil {
		return fmt.Errorf("failed to encode predictions: %w", err)
	}
	actual, err := json.Marshal(rec.Actual)
	if err != nil {
		return fmt.Errorf("failed to encode outcomes: %w", err)
	}
	buckets, err := json.Marshal(rec.Buckets)
	if err != nil {
		return fmt.Errorf("failed to encode buckets: %w", err)
	}

	query := `
		INSERT INTO historical_accuracy (date, predictions, actual, brier_score, calibration, buckets)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			predictions = EXCLUDED.predictions,
			actual      = EXCLUDED.actual,
			brier_score = EXCLUDED.brier_score,
			calibration = EXCLUDED.calibration,
			buckets     = EXCLUDED.buckets,
			recorded_at = now()
	`
	_, err = r.db.Exec(ctx, query,
		truncateDay(rec.Date), predictions, actual, rec.BrierScore, rec.Calibration, buckets,
	)
	if err != nil {
		return fmt.Errorf("failed to save calibration record: %w", err)
	}
	return nil
}

// GetByDate returns the record for date's calendar day, or models.ErrNotFound.
func (r *PostgresCalibrationRepository) GetByDate(ctx context.Context, date time.Time) (*models.HistoricalAccuracy, error) {
	rec, err := scanAccuracy(r.db.QueryRow(ctx, selectAccuracy+" WHERE date = $1", truncateDay(date)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("calibration record for %s: %w", date.Format(time.DateOnly), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calibration record: %w", err)
	}
	return rec, nil
}

// Range returns the records dated within [from, to], oldest first.
func (r *PostgresCalibrationRepository) Range(ctx context.Context, from, to time.Time) ([]*models.HistoricalAccuracy, error) {
	rows, err := r.db.Query(ctx, selectAccuracy+" WHERE date >= $1 AND date <= $2 ORDER BY date",
		truncateDay(from), truncateDay(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration records: %w", err)
	}
	defer rows.Close()

	var out []*models.HistoricalAccuracy
	for rows.Next() {
		rec, err := scanAccuracy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAccuracy(row pgx.Row) (*models.HistoricalAccuracy, error) {
	var (
		rec                           models.HistoricalAccuracy
		predictions, actual, buckets []byte
	)
	if err := row.Scan(&rec.Date, &predictions, &actual, &rec.BrierScore, &rec.Calibration, &buckets); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(predictions, &rec.Predictions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(actual, &rec.Actual); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(buckets, &rec.Buckets); err != nil {
		return nil, err
	}
	return &rec, nil
}

// truncateDay keeps only t's calendar day, as stored in the DATE column.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
