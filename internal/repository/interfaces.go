// Package repository provides PostgreSQL persistence for engine outputs.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/playoff-odds/internal/models"
)

// CalibrationRepository defines the interface for calibration history access
type CalibrationRepository interface {
	Save(ctx context.Context, rec *models.HistoricalAccuracy) error
	GetByDate(ctx context.Context, date time.Time) (*models.HistoricalAccuracy, error)
	Range(ctx context.Context, from, to time.Time) ([]*models.HistoricalAccuracy, error)
}
