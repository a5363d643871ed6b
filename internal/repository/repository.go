package repository

import (
	"fmt"

	"github.com/yourusername/playoff-odds/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Calibration CalibrationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Calibration: NewPostgresCalibrationRepository(db),
	}, nil
}
