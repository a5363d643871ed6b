package calibration

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yourusername/playoff-odds/internal/models"
)

// Store persists scored records, one per date.
type Store interface {
	Save(ctx context.Context, rec *models.HistoricalAccuracy) error
	Range(ctx context.Context, from, to time.Time) ([]*models.HistoricalAccuracy, error)
}

// MemoryStore keeps records in process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int]*models.HistoricalAccuracy
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int]*models.HistoricalAccuracy)}
}

// Save stores rec, replacing any record for the same calendar day.
func (s *MemoryStore) Save(ctx context.Context, rec *models.HistoricalAccuracy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[models.DayNumber(rec.Date)] = rec
	return nil
}

// Range returns records dated within [from, to], oldest first.
func (s *MemoryStore) Range(ctx context.Context, from, to time.Time) ([]*models.HistoricalAccuracy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lo, hi := models.DayNumber(from), models.DayNumber(to)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.HistoricalAccuracy
	for day, rec := range s.records {
		if day >= lo && day <= hi {
			out = append(out, rec)
		}
	}
	slices.SortFunc(out, func(a, b *models.HistoricalAccuracy) int { return a.Date.Compare(b.Date) })
	return out, nil
}
