package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/playoff-odds/internal/league"
)

// LoadFile reads and validates a JSON snapshot.
func LoadFile(path string, table *league.Table) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	if err := snap.Validate(table); err != nil {
		return nil, err
	}
	return &snap, nil
}

// FileProvider serves snapshots from a JSON file, re-reading it on every call so an
// external process can replace it between refreshes.
type FileProvider struct {
	path  string
	table *league.Table
}

// NewFileProvider creates a provider for path.
func NewFileProvider(path string, table *league.Table) *FileProvider {
	return &FileProvider{path: path, table: table}
}

// Snapshot loads the file. A zero AsOf in the file is filled with asOf.
func (p *FileProvider) Snapshot(ctx context.Context, asOf time.Time) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := LoadFile(p.path, p.table)
	if err != nil {
		return nil, err
	}
	if snap.AsOf.IsZero() {
		snap.AsOf = asOf
	}
	return snap, nil
}
