package store

import (
	"context"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// Store persists observations under a uniqueness constraint on
// (symbol, timestamp).
type Store interface {
	// Upsert inserts one observation. It returns false with a nil error when
	// a row with the same (symbol, timestamp) already exists: the duplicate
	// is a successful no-op, not an error.
	Upsert(ctx context.Context, obs model.Observation) (bool, error)

	// ReadAll returns the full table ordered by timestamp, then symbol.
	ReadAll(ctx context.Context) ([]model.Observation, error)

	// ReadWindow returns rows with start <= timestamp <= end, same order.
	ReadWindow(ctx context.Context, start, end time.Time) ([]model.Observation, error)

	Close() error
}
