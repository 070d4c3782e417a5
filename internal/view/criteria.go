package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// SectorAll is the sentinel sector value that disables the sector predicate.
const SectorAll = "All"

// ErrInvalidCriteria marks malformed filter input. The engine rejects the
// whole request before any filtering runs.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria is the user-selected predicate set narrowing the observation
// table. Predicates compose by conjunction; zero values disable a predicate.
type Criteria struct {
	Start    time.Time // inclusive; zero disables the lower date bound
	End      time.Time // inclusive; zero disables the upper date bound
	Sector   string    // "" or SectorAll matches every sector
	MinPrice float64   // inclusive
	MaxPrice float64   // inclusive; 0 disables the upper bound
	Symbols  []string  // multi-select; empty keeps every symbol
}

// Validate rejects an inverted date range. Bounds are never silently swapped.
func (c Criteria) Validate() error {
	if !c.Start.IsZero() && !c.End.IsZero() && c.Start.After(c.End) {
		return fmt.Errorf("%w: start %s after end %s",
			ErrInvalidCriteria, c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"))
	}
	return nil
}

func (c Criteria) matchWindow(o model.Observation) bool {
	if !c.Start.IsZero() && o.Timestamp.Before(c.Start) {
		return false
	}
	if !c.End.IsZero() && o.Timestamp.After(c.End) {
		return false
	}
	if c.Sector != "" && c.Sector != SectorAll && o.Sector != c.Sector {
		return false
	}
	if o.ClosePrice < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && o.ClosePrice > c.MaxPrice {
		return false
	}
	return true
}
