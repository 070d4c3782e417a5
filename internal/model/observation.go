package model

import "time"

// Observation is one close-price/volume sample for a ticker at a point in time.
// The (Symbol, Timestamp) pair is the natural key: the store keeps at most one
// row per pair, and later writes for the same pair are no-ops.
type Observation struct {
	Symbol     string    `db:"ticker" json:"symbol" validate:"required"`
	Timestamp  time.Time `db:"date" json:"timestamp" validate:"required"`
	ClosePrice float64   `db:"close_price" json:"close_price" validate:"gt=0"`
	Volume     int64     `db:"volume" json:"volume" validate:"gte=0"`
	Sector     string    `db:"sector" json:"sector,omitempty"`
}

// Key returns the natural key of the observation.
func (o Observation) Key() string {
	return o.Symbol + "@" + o.Timestamp.UTC().Format(time.RFC3339)
}
