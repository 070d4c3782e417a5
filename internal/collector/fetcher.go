package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// Window describes how much history to request and at what sampling interval.
type Window struct {
	Period   string // e.g. "1d", "2d", "5d", "1mo"
	Interval string // e.g. "1m", "1d"
}

// Windows used by the ingestion pipeline.
var (
	// WindowHistory covers the recent daily bars persisted for every symbol.
	WindowHistory = Window{Period: "5d", Interval: "1d"}
	// WindowChange covers the two daily bars needed for a percent change.
	WindowChange = Window{Period: "2d", Interval: "1d"}
	// WindowIntraday covers today's minute bars for selected movers.
	WindowIntraday = Window{Period: "1d", Interval: "1m"}
)

// Fetcher retrieves close-price bars for a single symbol, ordered by
// ascending timestamp.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, w Window) ([]model.Observation, error)
	Name() string
}

// ErrNoData marks a fetch that succeeded at the transport level but carried
// no usable bars.
var ErrNoData = errors.New("no data returned")

// ProviderError reports a failed or empty fetch for one symbol. Batch-level
// callers collect these per symbol instead of aborting the run.
type ProviderError struct {
	Symbol string
	Source string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func providerErr(source, symbol string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Symbol: symbol, Source: source, Err: err}
}
