package writer

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/store"
)

// Writer persists batches of observations, treating natural-key duplicates as
// successful no-ops. Rows are written independently: one row's failure never
// blocks the rest of the batch.
type Writer struct {
	store    store.Store
	validate *validator.Validate
}

func New(s store.Store) *Writer {
	return &Writer{store: s, validate: validator.New()}
}

// Result reports the outcome of one batch write.
type Result struct {
	Written    int
	Duplicates int
	Failed     map[string]error // symbol -> first error seen
	succeeded  map[string]bool
}

// Ok reports whether every row was either written or a duplicate.
func (r *Result) Ok() bool { return len(r.Failed) == 0 }

// Succeeded lists the symbols with at least one written or deduplicated row.
func (r *Result) Succeeded() []string {
	symbols := make([]string, 0, len(r.succeeded))
	for s := range r.succeeded {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// FailedSymbols lists the symbols with at least one failed row.
func (r *Result) FailedSymbols() []string {
	symbols := make([]string, 0, len(r.Failed))
	for s := range r.Failed {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// WriteAll validates and upserts each observation. Failures are collected per
// symbol and reported once in the result rather than raised mid-batch.
func (w *Writer) WriteAll(ctx context.Context, obs []model.Observation) *Result {
	res := &Result{
		Failed:    make(map[string]error),
		succeeded: make(map[string]bool),
	}

	for _, o := range obs {
		if err := w.validate.Struct(o); err != nil {
			w.fail(res, o.Symbol, fmt.Errorf("invalid observation: %w", err))
			continue
		}
		inserted, err := w.store.Upsert(ctx, o)
		if err != nil {
			w.fail(res, o.Symbol, err)
			continue
		}
		res.succeeded[o.Symbol] = true
		if inserted {
			res.Written++
		} else {
			res.Duplicates++
		}
	}
	return res
}

func (w *Writer) fail(res *Result, symbol string, err error) {
	if _, seen := res.Failed[symbol]; !seen {
		res.Failed[symbol] = err
	}
}
