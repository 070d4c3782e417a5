package universe

import (
	"context"
	"strings"
)

// Entry pairs a ticker symbol with its GICS sector label.
type Entry struct {
	Symbol string
	Sector string
}

// Source supplies the set of symbols under consideration for a run.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
	Name() string
}

// StaticSource serves a fixed symbol list, e.g. from config or tests.
type StaticSource struct {
	List []Entry
}

// NewStaticSource builds a source from plain symbols with no sector labels.
func NewStaticSource(symbols []string) *StaticSource {
	list := make([]Entry, 0, len(symbols))
	for _, s := range symbols {
		list = append(list, Entry{Symbol: NormalizeSymbol(s)})
	}
	return &StaticSource{List: list}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Entries(_ context.Context) ([]Entry, error) {
	return s.List, nil
}

// NormalizeSymbol maps index-style dots to the dashes Yahoo expects
// (BRK.B -> BRK-B).
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), ".", "-")
}
