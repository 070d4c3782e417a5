package view

import (
	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// Views holds the two filter stages the dashboard works from. Windowed is the
// date/sector/price filtered table; Selected additionally applies the ticker
// multi-select. Volume and sector aggregates read Windowed; the raw-data view
// and per-symbol metrics read Selected. The two are equal when no symbols are
// selected.
type Views struct {
	Windowed []model.Observation
	Selected []model.Observation
}

// Apply filters the table by the criteria. It is a pure function of
// (table, criteria): an empty result is valid and distinct from an error.
func Apply(table []model.Observation, c Criteria) (*Views, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	windowed := make([]model.Observation, 0, len(table))
	for _, o := range table {
		if c.matchWindow(o) {
			windowed = append(windowed, o)
		}
	}

	selected := windowed
	if len(c.Symbols) > 0 {
		member := make(map[string]bool, len(c.Symbols))
		for _, s := range c.Symbols {
			member[s] = true
		}
		selected = make([]model.Observation, 0, len(windowed))
		for _, o := range windowed {
			if member[o.Symbol] {
				selected = append(selected, o)
			}
		}
	}

	return &Views{Windowed: windowed, Selected: selected}, nil
}
