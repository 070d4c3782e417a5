package ranker

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// DefaultTopN matches the mover lists shown on the dashboard.
const DefaultTopN = 5

// Change is the percentage price change of one symbol between two observations.
type Change struct {
	Symbol  string  `json:"symbol"`
	Percent float64 `json:"change_percent"`
}

// ChangePercent returns (latest-prev)/prev*100 rounded to exactly two decimal
// places. prev must be non-zero; callers exclude zero-close symbols first.
func ChangePercent(prev, latest float64) float64 {
	p := decimal.NewFromFloat(prev)
	q := decimal.NewFromFloat(latest)
	pct, _ := q.Sub(p).Div(p).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

// Changes computes per-symbol changes from the two most recent bars of each
// series. Symbols with fewer than two bars or a zero previous close are
// excluded rather than failing the computation. The result is ordered by
// descending change, ties broken by symbol.
func Changes(bars map[string][]model.Observation) []Change {
	changes := make([]Change, 0, len(bars))
	for symbol, obs := range bars {
		if len(obs) < 2 {
			continue
		}
		prev := obs[len(obs)-2]
		latest := obs[len(obs)-1]
		if prev.ClosePrice == 0 {
			continue
		}
		changes = append(changes, Change{
			Symbol:  symbol,
			Percent: ChangePercent(prev.ClosePrice, latest.ClosePrice),
		})
	}
	sortDescending(changes)
	return changes
}

// TopMovers returns the n largest gainers (descending) and the n smallest
// losers (ascending). When fewer than n symbols are eligible, all of them are
// returned for each side. n below 1 falls back to DefaultTopN.
func TopMovers(changes []Change, n int) (gainers, losers []Change) {
	if n < 1 {
		n = DefaultTopN
	}

	desc := make([]Change, len(changes))
	copy(desc, changes)
	sortDescending(desc)

	k := n
	if k > len(desc) {
		k = len(desc)
	}
	gainers = append(gainers, desc[:k]...)

	asc := make([]Change, len(changes))
	copy(asc, changes)
	sort.SliceStable(asc, func(i, j int) bool {
		if asc[i].Percent != asc[j].Percent {
			return asc[i].Percent < asc[j].Percent
		}
		return asc[i].Symbol < asc[j].Symbol
	})
	losers = append(losers, asc[:k]...)

	return gainers, losers
}

func sortDescending(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Percent != changes[j].Percent {
			return changes[i].Percent > changes[j].Percent
		}
		return changes[i].Symbol < changes[j].Symbol
	})
}
