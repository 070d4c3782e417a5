package view

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/ranker"
)

// ErrInsufficientData marks a computation requested over a window with too
// few rows. It is reported per request, never across sibling computations.
var ErrInsufficientData = errors.New("insufficient data")

// VolumeRank is one entry of the volume-by-symbol ranking.
type VolumeRank struct {
	Symbol      string `json:"symbol"`
	TotalVolume int64  `json:"total_volume"`
}

// TopVolume groups rows by symbol, sums volume, and returns the top k
// descending. Ties break by symbol. Fewer than k symbols returns all of them;
// k below 1 returns everything.
func TopVolume(rows []model.Observation, k int) []VolumeRank {
	totals := make(map[string]int64)
	for _, o := range rows {
		totals[o.Symbol] += o.Volume
	}

	ranks := make([]VolumeRank, 0, len(totals))
	for symbol, vol := range totals {
		ranks = append(ranks, VolumeRank{Symbol: symbol, TotalVolume: vol})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TotalVolume != ranks[j].TotalVolume {
			return ranks[i].TotalVolume > ranks[j].TotalVolume
		}
		return ranks[i].Symbol < ranks[j].Symbol
	})

	if k > 0 && len(ranks) > k {
		ranks = ranks[:k]
	}
	return ranks
}

// Movers computes each symbol's percent change between its earliest and
// latest close within the rows and returns the top k gainers and losers.
// Symbols with a single row or a zero first close are excluded.
func Movers(rows []model.Observation, k int) (gainers, losers []ranker.Change) {
	type span struct {
		first, last model.Observation
		n           int
	}
	spans := make(map[string]*span)
	for _, o := range rows {
		s, ok := spans[o.Symbol]
		if !ok {
			spans[o.Symbol] = &span{first: o, last: o, n: 1}
			continue
		}
		if o.Timestamp.Before(s.first.Timestamp) {
			s.first = o
		}
		if o.Timestamp.After(s.last.Timestamp) {
			s.last = o
		}
		s.n++
	}

	changes := make([]ranker.Change, 0, len(spans))
	for symbol, s := range spans {
		if s.n < 2 || s.first.ClosePrice == 0 {
			continue
		}
		changes = append(changes, ranker.Change{
			Symbol:  symbol,
			Percent: ranker.ChangePercent(s.first.ClosePrice, s.last.ClosePrice),
		})
	}
	return ranker.TopMovers(changes, k)
}

// SectorVolume is one slice of the volume-by-sector distribution.
type SectorVolume struct {
	Sector      string `json:"sector"`
	TotalVolume int64  `json:"total_volume"`
}

// VolumeBySector groups rows by sector and sums volume. Rows without a sector
// label are excluded from the distribution, not zero-filled.
func VolumeBySector(rows []model.Observation) []SectorVolume {
	totals := make(map[string]int64)
	for _, o := range rows {
		if o.Sector == "" {
			continue
		}
		totals[o.Sector] += o.Volume
	}

	dist := make([]SectorVolume, 0, len(totals))
	for sector, vol := range totals {
		dist = append(dist, SectorVolume{Sector: sector, TotalVolume: vol})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].TotalVolume != dist[j].TotalVolume {
			return dist[i].TotalVolume > dist[j].TotalVolume
		}
		return dist[i].Sector < dist[j].Sector
	})
	return dist
}

// Summary holds the per-symbol metrics shown above the price chart.
type Summary struct {
	Symbol       string  `json:"symbol"`
	FirstClose   float64 `json:"first_close"`
	LastClose    float64 `json:"last_close"`
	Delta        float64 `json:"delta"`
	DeltaPercent float64 `json:"delta_percent"`
	Max          float64 `json:"max"`
	Min          float64 `json:"min"`
	TotalVolume  int64   `json:"total_volume"`
}

// Summarize computes summary metrics for one symbol over the rows. It fails
// with ErrInsufficientData when the window has no rows for that symbol.
func Summarize(rows []model.Observation, symbol string) (*Summary, error) {
	var (
		first, last model.Observation
		sum         = &Summary{Symbol: symbol}
		count       int
	)
	for _, o := range rows {
		if o.Symbol != symbol {
			continue
		}
		if count == 0 {
			first, last = o, o
			sum.Max, sum.Min = o.ClosePrice, o.ClosePrice
		} else {
			if o.Timestamp.Before(first.Timestamp) {
				first = o
			}
			if o.Timestamp.After(last.Timestamp) {
				last = o
			}
			if o.ClosePrice > sum.Max {
				sum.Max = o.ClosePrice
			}
			if o.ClosePrice < sum.Min {
				sum.Min = o.ClosePrice
			}
		}
		sum.TotalVolume += o.Volume
		count++
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no rows for %s in window", ErrInsufficientData, symbol)
	}

	sum.FirstClose = first.ClosePrice
	sum.LastClose = last.ClosePrice
	sum.Delta = sum.LastClose - sum.FirstClose
	if sum.FirstClose != 0 {
		sum.DeltaPercent = ranker.ChangePercent(sum.FirstClose, sum.LastClose)
	}
	return sum, nil
}
