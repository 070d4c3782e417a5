package collector

import (
	"context"
	"sync"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars     map[string][]model.Observation // served for daily intervals
	Intraday map[string][]model.Observation // served for the 1m interval
	Errs     map[string]error
	Price    float64
	Calls    map[string]int
	FailN    int // fail this many attempts per symbol before succeeding

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, w Window) ([]model.Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[symbol]++

	if m.FailN > 0 && m.Calls[symbol] <= m.FailN {
		return nil, providerErr(m.Name(), symbol, ErrNoData)
	}
	if err, ok := m.Errs[symbol]; ok {
		return nil, providerErr(m.Name(), symbol, err)
	}
	if w.Interval == "1m" {
		if bars, ok := m.Intraday[symbol]; ok {
			return bars, nil
		}
		return GenerateBars(symbol, m.Price, 30), nil
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return GenerateBars(symbol, m.Price, 5), nil
}

// GenerateBars produces a gently trending synthetic series.
func GenerateBars(symbol string, basePrice float64, count int) []model.Observation {
	if basePrice == 0 {
		basePrice = 100
	}
	obs := make([]model.Observation, count)
	base := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		obs[i] = model.Observation{
			Symbol:     symbol,
			Timestamp:  base.AddDate(0, 0, -(count - i)),
			ClosePrice: basePrice * (1 + float64(i-count/2)*0.001),
			Volume:     1000000,
		}
	}
	return obs
}
