package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/universe"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	md *marketdata.Client
}

// NewAlpacaFetcher creates a fetcher authenticated with the given API keys.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		md: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchBars returns close/volume bars for one symbol, ascending by timestamp.
func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol string, w Window) ([]model.Observation, error) {
	tf, err := timeFrame(w.Interval)
	if err != nil {
		return nil, providerErr(f.Name(), symbol, err)
	}
	span, err := periodDuration(w.Period)
	if err != nil {
		return nil, providerErr(f.Name(), symbol, err)
	}

	ticker := universe.NormalizeSymbol(symbol)
	bars, err := f.md.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     time.Now().Add(-span),
		Feed:      marketdata.IEX,
	})
	if err != nil {
		return nil, providerErr(f.Name(), symbol, err)
	}
	if len(bars) == 0 {
		return nil, providerErr(f.Name(), symbol, ErrNoData)
	}

	obs := make([]model.Observation, 0, len(bars))
	for _, b := range bars {
		if b.Close == 0 {
			continue
		}
		obs = append(obs, model.Observation{
			Symbol:     ticker,
			Timestamp:  b.Timestamp.UTC(),
			ClosePrice: b.Close,
			Volume:     int64(b.Volume),
		})
	}
	if len(obs) == 0 {
		return nil, providerErr(f.Name(), symbol, ErrNoData)
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Timestamp.Before(obs[j].Timestamp) })
	return obs, nil
}

func timeFrame(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "1m":
		return marketdata.OneMin, nil
	case "1h":
		return marketdata.OneHour, nil
	case "1d", "":
		return marketdata.OneDay, nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
}

// periodDuration converts a Yahoo-style period string ("2d", "1mo", "1y")
// into a lookback duration.
func periodDuration(period string) (time.Duration, error) {
	day := 24 * time.Hour
	switch {
	case strings.HasSuffix(period, "mo"):
		n, err := strconv.Atoi(strings.TrimSuffix(period, "mo"))
		if err != nil {
			return 0, fmt.Errorf("bad period %q", period)
		}
		return time.Duration(n) * 30 * day, nil
	case strings.HasSuffix(period, "y"):
		n, err := strconv.Atoi(strings.TrimSuffix(period, "y"))
		if err != nil {
			return 0, fmt.Errorf("bad period %q", period)
		}
		return time.Duration(n) * 365 * day, nil
	case strings.HasSuffix(period, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(period, "d"))
		if err != nil {
			return 0, fmt.Errorf("bad period %q", period)
		}
		return time.Duration(n) * day, nil
	}
	return 0, fmt.Errorf("bad period %q", period)
}
