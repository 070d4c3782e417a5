package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/collector"
	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/store"
	"github.com/Ritu28-coder/stock-dashboard/internal/universe"
	"github.com/Ritu28-coder/stock-dashboard/internal/writer"
)

func dailyPair(symbol string, prev, latest float64) []model.Observation {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.Observation{
		{Symbol: symbol, Timestamp: base, ClosePrice: prev, Volume: 100},
		{Symbol: symbol, Timestamp: base.AddDate(0, 0, 1), ClosePrice: latest, Volume: 100},
	}
}

func newPipeline(mock *collector.MockFetcher, st store.Store, symbols ...universe.Entry) *Pipeline {
	return &Pipeline{
		Universe: &universe.StaticSource{List: symbols},
		Batch: collector.NewBatchFetcher(mock, collector.Options{
			MaxRetries:  0,
			BackoffBase: time.Millisecond,
			Concurrency: 2,
		}),
		Writer: writer.New(st),
		TopN:   1,
	}
}

func TestRunDaily_AttachesSectors(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Observation{
			"AAPL": dailyPair("AAPL", 100, 110),
		},
		Errs: map[string]error{"DEAD": collector.ErrNoData},
	}
	st := store.NewMemoryStore()
	p := newPipeline(mock, st,
		universe.Entry{Symbol: "AAPL", Sector: "Information Technology"},
		universe.Entry{Symbol: "DEAD", Sector: "Energy"},
	)

	report, err := p.RunDaily(context.Background())
	if err != nil {
		t.Fatalf("run daily: %v", err)
	}

	if report.Fetched != 1 || len(report.Skipped) != 1 {
		t.Errorf("expected 1 fetched / 1 skipped, got %d/%d", report.Fetched, len(report.Skipped))
	}
	if report.Written != 2 {
		t.Errorf("expected 2 written rows, got %d", report.Written)
	}

	rows, _ := st.ReadAll(context.Background())
	for _, o := range rows {
		if o.Sector != "Information Technology" {
			t.Errorf("expected sector attached, got %q", o.Sector)
		}
	}
}

func TestRunMovers_SelectsTopAndBottom(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Observation{
			"UP":   dailyPair("UP", 100, 110),
			"FLAT": dailyPair("FLAT", 100, 100),
			"DOWN": dailyPair("DOWN", 100, 90),
		},
		Intraday: map[string][]model.Observation{
			"UP":   {{Symbol: "UP", Timestamp: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), ClosePrice: 111, Volume: 10}},
			"DOWN": {{Symbol: "DOWN", Timestamp: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC), ClosePrice: 89, Volume: 10}},
		},
	}
	st := store.NewMemoryStore()
	p := newPipeline(mock, st,
		universe.Entry{Symbol: "UP"},
		universe.Entry{Symbol: "FLAT"},
		universe.Entry{Symbol: "DOWN"},
	)

	report, err := p.RunMovers(context.Background())
	if err != nil {
		t.Fatalf("run movers: %v", err)
	}

	if len(report.Gainers) != 1 || report.Gainers[0].Symbol != "UP" {
		t.Errorf("expected UP as top gainer, got %v", report.Gainers)
	}
	if len(report.Losers) != 1 || report.Losers[0].Symbol != "DOWN" {
		t.Errorf("expected DOWN as top loser, got %v", report.Losers)
	}
	if report.Written == 0 {
		t.Error("expected intraday rows to be written")
	}

	rows, _ := st.ReadAll(context.Background())
	for _, o := range rows {
		if o.Symbol == "FLAT" {
			t.Error("FLAT should not be persisted by the movers run")
		}
		if o.Sector != "" {
			t.Errorf("movers path should not carry a sector, got %q", o.Sector)
		}
	}
}

func TestRunMovers_RerunIsIdempotent(t *testing.T) {
	mock := &collector.MockFetcher{
		Bars: map[string][]model.Observation{
			"UP":   dailyPair("UP", 100, 110),
			"DOWN": dailyPair("DOWN", 100, 90),
		},
	}
	st := store.NewMemoryStore()
	p := newPipeline(mock, st, universe.Entry{Symbol: "UP"}, universe.Entry{Symbol: "DOWN"})

	first, err := p.RunMovers(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := p.RunMovers(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.Written != 0 {
		t.Errorf("rerun should write nothing new, wrote %d", second.Written)
	}
	if second.Duplicates != first.Written {
		t.Errorf("rerun should dedupe all %d rows, got %d duplicates", first.Written, second.Duplicates)
	}
}
