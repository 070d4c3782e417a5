package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Ritu28-coder/stock-dashboard/internal/collector"
	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/ranker"
	"github.com/Ritu28-coder/stock-dashboard/internal/universe"
	"github.com/Ritu28-coder/stock-dashboard/internal/writer"
)

// Pipeline wires the universe source, the batch fetcher, and the
// deduplicating writer together. Each run is stateless between invocations
// except through the persisted table.
type Pipeline struct {
	Universe universe.Source
	Batch    *collector.BatchFetcher
	Writer   *writer.Writer
	TopN     int
}

// Report summarizes one pipeline run.
type Report struct {
	BatchID    string
	Fetched    int
	Skipped    []*collector.ProviderError
	Written    int
	Duplicates int
	Failed     map[string]error
	Gainers    []ranker.Change
	Losers     []ranker.Change
}

// RunDaily fetches recent daily bars for the whole universe, attaches sector
// labels, and persists everything. Per-symbol fetch failures are skipped and
// reported; only a failed universe lookup aborts the run.
func (p *Pipeline) RunDaily(ctx context.Context) (*Report, error) {
	report := &Report{BatchID: uuid.NewString()}
	log.Printf("[INFO] daily run %s starting", report.BatchID)

	entries, err := p.Universe.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	symbols := make([]string, 0, len(entries))
	sectors := make(map[string]string, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
		sectors[e.Symbol] = e.Sector
	}

	batch := p.Batch.FetchAll(ctx, symbols, collector.WindowHistory)
	report.Fetched = len(batch.Bars)
	report.Skipped = batch.Errors

	var obs []model.Observation
	for symbol, bars := range batch.Bars {
		for _, o := range bars {
			o.Sector = sectors[symbol]
			obs = append(obs, o)
		}
	}
	p.persist(ctx, report, obs)

	log.Printf("[INFO] daily run %s: %d symbols fetched, %d skipped, %d written, %d duplicates, %d failed",
		report.BatchID, report.Fetched, len(report.Skipped), report.Written, report.Duplicates, len(report.Failed))
	return report, nil
}

// RunMovers ranks the universe by two-day percent change, then fetches and
// persists today's minute bars for the top and bottom movers. The intraday
// path carries no sector label, matching the plain persistence contract.
func (p *Pipeline) RunMovers(ctx context.Context) (*Report, error) {
	report := &Report{BatchID: uuid.NewString()}
	log.Printf("[INFO] movers run %s starting", report.BatchID)

	entries, err := p.Universe.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}

	daily := p.Batch.FetchAll(ctx, symbols, collector.WindowChange)
	report.Skipped = daily.Errors

	changes := ranker.Changes(daily.Bars)
	report.Gainers, report.Losers = ranker.TopMovers(changes, p.TopN)
	log.Printf("[INFO] movers run %s: %d eligible, gainers %v, losers %v",
		report.BatchID, len(changes), report.Gainers, report.Losers)

	selected := make([]string, 0, len(report.Gainers)+len(report.Losers))
	for _, c := range report.Gainers {
		selected = append(selected, c.Symbol)
	}
	for _, c := range report.Losers {
		selected = append(selected, c.Symbol)
	}

	intraday := p.Batch.FetchAll(ctx, selected, collector.WindowIntraday)
	report.Fetched = len(intraday.Bars)
	report.Skipped = append(report.Skipped, intraday.Errors...)

	var obs []model.Observation
	for _, bars := range intraday.Bars {
		obs = append(obs, bars...)
	}
	p.persist(ctx, report, obs)

	log.Printf("[INFO] movers run %s: %d written, %d duplicates, %d failed",
		report.BatchID, report.Written, report.Duplicates, len(report.Failed))
	return report, nil
}

func (p *Pipeline) persist(ctx context.Context, report *Report, obs []model.Observation) {
	res := p.Writer.WriteAll(ctx, obs)
	report.Written = res.Written
	report.Duplicates = res.Duplicates
	report.Failed = res.Failed
	if !res.Ok() {
		log.Printf("[ERROR] run %s: persist failed for %v", report.BatchID, res.FailedSymbols())
	}
}
