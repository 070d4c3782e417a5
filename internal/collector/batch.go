package collector

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// Options control per-symbol retry and batch concurrency.
type Options struct {
	MaxRetries  int           // retries after the first attempt
	BackoffBase time.Duration // doubled on each retry
	Concurrency int           // bounded worker pool size
}

// DefaultOptions mirror the pipeline defaults from config.
func DefaultOptions() Options {
	return Options{
		MaxRetries:  3,
		BackoffBase: 2 * time.Second,
		Concurrency: 4,
	}
}

// BatchResult collects per-symbol bars and per-symbol failures. A failed
// symbol appears in Errors and is absent from Bars; it never aborts the batch.
type BatchResult struct {
	Bars   map[string][]model.Observation
	Errors []*ProviderError
}

// FailedSymbols lists the symbols that could not be fetched, sorted.
func (r *BatchResult) FailedSymbols() []string {
	symbols := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		symbols = append(symbols, e.Symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// BatchFetcher fetches many symbols through a bounded worker pool with
// bounded exponential-backoff retry per symbol.
type BatchFetcher struct {
	fetcher Fetcher
	opts    Options
}

// NewBatchFetcher wraps a single-symbol fetcher with batch semantics.
func NewBatchFetcher(f Fetcher, opts Options) *BatchFetcher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	return &BatchFetcher{fetcher: f, opts: opts}
}

// FetchAll fetches every symbol independently. One symbol's failure cannot
// cancel another's in-flight fetch; only context cancellation stops the batch.
func (b *BatchFetcher) FetchAll(ctx context.Context, symbols []string, w Window) *BatchResult {
	res := &BatchResult{Bars: make(map[string][]model.Observation, len(symbols))}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, b.opts.Concurrency)
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			bars, err := b.fetchWithRetry(ctx, symbol, w)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[WARN] skip %s: %v", symbol, err)
				res.Errors = append(res.Errors, providerErr(b.fetcher.Name(), symbol, err))
				return
			}
			res.Bars[symbol] = bars
		}(symbol)
	}
	wg.Wait()

	sort.Slice(res.Errors, func(i, j int) bool { return res.Errors[i].Symbol < res.Errors[j].Symbol })
	return res
}

func (b *BatchFetcher) fetchWithRetry(ctx context.Context, symbol string, w Window) ([]model.Observation, error) {
	backoff := b.opts.BackoffBase
	var lastErr error

	for attempt := 0; attempt <= b.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		bars, err := b.fetcher.FetchBars(ctx, symbol, w)
		if err == nil {
			return bars, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
