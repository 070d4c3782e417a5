package collector

import (
	"context"
	"testing"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

func testOptions() Options {
	return Options{MaxRetries: 2, BackoffBase: time.Millisecond, Concurrency: 2}
}

func TestFetchAll_OneFailureDoesNotAbortOthers(t *testing.T) {
	mock := &MockFetcher{
		Bars: map[string][]model.Observation{
			"AAPL": GenerateBars("AAPL", 100, 5),
			"MSFT": GenerateBars("MSFT", 300, 5),
		},
		Errs: map[string]error{"BROKEN": ErrNoData},
	}
	b := NewBatchFetcher(mock, testOptions())

	res := b.FetchAll(context.Background(), []string{"AAPL", "BROKEN", "MSFT"}, WindowChange)

	if len(res.Bars) != 2 {
		t.Fatalf("expected 2 fetched symbols, got %d", len(res.Bars))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(res.Errors))
	}
	if res.Errors[0].Symbol != "BROKEN" {
		t.Errorf("expected BROKEN to fail, got %s", res.Errors[0].Symbol)
	}
	if got := res.FailedSymbols(); len(got) != 1 || got[0] != "BROKEN" {
		t.Errorf("FailedSymbols = %v", got)
	}
}

func TestFetchAll_RetriesTransientFailures(t *testing.T) {
	mock := &MockFetcher{
		Bars:  map[string][]model.Observation{"AAPL": GenerateBars("AAPL", 100, 5)},
		FailN: 2, // first two attempts fail, third succeeds
	}
	b := NewBatchFetcher(mock, testOptions())

	res := b.FetchAll(context.Background(), []string{"AAPL"}, WindowChange)

	if len(res.Errors) != 0 {
		t.Fatalf("expected retries to recover, got errors %v", res.Errors)
	}
	if mock.Calls["AAPL"] != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.Calls["AAPL"])
	}
}

func TestFetchAll_RetriesBounded(t *testing.T) {
	mock := &MockFetcher{FailN: 10}
	b := NewBatchFetcher(mock, testOptions())

	res := b.FetchAll(context.Background(), []string{"AAPL"}, WindowChange)

	if len(res.Errors) != 1 {
		t.Fatalf("expected a final failure, got %v", res.Errors)
	}
	if mock.Calls["AAPL"] != 3 { // 1 attempt + 2 retries
		t.Errorf("expected 3 attempts, got %d", mock.Calls["AAPL"])
	}
}

func TestFetchAll_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &MockFetcher{FailN: 10}
	b := NewBatchFetcher(mock, Options{MaxRetries: 5, BackoffBase: time.Minute, Concurrency: 1})

	done := make(chan *BatchResult, 1)
	go func() { done <- b.FetchAll(ctx, []string{"AAPL"}, WindowChange) }()

	select {
	case res := <-done:
		if len(res.Errors) != 1 {
			t.Errorf("expected the symbol to fail after cancellation, got %v", res.Errors)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not return after context cancellation")
	}
}
