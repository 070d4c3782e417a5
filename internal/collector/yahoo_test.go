package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const chartFixture = `{
	"chart": {
		"result": [{
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {
				"quote": [{
					"close": [185.64, null, 184.25],
					"volume": [82488700, null, 58414500]
				}]
			}
		}],
		"error": null
	}
}`

func newTestYahoo(handler http.HandlerFunc) (*YahooFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f, srv
}

func TestYahooFetchBars(t *testing.T) {
	f, srv := newTestYahoo(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") != "1d" || r.URL.Query().Get("range") != "2d" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(chartFixture))
	})
	defer srv.Close()

	bars, err := f.FetchBars(context.Background(), "AAPL", WindowChange)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// Null middle bar is skipped.
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].ClosePrice != 185.64 || bars[0].Volume != 82488700 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Error("bars not ascending by timestamp")
	}
}

func TestYahooFetchBars_DotSymbolNormalized(t *testing.T) {
	var gotPath string
	f, srv := newTestYahoo(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chartFixture))
	})
	defer srv.Close()

	if _, err := f.FetchBars(context.Background(), "BRK.B", WindowChange); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/v8/finance/chart/BRK-B" {
		t.Errorf("expected normalized symbol in path, got %s", gotPath)
	}
}

func TestYahooFetchBars_EmptyIsProviderError(t *testing.T) {
	f, srv := newTestYahoo(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})
	defer srv.Close()

	_, err := f.FetchBars(context.Background(), "AAPL", WindowChange)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", pe.Err)
	}
}

func TestYahooFetchBars_HTTPErrorIsProviderError(t *testing.T) {
	f, srv := newTestYahoo(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := f.FetchBars(context.Background(), "AAPL", WindowChange)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if pe.Symbol != "AAPL" || pe.Source != "yahoo" {
		t.Errorf("unexpected provider error fields: %+v", pe)
	}
}
