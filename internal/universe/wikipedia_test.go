package universe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const constituentsFixture = `<html><body>
<table id="constituents" class="wikitable">
<tbody>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th></tr>
<tr><td>AAPL</td><td>Apple Inc.</td><td>Information Technology</td><td>Technology Hardware</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td><td>Financials</td><td>Multi-Sector Holdings</td></tr>
<tr><td>XOM</td><td>Exxon Mobil</td><td>Energy</td><td>Integrated Oil</td></tr>
</tbody>
</table>
</body></html>`

func TestWikipediaSource_Entries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(constituentsFixture))
	}))
	defer srv.Close()

	src := NewWikipediaSource(srv.URL, "")
	entries, err := src.Entries(context.Background())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Symbol != "AAPL" || entries[0].Sector != "Information Technology" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	// Dots become dashes for Yahoo compatibility.
	if entries[1].Symbol != "BRK-B" {
		t.Errorf("expected BRK-B, got %s", entries[1].Symbol)
	}
}

func TestWikipediaSource_EmptyTableIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><p>moved</p></body></html>`))
	}))
	defer srv.Close()

	src := NewWikipediaSource(srv.URL, "")
	if _, err := src.Entries(context.Background()); err == nil {
		t.Fatal("expected error for page without constituents table")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"BRK.B", "BRK-B"},
		{" AAPL ", "AAPL"},
		{"BF.B", "BF-B"},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in); got != tt.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
