package universe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// WikipediaSource scrapes the S&P 500 constituents table for
// (symbol, GICS sector) pairs.
type WikipediaSource struct {
	URL    string
	Client *http.Client
}

// NewWikipediaSource creates a scraper with optional proxy support.
func NewWikipediaSource(pageURL, proxyURL string) *WikipediaSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &WikipediaSource{
		URL: pageURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *WikipediaSource) Name() string { return "wikipedia" }

// Entries fetches the constituents page and parses the first column (symbol)
// and the GICS sector column of the constituents table.
func (s *WikipediaSource) Entries(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch universe: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse universe page: %w", err)
	}

	entries := parseConstituents(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no constituents found at %s", s.URL)
	}
	return entries, nil
}

func parseConstituents(doc *goquery.Document) []Entry {
	var entries []Entry
	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		// Older revisions of the page use an anonymous wikitable.
		table = doc.Find("table.wikitable").First()
	}
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return // header row
		}
		symbol := NormalizeSymbol(cells.Eq(0).Text())
		sector := strings.TrimSpace(cells.Eq(2).Text())
		if symbol == "" {
			return
		}
		entries = append(entries, Entry{Symbol: symbol, Sector: sector})
	})
	return entries
}
