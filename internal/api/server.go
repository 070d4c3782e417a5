package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
	"github.com/Ritu28-coder/stock-dashboard/internal/ranker"
	"github.com/Ritu28-coder/stock-dashboard/internal/store"
	"github.com/Ritu28-coder/stock-dashboard/internal/view"
)

// defaultLookback mirrors the dashboard's default 14-day query window.
const defaultLookback = 14 * 24 * time.Hour

// Server exposes the filter/aggregation engine over HTTP for the dashboard.
type Server struct {
	store store.Store
	now   func() time.Time
}

// NewServer creates an API server over the given store.
func NewServer(s store.Store) *Server {
	return &Server{store: s, now: time.Now}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.getHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/stocks", s.getStocks).Methods(http.MethodGet)
	r.HandleFunc("/api/stocks/volume", s.getTopVolume).Methods(http.MethodGet)
	r.HandleFunc("/api/stocks/movers", s.getMovers).Methods(http.MethodGet)
	r.HandleFunc("/api/stocks/sectors", s.getSectorVolume).Methods(http.MethodGet)
	r.HandleFunc("/api/stocks/{symbol}/summary", s.getSummary).Methods(http.MethodGet)
	return r
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getStocks returns the filtered rows (the Selected view).
func (s *Server) getStocks(w http.ResponseWriter, r *http.Request) {
	views, ok := s.applyCriteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(views.Selected),
		"rows":  views.Selected,
	})
}

// getTopVolume returns the top-K volume ranking over the Windowed view.
func (s *Server) getTopVolume(w http.ResponseWriter, r *http.Request) {
	views, ok := s.applyCriteria(w, r)
	if !ok {
		return
	}
	k := intParam(r, "k", 10)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ranking": view.TopVolume(views.Windowed, k),
	})
}

// getMovers returns the top-K gainers and losers over the Windowed view.
func (s *Server) getMovers(w http.ResponseWriter, r *http.Request) {
	views, ok := s.applyCriteria(w, r)
	if !ok {
		return
	}
	k := intParam(r, "k", ranker.DefaultTopN)
	gainers, losers := view.Movers(views.Windowed, k)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gainers": gainers,
		"losers":  losers,
	})
}

// getSectorVolume returns the volume-by-sector distribution over the
// Windowed view.
func (s *Server) getSectorVolume(w http.ResponseWriter, r *http.Request) {
	views, ok := s.applyCriteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sectors": view.VolumeBySector(views.Windowed),
	})
}

// getSummary returns per-symbol metrics over the Selected view.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	views, ok := s.applyCriteria(w, r)
	if !ok {
		return
	}
	symbol := mux.Vars(r)["symbol"]
	summary, err := view.Summarize(views.Selected, symbol)
	if err != nil {
		if errors.Is(err, view.ErrInsufficientData) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// applyCriteria loads the table slice for the requested window and runs the
// filter engine. It writes the error response itself and reports success.
func (s *Server) applyCriteria(w http.ResponseWriter, r *http.Request) (*view.Views, bool) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	table, err := s.readTable(r, criteria)
	if err != nil {
		log.Printf("[ERROR] read observations: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("store unavailable"))
		return nil, false
	}

	views, err := view.Apply(table, criteria)
	if err != nil {
		// Criteria are validated before the read, so only programming errors
		// land here.
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return views, true
}

func (s *Server) readTable(r *http.Request, c view.Criteria) ([]model.Observation, error) {
	start, end := c.Start, c.End
	if start.IsZero() && end.IsZero() {
		return s.store.ReadWindow(r.Context(), s.now().Add(-defaultLookback), s.now())
	}
	if start.IsZero() || end.IsZero() {
		return s.store.ReadAll(r.Context())
	}
	return s.store.ReadWindow(r.Context(), start, end)
}

func parseCriteria(r *http.Request) (view.Criteria, error) {
	q := r.URL.Query()
	c := view.Criteria{Sector: q.Get("sector")}

	var err error
	if c.Start, err = parseDate(q.Get("start")); err != nil {
		return c, err
	}
	if c.End, err = parseDate(q.Get("end")); err != nil {
		return c, err
	}
	if v := q.Get("min_price"); v != "" {
		if c.MinPrice, err = strconv.ParseFloat(v, 64); err != nil {
			return c, errors.New("min_price must be a number")
		}
	}
	if v := q.Get("max_price"); v != "" {
		if c.MaxPrice, err = strconv.ParseFloat(v, 64); err != nil {
			return c, errors.New("max_price must be a number")
		}
	}
	if v := q.Get("symbols"); v != "" {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Symbols = append(c.Symbols, part)
			}
		}
	}
	return c, c.Validate()
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC 3339")
}

func intParam(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
