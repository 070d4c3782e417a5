package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// SQLiteStore persists observations to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the dashboard can read while the ingestor writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_data (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker      TEXT NOT NULL,
			date        INTEGER NOT NULL,
			close_price REAL NOT NULL,
			volume      INTEGER NOT NULL,
			sector      TEXT,
			UNIQUE(ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_date ON stock_data(date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Upsert inserts one observation; an existing (ticker, date) row makes the
// call a no-op and returns false.
func (s *SQLiteStore) Upsert(ctx context.Context, obs model.Observation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO stock_data (ticker, date, close_price, volume, sector)
		 VALUES (?, ?, ?, ?, ?)`,
		obs.Symbol, obs.Timestamp.UTC().Unix(), obs.ClosePrice, obs.Volume, nullable(obs.Sector),
	)
	if err != nil {
		return false, fmt.Errorf("insert %s: %w", obs.Symbol, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]model.Observation, error) {
	return s.query(ctx,
		`SELECT ticker, date, close_price, volume, COALESCE(sector, '')
		 FROM stock_data ORDER BY date, ticker`)
}

func (s *SQLiteStore) ReadWindow(ctx context.Context, start, end time.Time) ([]model.Observation, error) {
	return s.query(ctx,
		`SELECT ticker, date, close_price, volume, COALESCE(sector, '')
		 FROM stock_data WHERE date >= ? AND date <= ? ORDER BY date, ticker`,
		start.UTC().Unix(), end.UTC().Unix())
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Observation, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var obs []model.Observation
	for rows.Next() {
		var o model.Observation
		var ts int64
		if err := rows.Scan(&o.Symbol, &ts, &o.ClosePrice, &o.Volume, &o.Sector); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Timestamp = time.Unix(ts, 0).UTC()
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
