package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// PostgresStore persists observations to a PostgreSQL warehouse.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects with the given DSN and runs migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres store connected")
	return s, nil
}

func (s *PostgresStore) migrate() error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS stock_data (
			ticker      TEXT NOT NULL,
			date        TIMESTAMPTZ NOT NULL,
			close_price DOUBLE PRECISION NOT NULL,
			volume      BIGINT NOT NULL,
			sector      TEXT,
			PRIMARY KEY (ticker, date)
		)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create stock_data: %w", err)
	}
	return nil
}

// Upsert inserts one observation; a conflicting (ticker, date) row makes the
// call a no-op and returns false.
func (s *PostgresStore) Upsert(ctx context.Context, obs model.Observation) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stock_data (ticker, date, close_price, volume, sector)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (ticker, date) DO NOTHING`,
		obs.Symbol, obs.Timestamp.UTC(), obs.ClosePrice, obs.Volume, pqNullable(obs.Sector),
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

func (s *PostgresStore) ReadAll(ctx context.Context) ([]model.Observation, error) {
	return s.query(ctx,
		`SELECT ticker, date, close_price, volume, COALESCE(sector, '') AS sector
		 FROM stock_data ORDER BY date, ticker`)
}

func (s *PostgresStore) ReadWindow(ctx context.Context, start, end time.Time) ([]model.Observation, error) {
	return s.query(ctx,
		`SELECT ticker, date, close_price, volume, COALESCE(sector, '') AS sector
		 FROM stock_data WHERE date >= $1 AND date <= $2 ORDER BY date, ticker`,
		start.UTC(), end.UTC())
}

func (s *PostgresStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Observation, error) {
	var obs []model.Observation
	if err := s.db.SelectContext(ctx, &obs, q, args...); err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	for i := range obs {
		obs[i].Timestamp = obs[i].Timestamp.UTC()
	}
	return obs, nil
}

func (s *PostgresStore) Close() error {
	log.Println("[INFO] closing postgres store")
	return s.db.Close()
}

func pqNullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
