package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"CoinPulse/internal/model"
)

// SQLiteStore persists observations and computed metrics to a SQLite
// database. Timestamps are stored as unix seconds.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database and runs migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads don't block collector writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Infof("sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prices (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol           TEXT NOT NULL,
			name             TEXT NOT NULL,
			price_usd        REAL NOT NULL,
			timestamp        INTEGER NOT NULL,
			market_cap       REAL,
			volume_24h       REAL,
			price_change_24h REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prices_symbol_time ON prices(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS analytics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol       TEXT NOT NULL,
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			time_period  TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			UNIQUE(symbol, metric_name, time_period, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_symbol_metric ON analytics(symbol, metric_name)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// InsertObservations appends a batch of readings in one transaction.
func (s *SQLiteStore) InsertObservations(obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO prices
		(symbol, name, price_usd, timestamp, market_cap, volume_24h, price_change_24h)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.Exec(o.Symbol, o.Name, o.Price, o.Timestamp.Unix(),
			nullable(o.MarketCap), nullable(o.Volume24h), nullable(o.Change24h)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", o.Symbol, err)
		}
	}
	return tx.Commit()
}

// Series returns one symbol's observations with since <= timestamp <= until,
// ordered ascending. Rows dated after `until` are excluded, which keeps the
// provider guarantee that the engine never sees future-dated data.
func (s *SQLiteStore) Series(symbol string, since, until time.Time) (model.Series, error) {
	rows, err := s.db.Query(`SELECT symbol, name, price_usd, timestamp, market_cap, volume_24h, price_change_24h
		FROM prices
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, id ASC`,
		symbol, since.Unix(), until.Unix())
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()
	return scanObservations(rows)
}

// Symbols lists every symbol with at least one reading.
func (s *SQLiteStore) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM prices ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// Latest returns the most recent observation for every symbol, largest
// market cap first.
func (s *SQLiteStore) Latest() ([]model.Observation, error) {
	rows, err := s.db.Query(`SELECT symbol, name, price_usd, timestamp, market_cap, volume_24h, price_change_24h
		FROM prices
		WHERE id IN (SELECT MAX(id) FROM prices GROUP BY symbol)
		ORDER BY market_cap DESC`)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	obs, err := scanObservations(rows)
	if err != nil {
		return nil, err
	}
	return []model.Observation(obs), nil
}

// WriteMetrics upserts the flattened report rows. The UNIQUE constraint on
// (symbol, metric_name, time_period, timestamp) makes a refresh at the same
// instant idempotent.
func (s *SQLiteStore) WriteMetrics(symbol string, records []model.MetricRecord, at time.Time) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO analytics
		(symbol, metric_name, metric_value, time_period, timestamp)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(symbol, rec.Name, rec.Value, rec.PeriodTag, at.Unix()); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert %s/%s: %w", symbol, rec.Name, err)
		}
	}
	return tx.Commit()
}

// RecentMetrics reads back the newest persisted metrics for one symbol.
func (s *SQLiteStore) RecentMetrics(symbol string, limit int) ([]MetricRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT symbol, metric_name, metric_value, time_period, timestamp
		FROM analytics
		WHERE symbol = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var out []MetricRow
	for rows.Next() {
		var row MetricRow
		var ts int64
		if err := rows.Scan(&row.Symbol, &row.Name, &row.Value, &row.PeriodTag, &ts); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		row.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	logrus.Info("closing sqlite store")
	return s.db.Close()
}

func scanObservations(rows *sql.Rows) (model.Series, error) {
	var series model.Series
	for rows.Next() {
		var (
			o                 model.Observation
			ts                int64
			mcap, vol, change sql.NullFloat64
		)
		if err := rows.Scan(&o.Symbol, &o.Name, &o.Price, &ts, &mcap, &vol, &change); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Timestamp = time.Unix(ts, 0).UTC()
		o.MarketCap = fromNull(mcap)
		o.Volume24h = fromNull(vol)
		o.Change24h = fromNull(change)
		series = append(series, o)
	}
	return series, rows.Err()
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
