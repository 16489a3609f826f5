package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
	"MarketLens/internal/price"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists bars and snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers are not blocked while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithFields(map[string]any{"path": dbPath}).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			high   REAL,
			low    REAL,
			close  REAL,
			volume REAL,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			collected_at INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			source       TEXT,
			as_of        TEXT,
			bars         INTEGER,
			close        REAL,
			volume       REAL,
			sma          REAL,
			ema          REAL,
			rsi          REAL,
			weekly_rsi   REAL,
			atr          REAL,
			stddev       REAL,
			stoch_k      REAL,
			momentum     REAL,
			range_high   REAL,
			range_low    REAL,
			position     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON snapshots(symbol, as_of)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBars upserts bars keyed by (symbol, date).
func (r *SQLiteRecorder) RecordBars(symbol string, bars price.Series) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO bars (symbol, date, high, low, close, volume)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(symbol, b.Date, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar %s: %w", b.Date, err)
		}
	}
	return tx.Commit()
}

// LoadBars returns the stored bars for symbol dated on or after from, oldest first.
func (r *SQLiteRecorder) LoadBars(symbol, from string) (price.Series, error) {
	rows, err := r.db.Query(`SELECT date, high, low, close, volume FROM bars
		WHERE symbol = ? AND date >= ? ORDER BY date`, symbol, from)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out price.Series
	for rows.Next() {
		var p price.Price
		if err := rows.Scan(&p.Date, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO snapshots
		(run_id, collected_at, symbol, source, as_of, bars, close, volume,
		 sma, ema, rsi, weekly_rsi, atr, stddev, stoch_k, momentum,
		 range_high, range_low, position)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.CollectedAt.Unix(), snap.Symbol, snap.Source, snap.AsOf, snap.Bars,
		snap.Close, snap.Volume, snap.SMA, snap.EMA, snap.RSI, snap.WeeklyRSI,
		snap.ATR, snap.StdDev, snap.StochK, snap.Momentum,
		snap.RangeHigh, snap.RangeLow, snap.Position,
	)
	return err
}

// LatestSnapshot returns the newest snapshot recorded for symbol, or nil.
func (r *SQLiteRecorder) LatestSnapshot(symbol string) (*model.Snapshot, error) {
	row := r.db.QueryRow(`SELECT run_id, symbol, source, as_of, bars, close, volume,
		sma, ema, rsi, weekly_rsi, atr, stddev, stoch_k, momentum,
		range_high, range_low, position
		FROM snapshots WHERE symbol = ? ORDER BY id DESC LIMIT 1`, symbol)

	var s model.Snapshot
	err := row.Scan(&s.RunID, &s.Symbol, &s.Source, &s.AsOf, &s.Bars, &s.Close, &s.Volume,
		&s.SMA, &s.EMA, &s.RSI, &s.WeeklyRSI, &s.ATR, &s.StdDev, &s.StochK, &s.Momentum,
		&s.RangeHigh, &s.RangeLow, &s.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
