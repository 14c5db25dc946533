package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"krishi-route/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "krishiroute.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "krishiroute.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	path := dbPath()
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS fuel_price (
				id           INTEGER PRIMARY KEY CHECK (id = 1),
				price        REAL NOT NULL,
				last_updated TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS optimize_history (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				request_id  TEXT NOT NULL,
				timestamp   TEXT NOT NULL,
				crop        TEXT NOT NULL,
				quantity    INTEGER NOT NULL,
				vehicle     TEXT NOT NULL,
				count       INTEGER NOT NULL,
				best_mandi  TEXT NOT NULL,
				best_profit REAL NOT NULL,
				duration_ms INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_optimize_history_ts ON optimize_history(timestamp);

			CREATE TABLE IF NOT EXISTS mandi_results (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id         INTEGER NOT NULL REFERENCES optimize_history(id),
				mandi_name     TEXT,
				distance_km    REAL,
				price          REAL,
				revenue        REAL,
				transport_cost REAL,
				handling_cost  REAL,
				net_profit     REAL,
				is_fallback    INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_mandi_results_run ON mandi_results(run_id);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}
	return nil
}
