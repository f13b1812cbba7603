package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/usterk/amareth-calendar/internal/ephemeris"
)

// SQLiteStore persists ingress tables in a SQLite database, one row per
// ingress keyed by (year, position). It is the indexed alternative to
// the JSON FileStore for large pre-populated year ranges; the
// get-or-compute contract is identical.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// schemaSQL creates the ingress table. Idempotent, applied on every
// open.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS ingresses (
    year       INTEGER NOT NULL,
    position   INTEGER NOT NULL CHECK (position BETWEEN 0 AND 11),
    sign_index INTEGER NOT NULL,
    longitude  INTEGER NOT NULL,
    utc_iso    TEXT    NOT NULL,
    PRIMARY KEY (year, position)
);
`

// OpenSQLite opens (creating if needed) a SQLite-backed store.
//
// MaxOpenConns is 1: SQLite allows a single writer, and the tool is a
// single-threaded interactive process anyway. The DSN enables WAL mode
// and a busy timeout so a concurrent invocation waits briefly instead
// of failing outright.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ingress database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ingress database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ingress schema: %w", err)
	}

	logger.Debug("ingress database ready", slog.String("path", path))
	return &SQLiteStore{db: db, logger: logger}, nil
}

// GetYear implements Store.
func (s *SQLiteStore) GetYear(ctx context.Context, year int) (ephemeris.YearTable, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sign_index, longitude, utc_iso
		   FROM ingresses
		  WHERE year = ?
		  ORDER BY position`, year)
	if err != nil {
		return nil, false, fmt.Errorf("query ingresses for year %d: %w", year, err)
	}
	defer rows.Close()

	var entries []storedIngress
	for rows.Next() {
		var e storedIngress
		if err := rows.Scan(&e.SignIndex, &e.Longitude, &e.UTCISO); err != nil {
			return nil, false, fmt.Errorf("scan ingress row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate ingress rows: %w", err)
	}

	if len(entries) == 0 {
		return nil, false, nil
	}

	table, err := decodeTable(entries)
	if err != nil {
		return nil, false, fmt.Errorf("%w: year %d: %v", ErrCorrupt, year, err)
	}
	return table, true, nil
}

// PutYear implements Store. The year's rows are replaced in a single
// transaction so a table is never half-written.
func (s *SQLiteStore) PutYear(ctx context.Context, year int, table ephemeris.YearTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingress write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ingresses WHERE year = ?`, year); err != nil {
		return fmt.Errorf("clear ingresses for year %d: %w", year, err)
	}

	for i, in := range table {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO ingresses (year, position, sign_index, longitude, utc_iso)
			 VALUES (?, ?, ?, ?, ?)`,
			year, i, in.SignIndex, in.Longitude, in.At.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert ingress %d for year %d: %w", i, year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingress write: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
