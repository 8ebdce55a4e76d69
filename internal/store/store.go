// Package store persists a run ledger of submitted batches in a local
// SQLite database. Every submission outcome is recorded so partially
// settled runs can be audited after the fact.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dusk-network/xsc-governance/internal/settle"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT    NOT NULL,
	security    TEXT    NOT NULL,
	kind        INTEGER NOT NULL,
	seed        TEXT    NOT NULL,
	tx_id       TEXT    NOT NULL,
	status      TEXT    NOT NULL,
	error       TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_batches_recorded_at ON batches (recorded_at);
`

// Entry is one persisted batch outcome.
type Entry struct {
	ID         int64
	RecordedAt time.Time
	Security   string
	Kind       byte
	Seed       string
	TxID       string
	Status     string
	Error      string
}

// Store is a SQLite-backed batch ledger. It implements settle.Journal.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends a batch outcome to the ledger.
func (s *Store) Record(ctx context.Context, res settle.BatchResult) error {
	var errText string
	if res.Err != nil {
		errText = res.Err.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (recorded_at, security, kind, seed, tx_id, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		res.Security.String(),
		int(res.Kind),
		hex.EncodeToString(res.Seed[:]),
		res.TxID,
		res.Status.String(),
		errText,
	)
	if err != nil {
		return fmt.Errorf("record batch: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recorded_at, security, kind, seed, tx_id, status, error
		 FROM batches ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ts string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Security, &e.Kind, &e.Seed, &e.TxID, &e.Status, &e.Error); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse ledger timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return entries, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
