// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records the outcome of every dispatched identifier in a
// SQLite database so past runs can be reviewed.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultLimit = 50

// Entry is one dispatch outcome.
type Entry struct {
	RunID    string
	ArxivID  string
	Title    string
	Filename string
	Path     string
	Status   string
	Error    string
	At       time.Time
}

// Store manages the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dispatches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			arxiv_id TEXT NOT NULL,
			title TEXT,
			filename TEXT,
			path TEXT,
			status TEXT NOT NULL,
			error TEXT,
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dispatches_arxiv_id ON dispatches(arxiv_id)`,
		`CREATE INDEX IF NOT EXISTS idx_dispatches_run_id ON dispatches(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends e. A zero At is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dispatches (run_id, arxiv_id, title, filename, path, status, error, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.ArxivID, e.Title, e.Filename, e.Path, e.Status, e.Error,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.ArxivID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-empty arxivID
// restricts the result to that identifier.
func (s *Store) Recent(ctx context.Context, limit int, arxivID string) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `SELECT run_id, arxiv_id, title, filename, path, status, error, at FROM dispatches`
	args := []any{}
	if arxivID != "" {
		query += ` WHERE arxiv_id = ?`
		args = append(args, arxivID)
	}
	query += ` ORDER BY rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, filename, path, errText sql.NullString
		var at string
		if err := rows.Scan(&e.RunID, &e.ArxivID, &title, &filename, &path, &e.Status, &errText, &at); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		e.Title = title.String
		e.Filename = filename.String
		e.Path = path.String
		e.Error = errText.String
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
