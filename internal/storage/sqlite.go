package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// createdAtLayout is fixed width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps artifacts in a local SQLite database.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serialises writers.
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		entry_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		meta TEXT NOT NULL,
		pdf BLOB,
		png BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_created_at ON artifacts(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, a *Artifact) error {
	meta, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO artifacts (id, entry_id, created_at, meta, pdf, png)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = s.conn.ExecContext(ctx, query,
		a.ID,
		a.EntryID,
		a.CreatedAt.UTC().Format(createdAtLayout),
		string(meta),
		a.PDF,
		a.PNG,
	)
	if err != nil {
		return fmt.Errorf("inserting artifact: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Artifact, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT meta, pdf, png FROM artifacts WHERE id = ?`, id)
	return scanArtifact(row)
}

func (s *SQLiteStore) Latest(ctx context.Context) (*Artifact, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT meta, pdf, png FROM artifacts ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanArtifact(row)
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func scanArtifact(row *sql.Row) (*Artifact, error) {
	var meta string
	var a Artifact
	var pdf, png []byte
	if err := row.Scan(&meta, &pdf, &png); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying artifact: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	a.PDF = pdf
	a.PNG = png
	return &a, nil
}
