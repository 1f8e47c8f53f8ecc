package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the SQLite-backed render cache.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		output_path TEXT NOT NULL,
		rendered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := s.db.Exec(query)
	return err
}

// LastHash returns the content hash recorded for a source path, or "" if
// the path has never been rendered.
func (s *SQLiteStore) LastHash(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM documents WHERE path = ?`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// Record upserts the rendered state for a source path.
func (s *SQLiteStore) Record(ctx context.Context, path, hash, outputPath string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (path, content_hash, output_path, rendered_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			output_path = excluded.output_path,
			rendered_at = CURRENT_TIMESTAMP`,
		path, hash, outputPath)
	return err
}

// Forget drops the cache entry for a source path.
func (s *SQLiteStore) Forget(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path)
	return err
}

var _ RenderCache = (*SQLiteStore)(nil)
