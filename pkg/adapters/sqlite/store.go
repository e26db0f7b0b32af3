// Package sqlite provides a SQLite-backed ports.StorageBackend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store persists records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite store at the given path and ensures the schema.
// Pass ":memory:" for an in-memory database (tests).
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Set persists the bytes, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// Get retrieves the bytes stored under a key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM interactions WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInteractionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}
	return data, nil
}

// Delete removes a key. Absent keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM interactions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Keys lists stored keys with the given prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	// substr instead of LIKE: keys contain underscores, which LIKE treats as
	// a wildcard.
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM interactions WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan record key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record keys: %w", err)
	}
	return keys, nil
}
