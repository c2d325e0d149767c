package enrich

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"admitcast/internal/college"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS college_patches (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);`

// SQLiteCache persists patches in a local SQLite file.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

var _ Cache = (*SQLiteCache)(nil)

// OpenSQLiteCache opens (and creates if needed) the cache database.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteCache{db: db, now: time.Now}, nil
}

// Get implements Cache.
func (s *SQLiteCache) Get(ctx context.Context, name string) (*college.Patch, bool, error) {
	var payload string
	var expires int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM college_patches WHERE name = ?`, cacheKey(name),
	).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query patch: %w", err)
	}
	if expires > 0 && s.now().UnixMilli() >= expires {
		return nil, false, nil
	}

	patch, err := decodePatch([]byte(payload))
	if err != nil {
		return nil, false, err
	}
	return patch, true, nil
}

// Put implements Cache. A zero ttl stores the entry without expiry.
func (s *SQLiteCache) Put(ctx context.Context, name string, patch college.Patch, ttl time.Duration) error {
	data, err := encodePatch(patch)
	if err != nil {
		return err
	}
	now := s.now()
	var expires int64
	if ttl > 0 {
		expires = now.Add(ttl).UnixMilli()
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO college_patches (name, payload, fetched_at, expires_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload,
	fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		cacheKey(name), string(data), now.UnixMilli(), expires)
	if err != nil {
		return fmt.Errorf("store patch: %w", err)
	}
	return nil
}

// Close closes the SQLite handle.
func (s *SQLiteCache) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
