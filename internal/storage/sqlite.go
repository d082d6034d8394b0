package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admin-console/desktop/internal/db"
	"admin-console/desktop/internal/db/migrate"
)

// SQLiteKV stores entries in the kv_entries table of the local sqlite state database.
type SQLiteKV struct {
	db   *sql.DB
	nowF func() time.Time
}

// NewSQLiteKV wraps an already-migrated database.
func NewSQLiteKV(conn *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: conn, nowF: time.Now}
}

// OpenSQLite migrates the database at path and returns a KV over it. Close releases the connection.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if err := migrate.Run(path, "up"); err != nil {
		return nil, err
	}
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteKV(conn), nil
}

// Get returns the value for key.
func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set upserts value for key.
func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.nowF().UTC().Format(time.RFC3339Nano))
	return err
}

// Delete removes key.
func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
