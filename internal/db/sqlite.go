// Package db opens the console's local sqlite state database.
package db

import (
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// Open opens the sqlite database at path. Caller must call Close when done.
// Schema is managed by the migrate package; Open does not create tables.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; serialise through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// DSN returns the golang-migrate URL for the sqlite file at path.
func DSN(path string) string {
	return "sqlite://" + strings.TrimPrefix(path, "sqlite://")
}
