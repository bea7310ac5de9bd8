// Package sqlite stores session state in a local SQLite database, one JSON
// blob per session key.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"questboard/pkg/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_key TEXT PRIMARY KEY,
	state       TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);`

type implRepository struct {
	l  log.Logger
	db *sql.DB
}

// New opens (creating if needed) the session database at path.
// Use ":memory:" for an ephemeral store.
func New(l log.Logger, path string) (*implRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	// The actor layer serializes access per key; a single connection keeps
	// SQLite happy under concurrent sessions.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &implRepository{l: l, db: db}, nil
}

// Close releases the underlying database handle.
func (r *implRepository) Close() error {
	return r.db.Close()
}
