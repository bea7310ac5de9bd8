package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"questboard/internal/model"
)

// Load implements repository.Repository.
func (r *implRepository) Load(ctx context.Context, key string) (model.SessionState, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM sessions WHERE session_key = ?`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SessionState{}, false, nil
	}
	if err != nil {
		return model.SessionState{}, false, fmt.Errorf("failed to load session %q: %w", key, err)
	}

	var st model.SessionState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return model.SessionState{}, false, fmt.Errorf("corrupt session state for %q: %w", key, err)
	}

	return st, true, nil
}

// Save implements repository.Repository.
func (r *implRepository) Save(ctx context.Context, key string, st model.SessionState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (session_key, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %q: %w", key, err)
	}

	return nil
}
