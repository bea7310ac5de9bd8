package repository

import (
	"context"

	"questboard/internal/model"
)

// Repository persists session state, one record per session key. The session
// actor is the only writer for a given key, so implementations do not need
// per-key locking.
type Repository interface {
	// Load returns the stored state for key. found is false when the session
	// has never been saved.
	Load(ctx context.Context, key string) (st model.SessionState, found bool, err error)

	// Save upserts the state for key.
	Save(ctx context.Context, key string, st model.SessionState) error
}
