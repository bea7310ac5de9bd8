package quest

import (
	"context"

	"questboard/internal/model"
)

// UseCase is the task lifecycle manager: every mutation of a session's quest
// ledger goes through here, serialized by the session actor underneath.
type UseCase interface {
	// Create validates input, stores a new quest and re-arms the expiry alarm.
	Create(ctx context.Context, sc model.Scope, input CreateInput) (model.Task, error)

	// View returns the live quests in insertion order. No side effects.
	View(ctx context.Context, sc model.Scope) ([]model.Task, error)

	// Update replaces a quest's end time and re-arms the expiry alarm.
	Update(ctx context.Context, sc model.Scope, input UpdateInput) (model.Task, error)

	// Delete removes a quest, with finish (XP/streak/history) or abandon
	// semantics depending on input.AddXP.
	Delete(ctx context.Context, sc model.Scope, input DeleteInput) error

	// Snapshot returns the session summary for the plain GET surface.
	Snapshot(ctx context.Context, sc model.Scope) (Snapshot, error)

	// History returns completed quests plus statistics computed on demand.
	History(ctx context.Context, sc model.Scope) (HistoryOutput, error)

	// EnsureTimezone persists tz for the session if none is stored yet.
	// First non-empty value wins; later values are ignored.
	EnsureTimezone(ctx context.Context, sc model.Scope, tz string) error

	// CurrentTime renders now for the session: local time annotated with the
	// stored timezone name, or ISO-8601 UTC when none is stored.
	CurrentTime(ctx context.Context, sc model.Scope) (string, error)
}
