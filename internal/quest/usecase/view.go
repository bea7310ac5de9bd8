package usecase

import (
	"context"

	"questboard/internal/model"
	"questboard/internal/quest"
)

// View returns the live quests in insertion order.
func (uc *implUseCase) View(ctx context.Context, sc model.Scope) ([]model.Task, error) {
	var tasks []model.Task
	err := uc.sessions.Read(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		tasks = append([]model.Task(nil), st.Tasks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Snapshot returns the session summary for the plain GET surface.
func (uc *implUseCase) Snapshot(ctx context.Context, sc model.Scope) (quest.Snapshot, error) {
	var snap quest.Snapshot
	err := uc.sessions.Read(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		snap = quest.Snapshot{
			Tasks:              append([]model.Task(nil), st.Tasks...),
			TotalXP:            st.TotalXP,
			CurrentStreak:      st.CurrentStreak,
			LongestStreak:      st.LongestStreak,
			LastCompletionDate: st.LastCompletionDate,
		}
		return nil
	})
	if err != nil {
		return quest.Snapshot{}, err
	}
	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}
	return snap, nil
}
