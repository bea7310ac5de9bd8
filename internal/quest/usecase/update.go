package usecase

import (
	"context"
	"time"

	"questboard/internal/model"
	"questboard/internal/quest"
)

// Update replaces a quest's end time. The new deadline is not checked against
// startTime: extension past any point is how snooze is implemented upstream.
func (uc *implUseCase) Update(ctx context.Context, sc model.Scope, input quest.UpdateInput) (model.Task, error) {
	var newEnd time.Time
	if input.NewEndTime != "" {
		parsed, err := time.Parse(time.RFC3339, input.NewEndTime)
		if err != nil {
			return model.Task{}, &quest.ValidationError{
				Violations: []string{"newEndTime is not a valid RFC3339 timestamp"},
			}
		}
		newEnd = parsed
	}

	var updated model.Task
	err := uc.sessions.Update(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		i := st.FindTask(input.TaskID)
		if i < 0 {
			return quest.ErrTaskNotFound
		}
		if !newEnd.IsZero() {
			st.Tasks[i].EndTime = newEnd
		}
		updated = st.Tasks[i]
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}

	uc.l.Infof(ctx, "Update: session=%s task=%s newEnd=%s", sc.SessionKey, input.TaskID, input.NewEndTime)
	return updated, nil
}
