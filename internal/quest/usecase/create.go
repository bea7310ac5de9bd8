package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"questboard/internal/model"
	"questboard/internal/quest"
	"questboard/pkg/gcalendar"
)

// Create validates input, mirrors the quest to the calendar when configured,
// then appends it to the session ledger. The actor re-arms the expiry alarm
// after the append.
func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input quest.CreateInput) (model.Task, error) {
	start, end, err := uc.validateCreate(input)
	if err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		StartTime:   start,
		EndTime:     end,
		XP:          input.XP,
	}

	t.CalendarLink = uc.tryMirrorToCalendar(ctx, sc, t)

	err = uc.sessions.Update(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		st.Tasks = append(st.Tasks, t)
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}

	uc.l.Infof(ctx, "Create: session=%s task=%s xp=%d", sc.SessionKey, t.ID, t.XP)
	return t, nil
}

// tryMirrorToCalendar creates a calendar event for the quest window. Returns
// the event link, or empty string on failure (graceful degradation).
func (uc *implUseCase) tryMirrorToCalendar(ctx context.Context, sc model.Scope, t model.Task) string {
	if uc.calendar == nil {
		return ""
	}

	calendarID := uc.cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  calendarID,
		Summary:     t.Name,
		Description: t.Description,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
	})
	if err != nil {
		uc.l.Warnf(ctx, "Create: calendar mirror failed for %q (non-fatal): %v", t.Name, err)
		return ""
	}

	return event.HtmlLink
}
