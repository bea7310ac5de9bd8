package usecase

import (
	"context"
	"fmt"
	"time"

	"questboard/internal/model"
)

// EnsureTimezone stores tz for the session if none is stored yet; the first
// non-empty value wins and later values are ignored. Unknown zone names are
// rejected silently so one bad header cannot poison the session.
func (uc *implUseCase) EnsureTimezone(ctx context.Context, sc model.Scope, tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		uc.l.Warnf(ctx, "EnsureTimezone: ignoring unknown timezone %q: %v", tz, err)
		return nil
	}

	return uc.sessions.Update(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		if st.Timezone == "" {
			st.Timezone = tz
		}
		return nil
	})
}

// CurrentTime renders now for the session: localized and annotated with the
// stored zone name when one exists, ISO-8601 UTC otherwise.
func (uc *implUseCase) CurrentTime(ctx context.Context, sc model.Scope) (string, error) {
	var tz string
	err := uc.sessions.Read(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		tz = st.Timezone
		return nil
	})
	if err != nil {
		return "", err
	}

	now := uc.now()
	if tz == "" {
		return now.UTC().Format(time.RFC3339), nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return now.UTC().Format(time.RFC3339), nil
	}
	return fmt.Sprintf("%s (%s)", now.In(loc).Format(time.RFC3339), tz), nil
}
