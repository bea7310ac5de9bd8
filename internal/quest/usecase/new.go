package usecase

import (
	"context"
	"time"

	"questboard/internal/model"
	"questboard/pkg/gcalendar"
	pkgLog "questboard/pkg/log"
)

// SessionRunner dispatches an operation onto a session's actor. Satisfied by
// *session.Registry.
type SessionRunner interface {
	Update(ctx context.Context, key string, fn func(ctx context.Context, st *model.SessionState) error) error
	Read(ctx context.Context, key string, fn func(ctx context.Context, st *model.SessionState) error) error
}

// CalendarClient mirrors created quests into an external calendar.
type CalendarClient interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// Config bounds validation for quest creation.
type Config struct {
	NameMaxLen        int
	DescriptionMaxLen int
	CalendarID        string
}

type implUseCase struct {
	l        pkgLog.Logger
	sessions SessionRunner
	calendar CalendarClient // nil when calendar mirroring is not configured
	cfg      Config
	now      func() time.Time
}

// New creates a new quest UseCase instance.
func New(l pkgLog.Logger, sessions SessionRunner, calendar CalendarClient, cfg Config) *implUseCase {
	if cfg.NameMaxLen <= 0 {
		cfg.NameMaxLen = 200
	}
	if cfg.DescriptionMaxLen <= 0 {
		cfg.DescriptionMaxLen = 2000
	}
	return &implUseCase{
		l:        l,
		sessions: sessions,
		calendar: calendar,
		cfg:      cfg,
		now:      time.Now,
	}
}
