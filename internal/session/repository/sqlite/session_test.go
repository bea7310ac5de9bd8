package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"questboard/internal/model"
	"questboard/internal/session/repository/sqlite"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, args ...any)                  {}
func (nopLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Info(ctx context.Context, args ...any)                   {}
func (nopLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Warn(ctx context.Context, args ...any)                   {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Error(ctx context.Context, args ...any)                  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) DPanic(ctx context.Context, args ...any)                 {}
func (nopLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (nopLogger) Panic(ctx context.Context, args ...any)                  {}
func (nopLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Fatal(ctx context.Context, args ...any)                  {}
func (nopLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

func TestLoadMissingSession(t *testing.T) {
	repo, err := sqlite.New(nopLogger{}, filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	_, found, err := repo.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("expected found=false for unknown key")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo, err := sqlite.New(nopLogger{}, filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	end := time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)
	st := model.SessionState{
		Tasks: []model.Task{
			{ID: "t1", Name: "Slay inbox", Description: "zero it", StartTime: end.Add(-time.Hour), EndTime: end, XP: 50},
		},
		Timezone:           "Europe/Berlin",
		TotalXP:            120,
		CurrentStreak:      3,
		LongestStreak:      5,
		LastCompletionDate: "2025-06-02",
	}

	if err := repo.Save(ctx, "alice", st); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := repo.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected session to exist")
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "t1" {
		t.Errorf("tasks did not round-trip: %+v", got.Tasks)
	}
	if !got.Tasks[0].EndTime.Equal(end) {
		t.Errorf("endTime mismatch: %v", got.Tasks[0].EndTime)
	}
	if got.TotalXP != 120 || got.CurrentStreak != 3 || got.LongestStreak != 5 {
		t.Errorf("counters did not round-trip: %+v", got)
	}

	// Upsert overwrites.
	st.TotalXP = 175
	if err := repo.Save(ctx, "alice", st); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, _, err = repo.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TotalXP != 175 {
		t.Errorf("expected updated TotalXP 175, got %d", got.TotalXP)
	}
}
