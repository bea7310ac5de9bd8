package quest

import "questboard/internal/model"

// XP bounds for a single quest.
const (
	XPMin = 1
	XPMax = 10000
)

// CreateInput carries raw creation parameters. Times arrive as RFC3339
// strings from both the direct HTTP surface and the agent tool; validation is
// the single shared gate for every entry point.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	XP          int    `json:"xp"`
}

// UpdateInput extends or shortens a quest's deadline. NewEndTime is optional;
// empty means no change. Ordering against StartTime is deliberately not
// re-checked: deadline extension is how snooze works.
type UpdateInput struct {
	TaskID     string `json:"taskId"`
	NewEndTime string `json:"newEndTime,omitempty"`
}

// DeleteInput removes a quest. AddXP=true is "finish": XP, streak and history
// side effects. AddXP=false is "abandon": removal only.
type DeleteInput struct {
	TaskID string `json:"taskId"`
	AddXP  bool   `json:"addXP"`
}

// Snapshot is the session summary returned by the plain GET surface.
type Snapshot struct {
	Tasks              []model.Task `json:"tasks"`
	TotalXP            int          `json:"totalXP"`
	CurrentStreak      int          `json:"currentStreak"`
	LongestStreak      int          `json:"longestStreak"`
	LastCompletionDate string       `json:"lastCompletionDate,omitempty"`
}

// HistoryOutput is the completed-quest ledger plus on-demand statistics.
type HistoryOutput struct {
	CompletedQuests []model.CompletedQuest `json:"completedQuests"`
	Statistics      model.Statistics       `json:"statistics"`
}
