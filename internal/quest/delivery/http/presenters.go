package http

import (
	"encoding/json"
	"time"

	"questboard/internal/model"
	"questboard/internal/quest"
)

// --- Request DTOs ---

// toolReq is the direct-dispatch body: the same tool names the agent exposes,
// invoked without the LLM in between.
type toolReq struct {
	Tool   string          `json:"tool" binding:"required"`
	Params json.RawMessage `json:"params"`
}

// Tool params reuse the use-case input types verbatim so both entry points
// share one validation gate.

// --- Response DTOs ---

type taskResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	XP           int    `json:"xp"`
	CalendarLink string `json:"calendarLink,omitempty"`
}

func newTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		StartTime:    t.StartTime.Format(time.RFC3339),
		EndTime:      t.EndTime.Format(time.RFC3339),
		XP:           t.XP,
		CalendarLink: t.CalendarLink,
	}
}

// toolResp is the direct-dispatch success envelope.
type toolResp struct {
	Success bool      `json:"success"`
	Task    *taskResp `json:"task,omitempty"`
}

func newToolResp(t *model.Task) toolResp {
	out := toolResp{Success: true}
	if t != nil {
		tr := newTaskResp(*t)
		out.Task = &tr
	}
	return out
}

type snapshotResp struct {
	Tasks              []taskResp `json:"tasks"`
	TotalXP            int        `json:"totalXP"`
	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	LastCompletionDate string     `json:"lastCompletionDate,omitempty"`
}

func newSnapshotResp(s quest.Snapshot) snapshotResp {
	tasks := make([]taskResp, len(s.Tasks))
	for i, t := range s.Tasks {
		tasks[i] = newTaskResp(t)
	}
	return snapshotResp{
		Tasks:              tasks,
		TotalXP:            s.TotalXP,
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		LastCompletionDate: s.LastCompletionDate,
	}
}

type completedQuestResp struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	XP             int    `json:"xp"`
	CompletionDate string `json:"completionDate"`
}

type historyResp struct {
	CompletedQuests []completedQuestResp `json:"completedQuests"`
	Statistics      model.Statistics     `json:"statistics"`
}

func newHistoryResp(out quest.HistoryOutput) historyResp {
	completed := make([]completedQuestResp, len(out.CompletedQuests))
	for i, q := range out.CompletedQuests {
		completed[i] = completedQuestResp{
			ID:             q.ID,
			Name:           q.Name,
			Description:    q.Description,
			StartTime:      q.StartTime.Format(time.RFC3339),
			EndTime:        q.EndTime.Format(time.RFC3339),
			XP:             q.XP,
			CompletionDate: q.CompletionDate.Format(time.RFC3339),
		}
	}
	return historyResp{
		CompletedQuests: completed,
		Statistics:      out.Statistics,
	}
}
