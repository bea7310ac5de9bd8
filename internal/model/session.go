package model

import "time"

// DateOnly is the calendar-day format used for streak bookkeeping.
const DateOnly = "2006-01-02"

// Task is a live, time-boxed quest. It exists only until it is finished,
// abandoned, or evicted by the expiry alarm.
type Task struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	XP           int       `json:"xp"`
	CalendarLink string    `json:"calendarLink,omitempty"`
}

// CompletedQuest is the immutable history record written when a task is
// finished with XP. Retained indefinitely.
type CompletedQuest struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	XP             int       `json:"xp"`
	CompletionDate time.Time `json:"completionDate"`
}

// SessionState is everything owned by one session actor. Mutated only on the
// actor goroutine; serialized as a single JSON blob per session key.
type SessionState struct {
	Tasks           []Task           `json:"tasks"`
	CompletedQuests []CompletedQuest `json:"completedQuests"`

	// Timezone is set once from the first non-empty x-timezone header.
	Timezone string `json:"timezone,omitempty"`

	TotalXP int `json:"totalXP"`

	CurrentStreak         int    `json:"currentStreak"`
	LongestStreak         int    `json:"longestStreak"`
	LastCompletionDate    string `json:"lastCompletionDate,omitempty"` // DateOnly, "" if none
	GraceDaysUsedThisWeek int    `json:"graceDaysUsedThisWeek"`
	LastGraceWeekReset    string `json:"lastGraceWeekReset,omitempty"` // DateOnly, "" if none
}

// FindTask returns the index of the task with the given id, or -1.
func (s *SessionState) FindTask(id string) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Location resolves the session timezone, falling back to UTC when unset or
// unknown.
func (s *SessionState) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Statistics is computed on demand from completed quests; never persisted.
type Statistics struct {
	TotalCompleted int     `json:"totalCompleted"`
	TotalXP        int     `json:"totalXP"`
	AverageXP      float64 `json:"averageXP"`
	CompletedLast7 int     `json:"completedLast7Days"`
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
}
