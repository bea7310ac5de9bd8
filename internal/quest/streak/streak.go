// Package streak computes streak and grace-day transitions for quest
// completions. Pure functions only; callers persist the result.
package streak

import "time"

// State is the streak-relevant slice of session state.
type State struct {
	CurrentStreak         int
	LongestStreak         int
	LastCompletionDate    string // model.DateOnly, "" when no prior completion
	GraceDaysUsedThisWeek int
	LastGraceWeekReset    string // model.DateOnly, "" when never reset
}

const dateOnly = "2006-01-02"

// graceDaysPerWeek is the number of missed days forgiven per weekly window.
const graceDaysPerWeek = 1

// Calculate advances the streak state for a completion at the given moment.
// All comparisons are calendar-day only, in the location of the completion
// time. CurrentStreak <= LongestStreak holds on return.
func Calculate(s State, completion time.Time) State {
	out := s
	today := completion.Format(dateOnly)
	todayIdx := dayIndex(completion)

	// Weekly grace bucket reset.
	if out.LastGraceWeekReset == "" {
		out.LastGraceWeekReset = today
		out.GraceDaysUsedThisWeek = 0
	} else if resetIdx, ok := parseDay(out.LastGraceWeekReset); ok {
		elapsed := todayIdx - resetIdx
		if elapsed >= 7 || (completion.Weekday() == time.Monday && elapsed >= 1) {
			out.GraceDaysUsedThisWeek = 0
			out.LastGraceWeekReset = today
		}
	}

	switch {
	case out.LastCompletionDate == "":
		out.CurrentStreak = 1
	default:
		lastIdx, ok := parseDay(out.LastCompletionDate)
		if !ok {
			out.CurrentStreak = 1
			break
		}
		switch gap := todayIdx - lastIdx; {
		case gap == 0:
			// Second completion on the same day, streak unchanged.
		case gap == 1:
			out.CurrentStreak++
		case gap == 2 && out.GraceDaysUsedThisWeek < graceDaysPerWeek:
			out.CurrentStreak++
			out.GraceDaysUsedThisWeek++
		default:
			out.CurrentStreak = 1
		}
	}

	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	out.LastCompletionDate = today

	return out
}

// dayIndex maps a moment to a monotonically increasing calendar-day number,
// DST-safe because it works from civil date components.
func dayIndex(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func parseDay(s string) (int, bool) {
	t, err := time.ParseInLocation(dateOnly, s, time.UTC)
	if err != nil {
		return 0, false
	}
	return dayIndex(t), true
}
