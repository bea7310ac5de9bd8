package usecase

import (
	"context"

	"questboard/internal/model"
	"questboard/internal/quest"
	"questboard/internal/quest/streak"
)

// streakBonusThreshold is the streak length at which finishing a quest earns
// a +10% XP bonus.
const streakBonusThreshold = 7

// Delete removes a quest by exact id. With AddXP the quest is finished:
// the streak advances, XP (bonused when the resulting streak qualifies) is
// credited, and an immutable CompletedQuest is appended. Without AddXP the
// quest is abandoned with no side effects. Both paths re-arm the alarm.
func (uc *implUseCase) Delete(ctx context.Context, sc model.Scope, input quest.DeleteInput) error {
	err := uc.sessions.Update(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		i := st.FindTask(input.TaskID)
		if i < 0 {
			return quest.ErrTaskNotFound
		}

		t := st.Tasks[i]
		st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)

		if !input.AddXP {
			return nil
		}

		now := uc.now().In(st.Location())

		next := streak.Calculate(streak.State{
			CurrentStreak:         st.CurrentStreak,
			LongestStreak:         st.LongestStreak,
			LastCompletionDate:    st.LastCompletionDate,
			GraceDaysUsedThisWeek: st.GraceDaysUsedThisWeek,
			LastGraceWeekReset:    st.LastGraceWeekReset,
		}, now)

		st.CurrentStreak = next.CurrentStreak
		st.LongestStreak = next.LongestStreak
		st.LastCompletionDate = next.LastCompletionDate
		st.GraceDaysUsedThisWeek = next.GraceDaysUsedThisWeek
		st.LastGraceWeekReset = next.LastGraceWeekReset

		xp := t.XP
		if next.CurrentStreak >= streakBonusThreshold {
			xp += xp / 10
		}
		st.TotalXP += xp

		st.CompletedQuests = append(st.CompletedQuests, model.CompletedQuest{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			StartTime:      t.StartTime,
			EndTime:        t.EndTime,
			XP:             xp,
			CompletionDate: now,
		})
		return nil
	})
	if err != nil {
		return err
	}

	uc.l.Infof(ctx, "Delete: session=%s task=%s finished=%t", sc.SessionKey, input.TaskID, input.AddXP)
	return nil
}
