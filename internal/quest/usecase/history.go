package usecase

import (
	"context"

	"questboard/internal/model"
	"questboard/internal/quest"
)

// History returns the completed-quest ledger and statistics computed on
// demand. Statistics are never persisted.
func (uc *implUseCase) History(ctx context.Context, sc model.Scope) (quest.HistoryOutput, error) {
	var out quest.HistoryOutput
	err := uc.sessions.Read(ctx, sc.SessionKey, func(_ context.Context, st *model.SessionState) error {
		completed := append([]model.CompletedQuest(nil), st.CompletedQuests...)

		stats := model.Statistics{
			TotalCompleted: len(completed),
			TotalXP:        st.TotalXP,
			CurrentStreak:  st.CurrentStreak,
			LongestStreak:  st.LongestStreak,
		}

		if len(completed) > 0 {
			sum := 0
			for _, q := range completed {
				sum += q.XP
			}
			stats.AverageXP = float64(sum) / float64(len(completed))
		}

		cutoff := uc.now().AddDate(0, 0, -7)
		for _, q := range completed {
			if q.CompletionDate.After(cutoff) {
				stats.CompletedLast7++
			}
		}

		out = quest.HistoryOutput{CompletedQuests: completed, Statistics: stats}
		return nil
	})
	if err != nil {
		return quest.HistoryOutput{}, err
	}
	if out.CompletedQuests == nil {
		out.CompletedQuests = []model.CompletedQuest{}
	}
	return out, nil
}
