package tools

import (
	"context"
	"fmt"

	"questboard/internal/agent"
	"questboard/internal/quest"
)

// ViewTasksTool lets the model see the session's live quests.
type ViewTasksTool struct {
	uc quest.UseCase
}

// NewViewTasksTool creates a new view-tasks tool.
func NewViewTasksTool(uc quest.UseCase) agent.Tool {
	return &ViewTasksTool{uc: uc}
}

func (t *ViewTasksTool) Name() string {
	return "viewTasks"
}

func (t *ViewTasksTool) Description() string {
	return "List the user's current quests with their deadlines and XP rewards."
}

func (t *ViewTasksTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ViewTasksTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	turn, ok := agent.TurnFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no turn in context")
	}

	tasks, err := t.uc.View(ctx, turn.Scope)
	if err != nil {
		return nil, fmt.Errorf("view failed: %w", err)
	}

	results := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, map[string]any{
			"id":          task.ID,
			"name":        task.Name,
			"description": task.Description,
			"startTime":   task.StartTime,
			"endTime":     task.EndTime,
			"xp":          task.XP,
		})
	}

	return map[string]any{
		"count": len(results),
		"tasks": results,
	}, nil
}
