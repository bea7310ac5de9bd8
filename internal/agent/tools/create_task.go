package tools

import (
	"context"
	"fmt"

	"questboard/internal/agent"
	"questboard/internal/quest"
)

// CreateTaskTool lets the model create a quest during a chat turn. Created
// tasks are reported to the turn recorder so the compositor can append them
// as metadata.
type CreateTaskTool struct {
	uc quest.UseCase
}

// NewCreateTaskTool creates a new create-task tool.
func NewCreateTaskTool(uc quest.UseCase) agent.Tool {
	return &CreateTaskTool{uc: uc}
}

func (t *CreateTaskTool) Name() string {
	return "createTask"
}

func (t *CreateTaskTool) Description() string {
	return "Create a new time-boxed quest for the user. Times must be RFC3339 timestamps; XP must be an integer between 1 and 10000."
}

func (t *CreateTaskTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Short quest title",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "What finishing the quest requires",
			},
			"startTime": map[string]any{
				"type":        "string",
				"description": "RFC3339 start of the quest window",
			},
			"endTime": map[string]any{
				"type":        "string",
				"description": "RFC3339 deadline; the quest expires after this",
			},
			"xp": map[string]any{
				"type":        "integer",
				"description": "Reward, 1-10000",
			},
		},
		"required": []string{"name", "description", "startTime", "endTime", "xp"},
	}
}

func (t *CreateTaskTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	turn, ok := agent.TurnFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no turn in context")
	}

	input := quest.CreateInput{
		Name:        stringParam(params, "name"),
		Description: stringParam(params, "description"),
		StartTime:   stringParam(params, "startTime"),
		EndTime:     stringParam(params, "endTime"),
		XP:          intParam(params, "xp"),
	}

	created, err := t.uc.Create(ctx, turn.Scope, input)
	if err != nil {
		return nil, fmt.Errorf("create failed: %w", err)
	}

	if turn.Recorder != nil {
		turn.Recorder.Record(created)
	}

	return map[string]any{
		"id":        created.ID,
		"name":      created.Name,
		"startTime": created.StartTime,
		"endTime":   created.EndTime,
		"xp":        created.XP,
	}, nil
}

func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// intParam tolerates float64 (JSON numbers) and string-typed integers, both
// of which models produce.
func intParam(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
