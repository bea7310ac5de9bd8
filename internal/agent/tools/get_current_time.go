package tools

import (
	"context"
	"fmt"

	"questboard/internal/agent"
	"questboard/internal/quest"
)

// GetCurrentTimeTool tells the model what time it is for this session, in the
// user's stored timezone when one exists.
type GetCurrentTimeTool struct {
	uc quest.UseCase
}

// NewGetCurrentTimeTool creates a new get-current-time tool.
func NewGetCurrentTimeTool(uc quest.UseCase) agent.Tool {
	return &GetCurrentTimeTool{uc: uc}
}

func (t *GetCurrentTimeTool) Name() string {
	return "getCurrentTime"
}

func (t *GetCurrentTimeTool) Description() string {
	return "Get the current time for the user, localized to their timezone when known. Use this before computing quest start or end times."
}

func (t *GetCurrentTimeTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *GetCurrentTimeTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	turn, ok := agent.TurnFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no turn in context")
	}

	now, err := t.uc.CurrentTime(ctx, turn.Scope)
	if err != nil {
		return nil, fmt.Errorf("current time failed: %w", err)
	}

	return map[string]any{"now": now}, nil
}
