package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"questboard/internal/agent"
	"questboard/internal/model"
	"questboard/pkg/ollama"
)

// ChatTurn executes the tool phase for one user message, publishes created
// tasks into rec, then returns the streaming answer body. The recorder is
// always finished before this returns, success or not, so the compositor's
// rendezvous never waits out its full timeout on this path.
func (o *Orchestrator) ChatTurn(ctx context.Context, sc model.Scope, rec *agent.TurnRecorder, message string) (io.ReadCloser, error) {
	defer rec.Finish()

	toolCtx := agent.WithTurn(ctx, agent.Turn{Scope: sc, Recorder: rec})

	messages := []ollama.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: message},
	}

	for step := 0; step < MaxAgentSteps; step++ {
		resp, err := o.llm.Chat(ctx, ollama.ChatRequest{
			Messages: messages,
			Tools:    o.registry.ToToolDefinitions(),
		})
		if err != nil {
			return nil, fmt.Errorf("agent LLM error at step %d: %w", step, err)
		}

		if len(resp.Message.ToolCalls) == 0 {
			o.l.Infof(ctx, "agent finished tool phase at step %d", step+1)
			break
		}

		messages = append(messages, resp.Message)

		for _, call := range resp.Message.ToolCalls {
			messages = append(messages, o.dispatch(toolCtx, call))
		}
	}

	rec.Finish()

	stream, err := o.llm.GenerateStream(ctx, ollama.GenerateRequest{
		System: answerSystemPrompt,
		Prompt: transcript(messages),
	})
	if err != nil {
		return nil, fmt.Errorf("answer stream failed: %w", err)
	}

	return stream, nil
}

// dispatch executes one tool call and wraps its result (or error) as a tool
// message for the model to observe. Tool failures are observations, not turn
// failures.
func (o *Orchestrator) dispatch(ctx context.Context, call ollama.ToolCall) ollama.Message {
	name := call.Function.Name
	o.l.Infof(ctx, "agent calling tool %s", name)

	tool, ok := o.registry.Get(name)

	var result any
	if !ok {
		o.l.Errorf(ctx, "tool %s not found", name)
		result = map[string]string{"error": "tool not found"}
	} else {
		toolCtx, cancel := context.WithTimeout(ctx, defaultToolTimeout)
		res, err := tool.Execute(toolCtx, call.Function.Arguments)
		cancel()
		if err != nil {
			o.l.Errorf(ctx, "tool %s failed: %v", name, err)
			result = map[string]string{"error": err.Error()}
		} else {
			result = res
		}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		raw = []byte(`{"error":"unencodable tool result"}`)
	}

	return ollama.Message{Role: "tool", Content: string(raw)}
}

// transcript flattens the tool-phase conversation into a prompt for the
// streaming answer pass.
func transcript(messages []ollama.Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Role == "system" {
			continue
		}
		content := m.Content
		if content == "" && len(m.ToolCalls) > 0 {
			calls := make([]string, 0, len(m.ToolCalls))
			for _, c := range m.ToolCalls {
				calls = append(calls, c.Function.Name)
			}
			content = "[called: " + strings.Join(calls, ", ") + "]"
		}
		fmt.Fprintf(&b, "%s: %s\n", m.Role, content)
	}
	return b.String()
}
