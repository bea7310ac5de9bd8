package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"questboard/internal/agent"
	"questboard/internal/agent/orchestrator"
	"questboard/internal/model"
	"questboard/pkg/ollama"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, args ...any)                  {}
func (nopLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Info(ctx context.Context, args ...any)                   {}
func (nopLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Warn(ctx context.Context, args ...any)                   {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (nopLogger) Error(ctx context.Context, args ...any)                  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) DPanic(ctx context.Context, args ...any)                 {}
func (nopLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (nopLogger) Panic(ctx context.Context, args ...any)                  {}
func (nopLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (nopLogger) Fatal(ctx context.Context, args ...any)                  {}
func (nopLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// mockLLM scripts the chat responses and counts calls.
type mockLLM struct {
	chatResponses []ollama.ChatResponse
	chatErr       error
	chatCalls     int

	streamBody string
	streamErr  error
}

func (m *mockLLM) Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error) {
	m.chatCalls++
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	i := m.chatCalls - 1
	if i >= len(m.chatResponses) {
		i = len(m.chatResponses) - 1
	}
	resp := m.chatResponses[i]
	return &resp, nil
}

func (m *mockLLM) GenerateStream(ctx context.Context, req ollama.GenerateRequest) (io.ReadCloser, error) {
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return io.NopCloser(strings.NewReader(m.streamBody)), nil
}

// recordingTool publishes a canned task into the turn recorder, the way the
// real create tool does.
type recordingTool struct {
	task model.Task
}

func (t *recordingTool) Name() string        { return "createTask" }
func (t *recordingTool) Description() string { return "create a quest" }

func (t *recordingTool) Parameters() map[string]any {
	return map[string]any{"type": "object"}
}

func (t *recordingTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	turn, ok := agent.TurnFromContext(ctx)
	if !ok {
		return nil, errors.New("no turn in context")
	}
	turn.Recorder.Record(t.task)
	return t.task, nil
}

func toolCall(name string) ollama.ToolCall {
	return ollama.ToolCall{Function: ollama.ToolCallFunction{Name: name}}
}

var sc = model.Scope{SessionKey: "alice"}

func TestChatTurnWithoutTools(t *testing.T) {
	llm := &mockLLM{
		chatResponses: []ollama.ChatResponse{{Message: ollama.Message{Role: "assistant", Content: "done"}}},
		streamBody:    `{"response":"Hi"}`,
	}
	orch := orchestrator.New(nopLogger{}, llm, agent.NewRegistry())

	rec := agent.NewTurnRecorder()
	stream, err := orch.ChatTurn(context.Background(), sc, rec, "hello")
	if err != nil {
		t.Fatalf("ChatTurn: %v", err)
	}
	defer stream.Close()

	body, _ := io.ReadAll(stream)
	if string(body) != `{"response":"Hi"}` {
		t.Errorf("unexpected stream body %q", body)
	}

	// The recorder must already be finished: Wait returns immediately, empty.
	start := time.Now()
	tasks := rec.Wait(context.Background(), time.Second)
	if len(tasks) != 0 {
		t.Errorf("expected no recorded tasks, got %v", tasks)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("Wait should return immediately after a finished turn")
	}
}

func TestChatTurnDispatchesToolAndRecords(t *testing.T) {
	created := model.Task{ID: "t-1", Name: "Q", XP: 100}

	llm := &mockLLM{
		chatResponses: []ollama.ChatResponse{
			{Message: ollama.Message{Role: "assistant", ToolCalls: []ollama.ToolCall{toolCall("createTask")}}},
			{Message: ollama.Message{Role: "assistant", Content: "created"}},
		},
		streamBody: `{"response":"Done."}`,
	}

	registry := agent.NewRegistry()
	registry.Register(&recordingTool{task: created})
	orch := orchestrator.New(nopLogger{}, llm, registry)

	rec := agent.NewTurnRecorder()
	stream, err := orch.ChatTurn(context.Background(), sc, rec, "add a quest")
	if err != nil {
		t.Fatalf("ChatTurn: %v", err)
	}
	stream.Close()

	if llm.chatCalls != 2 {
		t.Errorf("expected 2 chat calls (tool round + finish), got %d", llm.chatCalls)
	}

	tasks := rec.Wait(context.Background(), time.Second)
	if len(tasks) != 1 || tasks[0].ID != "t-1" {
		t.Errorf("expected the created task recorded, got %v", tasks)
	}
}

func TestChatTurnUnknownToolIsObservation(t *testing.T) {
	llm := &mockLLM{
		chatResponses: []ollama.ChatResponse{
			{Message: ollama.Message{Role: "assistant", ToolCalls: []ollama.ToolCall{toolCall("nukeTask")}}},
			{Message: ollama.Message{Role: "assistant", Content: "sorry"}},
		},
		streamBody: `{"response":"Cannot do that."}`,
	}
	orch := orchestrator.New(nopLogger{}, llm, agent.NewRegistry())

	rec := agent.NewTurnRecorder()
	stream, err := orch.ChatTurn(context.Background(), sc, rec, "nuke it")
	if err != nil {
		t.Fatalf("unknown tool must not fail the turn: %v", err)
	}
	stream.Close()

	if tasks := rec.Wait(context.Background(), time.Second); len(tasks) != 0 {
		t.Errorf("expected no recorded tasks, got %v", tasks)
	}
}

func TestChatTurnBoundsToolLoop(t *testing.T) {
	// The model insists on calling tools forever; the loop must stop at the
	// step budget and still produce an answer stream.
	llm := &mockLLM{
		chatResponses: []ollama.ChatResponse{
			{Message: ollama.Message{Role: "assistant", ToolCalls: []ollama.ToolCall{toolCall("createTask")}}},
		},
		streamBody: `{"response":"Enough."}`,
	}

	registry := agent.NewRegistry()
	registry.Register(&recordingTool{task: model.Task{ID: "t-loop"}})
	orch := orchestrator.New(nopLogger{}, llm, registry)

	rec := agent.NewTurnRecorder()
	stream, err := orch.ChatTurn(context.Background(), sc, rec, "loop forever")
	if err != nil {
		t.Fatalf("ChatTurn: %v", err)
	}
	stream.Close()

	if llm.chatCalls != orchestrator.MaxAgentSteps {
		t.Errorf("expected exactly %d chat calls, got %d", orchestrator.MaxAgentSteps, llm.chatCalls)
	}
}

func TestChatTurnUpstreamFailureFinishesRecorder(t *testing.T) {
	llm := &mockLLM{chatErr: errors.New("connection refused")}
	orch := orchestrator.New(nopLogger{}, llm, agent.NewRegistry())

	rec := agent.NewTurnRecorder()
	if _, err := orch.ChatTurn(context.Background(), sc, rec, "hello"); err == nil {
		t.Fatal("expected error from failing upstream")
	}

	start := time.Now()
	rec.Wait(context.Background(), time.Second)
	if time.Since(start) > 100*time.Millisecond {
		t.Error("recorder must be finished even when the turn fails")
	}
}
