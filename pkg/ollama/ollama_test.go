package ollama_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"questboard/pkg/ollama"
)

func TestChatDecodesToolCalls(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollama.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Stream {
			t.Error("chat request must not be streaming")
		}
		if len(req.Tools) != 1 || req.Tools[0].Function.Name != "create_task" {
			t.Errorf("tools not forwarded: %+v", req.Tools)
		}

		json.NewEncoder(w).Encode(ollama.ChatResponse{
			Model: req.Model,
			Message: ollama.Message{
				Role: "assistant",
				ToolCalls: []ollama.ToolCall{
					{Function: ollama.ToolCallFunction{
						Name: "create_task",
						Arguments: map[string]any{"name": "Read"},
					}},
				},
			},
			Done: true,
		})
	}))
	defer ts.Close()

	c := ollama.New(ollama.Config{BaseURL: ts.URL, Model: "test-model"})

	resp, err := c.Chat(context.Background(), ollama.ChatRequest{
		Messages: []ollama.Message{{Role: "user", Content: "add a task"}},
		Tools: []ollama.Tool{
			{Type: "function", Function: ollama.ToolFunction{Name: "create_task", Description: "creates"}},
		},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("expected one tool call, got %+v", resp.Message)
	}
	if got := resp.Message.ToolCalls[0].Function.Name; got != "create_task" {
		t.Errorf("unexpected tool name %q", got)
	}
}

func TestGenerateStreamReturnsRawBody(t *testing.T) {
	const payload = `{"response":"Hel"}{"response":"lo"}{"done":true}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollama.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if !req.Stream {
			t.Error("generate request must be streaming")
		}
		io.WriteString(w, payload)
	}))
	defer ts.Close()

	c := ollama.New(ollama.Config{BaseURL: ts.URL})

	body, err := c.GenerateStream(context.Background(), ollama.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("body not passed through verbatim: %q", raw)
	}
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	c := ollama.New(ollama.Config{BaseURL: ts.URL})

	_, err := c.Chat(context.Background(), ollama.ChatRequest{})
	if err == nil {
		t.Fatal("expected error from upstream failure")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry upstream status: %v", err)
	}
}
