package ollama

import (
	"context"
	"io"
)

// Client is the LLM harness interface. Chat is used for the tool-calling
// phase; GenerateStream returns the raw token stream consumed by the
// response compositor.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	GenerateStream(ctx context.Context, req GenerateRequest) (io.ReadCloser, error)
}
