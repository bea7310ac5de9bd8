// Package ollama is a client for the Ollama HTTP API: non-streaming chat with
// tool support plus a raw streaming generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultModel = "llama3.1"

// Config configures the client.
type Config struct {
	BaseURL           string
	Model             string
	RequestsPerMinute int // upstream pacing; 0 disables the limiter
	Timeout           time.Duration
}

type implClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	// streamClient has no overall timeout: streamed bodies outlive any fixed
	// deadline and are cancelled through the request context instead.
	streamClient *http.Client
	limiter      *rate.Limiter
}

// New creates a new Ollama API client.
func New(cfg Config) *implClient {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), cfg.RequestsPerMinute)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &implClient{
		baseURL:      cfg.BaseURL,
		model:        model,
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
		limiter:      limiter,
	}
}

// Chat sends a non-streaming chat request, used for the tool-calling phase.
func (c *implClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	req.Stream = false

	resp, err := c.post(ctx, c.httpClient, "/api/chat", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return &result, nil
}

// GenerateStream sends a streaming generate request and hands back the raw
// body. The caller owns the ReadCloser.
func (c *implClient) GenerateStream(ctx context.Context, req GenerateRequest) (io.ReadCloser, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	req.Stream = true

	resp, err := c.post(ctx, c.streamClient, "/api/generate", req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (c *implClient) post(ctx context.Context, client *http.Client, path string, payload any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama API: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama API error %d: %s", resp.StatusCode, string(raw))
	}

	return resp, nil
}
