package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"questboard/internal/agent"
	"questboard/internal/model"
	"questboard/pkg/log"
)

// DoneSentinel is the terminal frame of every successfully composed stream.
const DoneSentinel = "[DONE]"

// Emitter writes one SSE data frame and flushes it to the client.
type Emitter interface {
	Emit(data string) error
}

// Fallback supplies the task list to report when no turn recorder was wired
// for the call path. Over-reporting beats reporting nothing there.
type Fallback func(ctx context.Context) []model.Task

// Config bounds the compositor.
type Config struct {
	SettleTimeout time.Duration // rendezvous bound for the turn recorder
	MaxBuffer     int           // reassembly buffer cap
}

// Compositor relays LLM text deltas as they arrive and, after the upstream
// stream ends, appends one metadata frame describing the tasks created by
// tool calls during the turn.
type Compositor struct {
	l   log.Logger
	cfg Config
}

// New creates a new Compositor.
func New(l log.Logger, cfg Config) *Compositor {
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = 500 * time.Millisecond
	}
	return &Compositor{l: l, cfg: cfg}
}

// fragment is the upstream payload unit; only the response delta matters.
type fragment struct {
	Response *string `json:"response"`
}

// metadataFrame is the single metadata event appended after generation.
type metadataFrame struct {
	Type  string       `json:"type"`
	Tasks []model.Task `json:"tasks"`
}

// Run pumps upstream to sink until EOF, then reconciles side-effect metadata
// and terminates the stream. An upstream or sink error aborts the stream
// with no metadata and no sentinel; state already committed by tool calls is
// untouched.
func (c *Compositor) Run(ctx context.Context, upstream io.Reader, rec *agent.TurnRecorder, fallback Fallback, sink Emitter) error {
	ex := NewExtractor(c.cfg.MaxBuffer)
	buf := make([]byte, 4096)

	for {
		n, readErr := upstream.Read(buf)
		if n > 0 {
			objects, exErr := ex.Push(buf[:n])
			for _, obj := range objects {
				var f fragment
				if err := json.Unmarshal(obj, &f); err != nil {
					c.l.Warnf(ctx, "compositor: dropping malformed fragment: %v", err)
					continue
				}
				if f.Response == nil {
					continue
				}
				if err := sink.Emit(*f.Response); err != nil {
					return fmt.Errorf("client write failed: %w", err)
				}
			}
			if exErr != nil {
				return exErr
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("upstream read failed: %w", readErr)
		}
	}

	return c.finalize(ctx, rec, fallback, sink)
}

func (c *Compositor) finalize(ctx context.Context, rec *agent.TurnRecorder, fallback Fallback, sink Emitter) error {
	var tasks []model.Task
	switch {
	case rec != nil:
		tasks = rec.Wait(ctx, c.cfg.SettleTimeout)
	case fallback != nil:
		tasks = fallback(ctx)
	}

	if len(tasks) > 0 {
		payload, err := json.Marshal(metadataFrame{Type: "metadata", Tasks: tasks})
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := sink.Emit(string(payload)); err != nil {
			return fmt.Errorf("client write failed: %w", err)
		}
	}

	if err := sink.Emit(DoneSentinel); err != nil {
		return fmt.Errorf("client write failed: %w", err)
	}

	return nil
}
