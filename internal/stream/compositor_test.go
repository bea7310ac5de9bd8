package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"questboard/internal/agent"
	"questboard/internal/model"
	"questboard/internal/stream"
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

// chunkReader yields its chunks one Read at a time, mimicking arbitrary
// upstream splits.
type chunkReader struct {
	chunks []string
	err    error // returned after the chunks are exhausted; io.EOF by default
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

type captureSink struct {
	frames []string
	failAt int // fail on the nth Emit (1-based); 0 disables
}

func (s *captureSink) Emit(data string) error {
	if s.failAt > 0 && len(s.frames)+1 >= s.failAt {
		return errors.New("client gone")
	}
	s.frames = append(s.frames, data)
	return nil
}

func newCompositor(settle time.Duration) *stream.Compositor {
	return stream.New(nopLogger{}, stream.Config{SettleTimeout: settle})
}

func TestForwardsTextAcrossSplitObjects(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"Hel`, `lo"}{"response":" world"}`}}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder()
	rec.Finish()

	err := newCompositor(time.Second).Run(context.Background(), upstream, rec, nil, sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"Hello", " world", stream.DoneSentinel}
	if len(sink.frames) != len(want) {
		t.Fatalf("frames: %v", sink.frames)
	}
	for i := range want {
		if sink.frames[i] != want[i] {
			t.Errorf("frame %d: got %q want %q", i, sink.frames[i], want[i])
		}
	}
}

func TestNoToolCallMeansNoMetadata(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"hi"}{"done":true}`}}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder()
	rec.Finish() // turn settled with nothing recorded

	fallback := func(context.Context) []model.Task {
		t.Error("fallback must not be consulted when a recorder is wired")
		return nil
	}

	if err := newCompositor(time.Second).Run(context.Background(), upstream, rec, fallback, sink); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.frames) != 2 || sink.frames[1] != stream.DoneSentinel {
		t.Fatalf("expected text then sentinel only, got %v", sink.frames)
	}
}

func TestMetadataCarriesRecordedTasks(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"done!"}`}}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder()
	rec.Record(model.Task{ID: "q1", Name: "Stretch", XP: 25})
	rec.Finish()

	if err := newCompositor(time.Second).Run(context.Background(), upstream, rec, nil, sink); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.frames) != 3 {
		t.Fatalf("expected text, metadata, sentinel; got %v", sink.frames)
	}

	var meta struct {
		Type  string       `json:"type"`
		Tasks []model.Task `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(sink.frames[1]), &meta); err != nil {
		t.Fatalf("metadata frame not JSON: %v", err)
	}
	if meta.Type != "metadata" || len(meta.Tasks) != 1 || meta.Tasks[0].ID != "q1" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if sink.frames[2] != stream.DoneSentinel {
		t.Errorf("missing sentinel, got %q", sink.frames[2])
	}
}

func TestSettleTimeoutOmitsLateMetadata(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"hi"}`}}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder() // never finished: persistence never lands

	start := time.Now()
	if err := newCompositor(50 * time.Millisecond).Run(context.Background(), upstream, rec, nil, sink); err != nil {
		t.Fatalf("run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("rendezvous must be bounded, took %v", elapsed)
	}

	// Degraded turn: text and sentinel, no metadata.
	if len(sink.frames) != 2 || sink.frames[1] != stream.DoneSentinel {
		t.Fatalf("expected degraded stream without metadata, got %v", sink.frames)
	}
}

func TestFallbackUsedWithoutRecorder(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"hi"}`}}
	sink := &captureSink{}

	fallback := func(context.Context) []model.Task {
		return []model.Task{{ID: "existing", Name: "Old quest", XP: 5}}
	}

	if err := newCompositor(time.Second).Run(context.Background(), upstream, nil, fallback, sink); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.frames) != 3 {
		t.Fatalf("expected fallback metadata, got %v", sink.frames)
	}
	if !strings.Contains(sink.frames[1], `"existing"`) {
		t.Errorf("fallback tasks missing from metadata: %q", sink.frames[1])
	}
}

func TestMalformedFragmentsAreDropped(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":}{"response":"ok"}`}}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder()
	rec.Finish()

	if err := newCompositor(time.Second).Run(context.Background(), upstream, rec, nil, sink); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.frames) != 2 || sink.frames[0] != "ok" {
		t.Fatalf("malformed fragment should be skipped, got %v", sink.frames)
	}
}

func TestUpstreamErrorAbortsWithoutMetadata(t *testing.T) {
	upstream := &chunkReader{
		chunks: []string{`{"response":"par`},
		err:    errors.New("connection reset"),
	}
	sink := &captureSink{}
	rec := agent.NewTurnRecorder()
	rec.Record(model.Task{ID: "q1"})
	rec.Finish()

	err := newCompositor(time.Second).Run(context.Background(), upstream, rec, nil, sink)
	if err == nil {
		t.Fatal("expected upstream error to propagate")
	}

	for _, f := range sink.frames {
		if strings.Contains(f, "metadata") || f == stream.DoneSentinel {
			t.Errorf("no metadata or sentinel after upstream error, got %v", sink.frames)
		}
	}
}

func TestOverflowIsFatal(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"` + strings.Repeat("x", 200)}}
	sink := &captureSink{}

	c := stream.New(nopLogger{}, stream.Config{SettleTimeout: time.Second, MaxBuffer: 64})
	err := c.Run(context.Background(), upstream, nil, nil, sink)
	if !errors.Is(err, stream.ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
}

func TestClientDisconnectStopsForwarding(t *testing.T) {
	upstream := &chunkReader{chunks: []string{`{"response":"a"}{"response":"b"}{"response":"c"}`}}
	sink := &captureSink{failAt: 2}
	rec := agent.NewTurnRecorder()
	rec.Finish()

	err := newCompositor(time.Second).Run(context.Background(), upstream, rec, nil, sink)
	if err == nil {
		t.Fatal("expected sink error to propagate")
	}
	if len(sink.frames) != 1 {
		t.Errorf("forwarding should stop at the failed write, got %v", sink.frames)
	}
}
