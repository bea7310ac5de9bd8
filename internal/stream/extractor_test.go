package stream_test

import (
	"testing"

	"questboard/internal/stream"
)

func push(t *testing.T, ex *stream.Extractor, chunk string) []string {
	t.Helper()
	objs, err := ex.Push([]byte(chunk))
	if err != nil {
		t.Fatalf("push %q: %v", chunk, err)
	}
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = string(o)
	}
	return out
}

func TestObjectSplitAcrossReads(t *testing.T) {
	ex := stream.NewExtractor(0)

	if got := push(t, ex, `{"response":"Hel`); len(got) != 0 {
		t.Fatalf("incomplete object must not be emitted, got %v", got)
	}

	got := push(t, ex, `lo"}{"response":" world"}`)
	if len(got) != 2 {
		t.Fatalf("expected 2 objects, got %v", got)
	}
	if got[0] != `{"response":"Hello"}` || got[1] != `{"response":" world"}` {
		t.Errorf("wrong objects: %v", got)
	}
}

func TestEverySplitPointYieldsSameObjects(t *testing.T) {
	const payload = `{"response":"Hel"}{"a":{"b":"}"},"response":"lo"}`

	for cut := 0; cut <= len(payload); cut++ {
		ex := stream.NewExtractor(0)
		var got []string
		got = append(got, push(t, ex, payload[:cut])...)
		got = append(got, push(t, ex, payload[cut:])...)

		if len(got) != 2 {
			t.Fatalf("cut=%d: expected 2 objects, got %v", cut, got)
		}
	}
}

func TestBracesInsideStringsNotCounted(t *testing.T) {
	ex := stream.NewExtractor(0)

	got := push(t, ex, `{"response":"look: { nested } braces \" and {{{"}`)
	if len(got) != 1 {
		t.Fatalf("expected 1 object, got %v", got)
	}
}

func TestConcatenatedWithoutDelimiter(t *testing.T) {
	ex := stream.NewExtractor(0)

	got := push(t, ex, `{"a":1}{"b":2}{"c":3}`)
	if len(got) != 3 {
		t.Fatalf("expected 3 objects, got %v", got)
	}
}

func TestGarbageBetweenObjectsDiscarded(t *testing.T) {
	ex := stream.NewExtractor(0)

	got := push(t, ex, "\n{\"a\":1}\n\n{\"b\":2}\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 objects, got %v", got)
	}
}

func TestUnbalancedBraceOverflows(t *testing.T) {
	ex := stream.NewExtractor(64)

	if _, err := ex.Push([]byte(`{"response":"`)); err != nil {
		t.Fatalf("under cap should not error: %v", err)
	}

	_, err := ex.Push(make([]byte, 128))
	if err != stream.ErrBufferOverflow {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
}
