// Package stream turns an LLM byte stream into SSE frames and reconciles it
// with the tool-call side effects of the same turn.
package stream

import "errors"

// ErrBufferOverflow is returned when the reassembly buffer grows past its cap
// without a JSON object completing, e.g. on a permanently unbalanced brace.
// Callers must treat it as a fatal stream error.
var ErrBufferOverflow = errors.New("stream buffer overflow: unterminated JSON object")

// Extractor incrementally reassembles complete JSON objects from a stream
// that may split them arbitrarily across reads and concatenate them with no
// delimiter. Braces inside string literals are tracked, not miscounted.
type Extractor struct {
	buf       []byte
	maxBuffer int
}

// NewExtractor creates an extractor with the given buffer cap.
func NewExtractor(maxBuffer int) *Extractor {
	if maxBuffer <= 0 {
		maxBuffer = 1 << 20
	}
	return &Extractor{maxBuffer: maxBuffer}
}

// Push appends a chunk and returns every JSON object completed by it, in
// order. An object split across reads is returned once its closing brace
// arrives.
func (e *Extractor) Push(p []byte) ([][]byte, error) {
	e.buf = append(e.buf, p...)

	var objects [][]byte
	for {
		obj, rest, found := scanObject(e.buf)
		if !found {
			break
		}
		objects = append(objects, obj)
		e.buf = rest
	}

	if len(e.buf) > e.maxBuffer {
		return objects, ErrBufferOverflow
	}

	return objects, nil
}

// scanObject finds the first complete top-level JSON object in buf. It
// returns a copy of the object, the unconsumed remainder, and whether one was
// found. Bytes before the first '{' are discarded.
func scanObject(buf []byte) (obj []byte, rest []byte, found bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, b := range buf {
		if start < 0 {
			if b == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				obj = append([]byte(nil), buf[start:i+1]...)
				return obj, buf[i+1:], true
			}
		}
	}

	if start < 0 {
		// Nothing but garbage; drop it so it cannot grow the buffer.
		return nil, buf[:0], false
	}
	return nil, buf, false
}
