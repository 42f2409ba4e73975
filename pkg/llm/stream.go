package llm

import (
	"io"
	"strings"

	"ai-hub-be/internal/pkg/apperror"
)

// Chunk is one incremental text fragment from the completion service.
type Chunk struct {
	Text string
}

// Stream is a single-pass, forward-only sequence of fragments. Recv returns
// io.EOF after the final fragment. A stream is not restartable.
type Stream interface {
	Recv() (*Chunk, error)
}

// Accumulate drains the stream into a single answer, invoking onUpdate with
// the running total after every fragment. On mid-stream failure the partial
// text is discarded and a CompletionError is returned; partial answers must
// never be persisted.
func Accumulate(s Stream, onUpdate func(accumulated string)) (string, error) {
	var b strings.Builder
	for {
		chunk, err := s.Recv()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", apperror.Wrap(apperror.KindCompletion, "fragment stream failed", err)
		}
		b.WriteString(chunk.Text)
		if onUpdate != nil {
			onUpdate(b.String())
		}
	}
}

type staticStream struct {
	fragments []string
	pos       int
	err       error
}

// NewStaticStream wraps a fixed fragment sequence in the Stream contract.
// If err is non-nil it is raised after the fragments are exhausted,
// simulating a mid-stream failure.
func NewStaticStream(fragments []string, err error) Stream {
	return &staticStream{fragments: fragments, err: err}
}

func (s *staticStream) Recv() (*Chunk, error) {
	if s.pos >= len(s.fragments) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	chunk := &Chunk{Text: s.fragments[s.pos]}
	s.pos++
	return chunk, nil
}
