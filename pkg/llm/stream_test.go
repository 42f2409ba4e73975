package llm

import (
	"errors"
	"testing"

	"ai-hub-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAccumulateCollectsAllFragments(t *testing.T) {
	s := NewStaticStream([]string{"Hello", ", ", "world"}, nil)

	var updates []string
	text, err := Accumulate(s, func(accumulated string) {
		updates = append(updates, accumulated)
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
	assert.Equal(t, []string{"Hello", "Hello, ", "Hello, world"}, updates)
}

func TestAccumulateDiscardsPartialOnFailure(t *testing.T) {
	s := NewStaticStream([]string{"partial "}, errors.New("connection reset"))

	text, err := Accumulate(s, nil)

	assert.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, apperror.KindCompletion, apperror.KindOf(err))
}

func TestAccumulateEmptyStream(t *testing.T) {
	s := NewStaticStream(nil, nil)

	text, err := Accumulate(s, nil)

	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestStripBase64Envelope(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"with envelope", "data:text/plain;base64,aGVsbG8=", "aGVsbG8="},
		{"bare payload untouched", "aGVsbG8=", "aGVsbG8="},
		{"empty", "", ""},
		{"data prefix without comma", "data:text/plain", "data:text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripBase64Envelope(tt.input))
		})
	}
}
