package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		word string
	}{
		{"bare", `{"word": "whale"}`, "whale"},
		{"fenced", "```json\n{\"word\": \"whale\"}\n```", "whale"},
		{"fence without language", "```\n{\"word\": \"whale\"}\n```", "whale"},
		{"prose around", "Sure! Here you go: {\"word\": \"whale\", \"reasoning\": \"big\"} Hope it helps.", "whale"},
		{"padded", "\n  {\"word\":\"whale\"}  \n", "whale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseObject(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.word, obj.Get("word").String())
		})
	}
}

func TestParseObjectRejects(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "no json here", "[1, 2]", "{broken", "} {"} {
		_, err := ParseObject(text)
		assert.ErrorIs(t, err, ErrNoObject, text)
	}
}
