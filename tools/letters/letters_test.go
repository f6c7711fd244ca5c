package letters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		letter   string
		expected int
	}{
		{name: "strawberry r", word: "strawberry", letter: "r", expected: 3},
		{name: "case insensitive", word: "Mississippi", letter: "S", expected: 4},
		{name: "absent letter", word: "hello", letter: "z", expected: 0},
		{name: "empty word", word: "", letter: "a", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Count(tt.word, tt.letter))
		})
	}
}

func TestTool(t *testing.T) {
	tool := Tool()
	assert.Equal(t, "letter_counter", tool.Name)

	payload, err := tool.Func(context.Background(), map[string]interface{}{
		"word":   "strawberry",
		"letter": "r",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, payload["count"])
}
