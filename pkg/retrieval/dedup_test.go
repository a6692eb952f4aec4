package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []ScoredResult
		expected []string // titles in expected output order
	}{
		{
			name:     "empty input",
			input:    nil,
			expected: []string{},
		},
		{
			name: "first occurrence of a url wins",
			input: []ScoredResult{
				{Title: "a", URL: "https://example.com/x", Score: 0.9},
				{Title: "b", URL: "https://example.com/x", Score: 0.7},
				{Title: "c", URL: "https://example.com/y", Score: 0.7},
			},
			expected: []string{"a", "c"},
		},
		{
			name: "empty urls are always kept",
			input: []ScoredResult{
				{Title: "a", URL: ""},
				{Title: "b", URL: ""},
				{Title: "c", URL: "https://example.com/x"},
			},
			expected: []string{"a", "b", "c"},
		},
		{
			name: "order is stable",
			input: []ScoredResult{
				{Title: "c", URL: "https://example.com/3"},
				{Title: "a", URL: "https://example.com/1"},
				{Title: "b", URL: "https://example.com/2"},
				{Title: "a2", URL: "https://example.com/1"},
			},
			expected: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Dedupe(tt.input)

			titles := make([]string, 0, len(out))
			for _, r := range out {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestDedupeDoesNotMutateInput(t *testing.T) {
	input := []ScoredResult{
		{Title: "a", URL: "https://example.com/x"},
		{Title: "b", URL: "https://example.com/x"},
	}
	_ = Dedupe(input)

	assert.Len(t, input, 2)
	assert.Equal(t, "b", input[1].Title)
}
