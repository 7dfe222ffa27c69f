package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModelOutput(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "bare json",
			raw:      `{"title": "Quiz"}`,
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "json fence",
			raw:      "```json\n{\"title\": \"Quiz\"}\n```",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "anonymous fence",
			raw:      "```\n{\"title\": \"Quiz\"}\n```",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "leading prose",
			raw:      "Here is your quiz:\n{\"title\": \"Quiz\"}",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "trailing prose",
			raw:      "{\"title\": \"Quiz\"}\nLet me know if you need more questions!",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "surrounding whitespace",
			raw:      "\n\n  {\"title\": \"Quiz\"}  \n",
			expected: `{"title": "Quiz"}`,
		},
		{
			name:     "nested braces survive",
			raw:      "```json\n{\"questions\": [{\"answer\": \"a\"}]}\n```",
			expected: `{"questions": [{"answer": "a"}]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeModelOutput(tc.raw)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeModelOutput_NoObject(t *testing.T) {
	for _, raw := range []string{"", "I could not generate a quiz.", "```json\n```"} {
		_, err := NormalizeModelOutput(raw)
		assert.ErrorIs(t, err, ErrNoJSONObject)
	}
}
