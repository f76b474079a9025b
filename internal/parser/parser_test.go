package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoyard/prepanote/internal/domain"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expected      domain.Card
	}{
		{
			name:          "simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCards: 1,
			expected: domain.Card{
				Question: "What is the capital of France?",
				Answer:   "Paris",
			},
		},
		{
			name:          "all fields",
			input:         "Q: What is 1+1?\nA: 2\nC: Basic arithmetic\nD: easy",
			expectedCards: 1,
			expected: domain.Card{
				Question:   "What is 1+1?",
				Answer:     "2",
				Context:    "Basic arithmetic",
				Difficulty: "easy",
			},
		},
		{
			name: "multiline answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCards: 1,
			expected: domain.Card{
				Question: "What are the primary colors?",
				Answer:   "Red\nBlue\nYellow",
			},
		},
		{
			name: "two cards without separator",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "two cards with separator",
			input: `
Q: First question
A: First answer
---
Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name:          "no cards, just text",
			input:         "This is a file with no questions.",
			expectedCards: 0,
		},
		{
			name:          "prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCards: 1,
			expected: domain.Card{
				Question: "Question",
				Answer:   "Answer",
			},
		},
		{
			name:          "answer without question is dropped",
			input:         "A: An orphaned answer",
			expectedCards: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			require.Len(t, cards, tc.expectedCards)

			if tc.expectedCards == 1 {
				assert.Equal(t, tc.expected, cards[0])
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("does/not/exist.md")
	assert.Error(t, err)
}
