package cardhash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rgoyard/prepanote/internal/domain"
)

func TestNormalize(t *testing.T) {
	card := domain.Card{
		Question: "  What is SM-2? \r\n",
		Answer:   "A spaced repetition algorithm.",
		Context:  "Study techniques",
	}
	assert.Equal(t, "what is sm-2?\na spaced repetition algorithm.\nstudy techniques", Normalize(card))
}

func TestHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		card1 := domain.Card{Question: "Test"}
		card2 := domain.Card{Question: "Test"}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("insensitive to case and surrounding whitespace", func(t *testing.T) {
		card1 := domain.Card{
			Question: "  what is go? ",
			Answer:   "A programming language.",
		}
		card2 := domain.Card{
			Question: "What Is Go?",
			Answer:   "A programming language.",
		}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("insensitive to difficulty", func(t *testing.T) {
		card1 := domain.Card{Question: "Q", Answer: "A", Difficulty: "easy"}
		card2 := domain.Card{Question: "Q", Answer: "A", Difficulty: "hard"}
		assert.Equal(t, Hash(card1), Hash(card2))
	})

	t.Run("different content, different hash", func(t *testing.T) {
		card1 := domain.Card{Question: "Card 1"}
		card2 := domain.Card{Question: "Card 2"}
		assert.NotEqual(t, Hash(card1), Hash(card2))
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		card1 := domain.Card{Question: "question", Answer: "answer"}
		card2 := domain.Card{Question: "question answer"}
		assert.NotEqual(t, Hash(card1), Hash(card2))
	})
}
