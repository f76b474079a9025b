// Package parser reads flashcards out of notes files. A card starts at
// a "Q:" line, its answer at "A:", optional context at "C:" and optional
// difficulty at "D:"; "---" separates cards explicitly.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rgoyard/prepanote/internal/domain"
)

const (
	questionPrefix   = "Q:"
	answerPrefix     = "A:"
	contextPrefix    = "C:"
	difficultyPrefix = "D:"
	separator        = "---"
)

// ParseFile reads a notes file and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from r and extracts all cards. A card without a question
// is discarded; field content is kept as written, with surrounding
// whitespace trimmed.
func Parse(r io.Reader) ([]domain.Card, error) {
	var (
		cards   []domain.Card
		current domain.Card
		field   *string
		block   []string
	)

	flushField := func() {
		if field != nil && len(block) > 0 {
			*field = strings.TrimSpace(strings.Join(block, "\n"))
		}
		block = nil
	}
	flushCard := func() {
		flushField()
		if current.Question != "" {
			cards = append(cards, current)
		}
		current = domain.Card{}
		field = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == separator {
			flushCard()
			continue
		}

		var next *string
		var prefix string
		switch {
		case strings.HasPrefix(line, questionPrefix):
			// A new question always starts a new card.
			flushCard()
			next, prefix = &current.Question, questionPrefix
		case strings.HasPrefix(line, answerPrefix):
			next, prefix = &current.Answer, answerPrefix
		case strings.HasPrefix(line, contextPrefix):
			next, prefix = &current.Context, contextPrefix
		case strings.HasPrefix(line, difficultyPrefix):
			next, prefix = &current.Difficulty, difficultyPrefix
		}

		if next != nil {
			flushField()
			field = next
			block = append(block, strings.TrimPrefix(line, prefix))
		} else if field != nil {
			// Continuation line of the current field.
			block = append(block, line)
		}
	}
	flushCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
