// Package cardhash computes stable identities for imported flashcards so
// re-imports of the same notes do not create duplicates.
package cardhash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/rgoyard/prepanote/internal/domain"
)

// Normalize flattens a card's textual content into a canonical form:
// each field is lowercased, trimmed, and has its line endings unified,
// then the fields are joined with newlines. Difficulty is deliberately
// excluded, so editing only the difficulty tag in a notes file does not
// change the card's identity.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	q := normalizePart(card.Question)
	a := normalizePart(card.Answer)
	c := normalizePart(card.Context)

	// The newline separator keeps adjacent fields from running together,
	// e.g. "question" + "answer" hashing the same as "questionanswer".
	return strings.Join([]string{q, a, c}, "\n")
}

// Hash returns the SHA-256 of the normalized card as a hex string.
func Hash(card domain.Card) string {
	normalized := Normalize(card)
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}
