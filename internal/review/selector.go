// Package review drives review sessions: it selects which flashcards a
// session should present and records the outcome of each review.
package review

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/srs"
)

// Store is the slice of the record store the review logic needs.
type Store interface {
	FlashcardByID(id int64) (*domain.Flashcard, error)
	DueFlashcards(now time.Time) ([]domain.DueFlashcard, error)
	PullForwardFlashcards(subjectIDs []int64, now time.Time, withinDays, limit int) ([]domain.DueFlashcard, error)
	UpcomingEvents(now time.Time, withinDays int) ([]domain.EventWithSubject, error)
	ApplyReview(ctx context.Context, flashcardID int64, result srs.Result, rating string, success bool, reviewedAt time.Time) error
}

// Policy holds the tunable selection constants.
type Policy struct {
	// DeadlineHorizonDays is how far ahead calendar events register as
	// deadline pressure.
	DeadlineHorizonDays int
	// PullForwardDays bounds how far ahead of schedule cards may be
	// pulled into a session.
	PullForwardDays int
	// PullForwardLimit caps pulled-forward cards per boosted subject.
	PullForwardLimit int
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		DeadlineHorizonDays: 14,
		PullForwardDays:     7,
		PullForwardLimit:    10,
	}
}

// Selector builds the ordered set of flashcards for a review session.
type Selector struct {
	store  Store
	policy Policy
}

// NewSelector creates a selector over the given store.
func NewSelector(store Store, policy Policy) *Selector {
	return &Selector{store: store, policy: policy}
}

// SelectDue returns the flashcards to review right now.
//
// With no deadline pressure this is simply every due card, most overdue
// first. When a subject has a calendar event inside the deadline
// horizon, its not-yet-due cards are pulled forward and the whole
// session is reordered so boosted subjects come first: boost 3 for a
// deadline within 3 days, 2 within 7, 1.5 within 14, 1 otherwise. Ties
// fall back to the earliest due date.
func (s *Selector) SelectDue(now time.Time) ([]domain.DueFlashcard, error) {
	due, err := s.store.DueFlashcards(now)
	if err != nil {
		return nil, fmt.Errorf("failed to load due flashcards: %w", err)
	}

	daysUntil, err := s.deadlinesBySubject(now)
	if err != nil {
		return nil, err
	}

	if len(daysUntil) == 0 {
		for i := range due {
			due[i].PriorityBoost = 1
		}
		return due, nil
	}

	subjectIDs := make([]int64, 0, len(daysUntil))
	for id := range daysUntil {
		subjectIDs = append(subjectIDs, id)
	}
	sort.Slice(subjectIDs, func(i, j int) bool { return subjectIDs[i] < subjectIDs[j] })

	pulled, err := s.store.PullForwardFlashcards(subjectIDs, now, s.policy.PullForwardDays, s.policy.PullForwardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load pull-forward flashcards: %w", err)
	}

	merged := make([]domain.DueFlashcard, 0, len(due)+len(pulled))
	seen := make(map[int64]bool, len(due)+len(pulled))
	for _, card := range append(due, pulled...) {
		if seen[card.ID] {
			continue
		}
		seen[card.ID] = true
		days, hasDeadline := daysUntil[card.SubjectID]
		card.PriorityBoost = boostFor(days, hasDeadline)
		merged = append(merged, card)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].PriorityBoost != merged[j].PriorityBoost {
			return merged[i].PriorityBoost > merged[j].PriorityBoost
		}
		return merged[i].NextReviewDate.Before(merged[j].NextReviewDate)
	})
	return merged, nil
}

// deadlinesBySubject maps each subject with an event inside the horizon
// to the days remaining until its nearest one.
func (s *Selector) deadlinesBySubject(now time.Time) (map[int64]int, error) {
	events, err := s.store.UpcomingEvents(now, s.policy.DeadlineHorizonDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	daysUntil := make(map[int64]int)
	for _, event := range events {
		days := int(math.Ceil(event.Date.Sub(now).Hours() / 24))
		if current, ok := daysUntil[event.SubjectID]; !ok || days < current {
			daysUntil[event.SubjectID] = days
		}
	}
	return daysUntil, nil
}

func boostFor(days int, hasDeadline bool) float64 {
	if !hasDeadline {
		return 1
	}
	switch {
	case days <= 3:
		return 3
	case days <= 7:
		return 2
	case days <= 14:
		return 1.5
	default:
		return 1
	}
}
