package review

import (
	"context"
	"fmt"
	"time"

	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/srs"
)

// Service records review outcomes against the store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a review service. now defaults to time.Now and is
// injectable for tests.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// RecordReview applies a user's rating to a flashcard: the new
// scheduling state is computed and persisted together with the history
// entry in one transaction, so a lost race with a deletion voids the
// review instead of half-applying it. The history entry is stamped with
// the same instant the new state was computed from.
//
// Returns srs.ErrInvalidRating for an unknown rating string and
// storage.ErrNotFound when the card no longer exists.
func (s *Service) RecordReview(ctx context.Context, flashcardID int64, rating string) (*domain.Flashcard, error) {
	quality, err := srs.QualityForRating(rating)
	if err != nil {
		return nil, err
	}

	card, err := s.store.FlashcardByID(flashcardID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result, err := srs.NextState(quality, srs.State{
		EasinessFactor: card.EasinessFactor,
		Interval:       card.Interval,
		Repetitions:    card.Repetitions,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.ApplyReview(ctx, card.ID, result, rating, srs.Successful(quality), now); err != nil {
		return nil, fmt.Errorf("failed to record review for flashcard %d: %w", card.ID, err)
	}

	card.EasinessFactor = result.EasinessFactor
	card.Interval = result.Interval
	card.Repetitions = result.Repetitions
	card.NextReviewDate = result.NextReviewDate
	card.ReviewCount++
	return card, nil
}
