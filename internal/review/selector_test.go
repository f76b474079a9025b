package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoyard/prepanote/internal/domain"
	"github.com/rgoyard/prepanote/internal/srs"
	"github.com/rgoyard/prepanote/internal/storage"
)

var now = time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)

// fakeStore serves canned data and records review writes.
type fakeStore struct {
	cards         map[int64]domain.Flashcard
	due           []domain.DueFlashcard
	pullForward   []domain.DueFlashcard
	events        []domain.EventWithSubject
	applied       []appliedReview
	applyErr      error
	pulledSubject []int64
}

type appliedReview struct {
	flashcardID int64
	result      srs.Result
	rating      string
	success     bool
	reviewedAt  time.Time
}

func (f *fakeStore) FlashcardByID(id int64) (*domain.Flashcard, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &card, nil
}

func (f *fakeStore) DueFlashcards(time.Time) ([]domain.DueFlashcard, error) {
	return f.due, nil
}

func (f *fakeStore) PullForwardFlashcards(subjectIDs []int64, _ time.Time, _, limit int) ([]domain.DueFlashcard, error) {
	f.pulledSubject = subjectIDs
	if len(f.pullForward) > limit {
		return f.pullForward[:limit], nil
	}
	return f.pullForward, nil
}

func (f *fakeStore) UpcomingEvents(time.Time, int) ([]domain.EventWithSubject, error) {
	return f.events, nil
}

func (f *fakeStore) ApplyReview(_ context.Context, id int64, result srs.Result, rating string, success bool, reviewedAt time.Time) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, appliedReview{id, result, rating, success, reviewedAt})
	return nil
}

func dueCard(id, subjectID int64, due time.Time, reviewCount int) domain.DueFlashcard {
	return domain.DueFlashcard{
		Flashcard: domain.Flashcard{
			ID:             id,
			NextReviewDate: due,
			ReviewCount:    reviewCount,
		},
		SubjectID: subjectID,
	}
}

func event(subjectID int64, date time.Time) domain.EventWithSubject {
	return domain.EventWithSubject{
		Event: domain.Event{SubjectID: subjectID, Date: date, Type: "test"},
	}
}

func cardIDs(cards []domain.DueFlashcard) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestSelectDueBaseline(t *testing.T) {
	// Without deadlines the session is just the due cards, most overdue
	// first, all at boost 1.
	store := &fakeStore{
		due: []domain.DueFlashcard{
			dueCard(1, 1, now.AddDate(0, 0, -2), 0),
			dueCard(2, 1, now.Add(-time.Hour), 0),
		},
	}
	selector := NewSelector(store, DefaultPolicy())

	got, err := selector.SelectDue(now)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, cardIDs(got))
	for _, card := range got {
		assert.Equal(t, 1.0, card.PriorityBoost)
	}
	assert.Nil(t, store.pulledSubject, "no pull-forward without deadlines")
}

func TestSelectDueDeadlineBoost(t *testing.T) {
	// Subject 5 has a test in 2 days; its card due in 5 days is pulled
	// forward at boost 3 and ranks above a more overdue boost-1 card.
	store := &fakeStore{
		due: []domain.DueFlashcard{
			dueCard(1, 1, now.AddDate(0, 0, -3), 4),
		},
		pullForward: []domain.DueFlashcard{
			dueCard(9, 5, now.AddDate(0, 0, 5), 0),
		},
		events: []domain.EventWithSubject{
			event(5, now.AddDate(0, 0, 2)),
		},
	}
	selector := NewSelector(store, DefaultPolicy())

	got, err := selector.SelectDue(now)
	require.NoError(t, err)

	require.Equal(t, []int64{9, 1}, cardIDs(got))
	assert.Equal(t, 3.0, got[0].PriorityBoost)
	assert.Equal(t, 1.0, got[1].PriorityBoost)
	assert.Equal(t, []int64{5}, store.pulledSubject)
}

func TestSelectDueBoostTiers(t *testing.T) {
	testCases := []struct {
		name      string
		eventIn   int // days
		wantBoost float64
	}{
		{"within 3 days", 2, 3},
		{"within 7 days", 6, 2},
		{"within 14 days", 13, 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{
				due: []domain.DueFlashcard{
					dueCard(1, 5, now.Add(-time.Hour), 0),
				},
				events: []domain.EventWithSubject{
					event(5, now.AddDate(0, 0, tc.eventIn)),
				},
			}
			got, err := NewSelector(store, DefaultPolicy()).SelectDue(now)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantBoost, got[0].PriorityBoost)
		})
	}
}

func TestSelectDueNearestEventWins(t *testing.T) {
	// Two events for the same subject: only the nearest one sets the
	// boost.
	store := &fakeStore{
		due: []domain.DueFlashcard{
			dueCard(1, 5, now.Add(-time.Hour), 0),
		},
		events: []domain.EventWithSubject{
			event(5, now.AddDate(0, 0, 12)),
			event(5, now.AddDate(0, 0, 2)),
		},
	}
	got, err := NewSelector(store, DefaultPolicy()).SelectDue(now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].PriorityBoost)
}

func TestSelectDueDeduplicates(t *testing.T) {
	// A card that is both due and matched by the pull-forward query
	// appears exactly once.
	overlap := dueCard(7, 5, now.Add(-time.Hour), 1)
	store := &fakeStore{
		due:         []domain.DueFlashcard{overlap},
		pullForward: []domain.DueFlashcard{overlap, dueCard(8, 5, now.AddDate(0, 0, 3), 0)},
		events: []domain.EventWithSubject{
			event(5, now.AddDate(0, 0, 6)),
		},
	}
	got, err := NewSelector(store, DefaultPolicy()).SelectDue(now)
	require.NoError(t, err)

	assert.Equal(t, []int64{7, 8}, cardIDs(got))
}

func TestSelectDueEqualBoostOrdersByDueDate(t *testing.T) {
	store := &fakeStore{
		due: []domain.DueFlashcard{
			dueCard(1, 5, now.Add(-time.Hour), 0),
			dueCard(2, 5, now.AddDate(0, 0, -2), 0),
		},
		events: []domain.EventWithSubject{
			event(5, now.AddDate(0, 0, 2)),
		},
	}
	got, err := NewSelector(store, DefaultPolicy()).SelectDue(now)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 1}, cardIDs(got))
	assert.Equal(t, 3.0, got[0].PriorityBoost)
	assert.Equal(t, 3.0, got[1].PriorityBoost)
}
