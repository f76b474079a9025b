// Package srs implements a three-tier variant of the SM-2 spaced
// repetition algorithm. The scheduling computation is pure: it performs
// no I/O and persisting its result is the caller's responsibility.
package srs

import (
	"errors"
	"math"
	"time"
)

// Quality is the user's self-reported recall of a flashcard.
type Quality int

const (
	Hard   Quality = 0
	Medium Quality = 1
	Easy   Quality = 2
)

// Easiness factor bounds. The floor prevents runaway difficulty spirals;
// 2.5 already means "trivially easy" so the factor never grows past it.
const (
	MinEasiness = 1.3
	MaxEasiness = 2.5
)

// Defaults for a freshly created flashcard.
const (
	InitialEasiness    = 2.5
	InitialInterval    = 1
	InitialRepetitions = 0
)

// ErrInvalidRating is returned for a quality or rating string outside the
// three defined tiers. Use errors.Is to check.
var ErrInvalidRating = errors.New("srs: invalid rating")

// State is the scheduling state of a flashcard.
type State struct {
	EasinessFactor float64
	Interval       int
	Repetitions    int
}

// Result is the updated state plus the next review timestamp.
type Result struct {
	State
	NextReviewDate time.Time
}

// QualityForRating maps a user-facing rating string to its quality tier.
func QualityForRating(rating string) (Quality, error) {
	switch rating {
	case "hard":
		return Hard, nil
	case "medium":
		return Medium, nil
	case "easy":
		return Easy, nil
	default:
		return 0, ErrInvalidRating
	}
}

// Successful reports whether a rating counts as a successful recall.
func Successful(quality Quality) bool {
	return quality != Hard
}

// NextState computes the scheduling state after one review.
//
// A hard review resets the streak: repetitions go back to zero, the
// interval back to one day, and the easiness factor drops by 0.2 down to
// the floor. Medium and easy reviews extend the streak with the fixed
// early intervals (1, then 3 or 6 days) before switching to geometric
// growth of round(interval x easiness).
//
// The next review date is now plus the new interval in calendar days,
// so the wall-clock time of day is preserved across DST changes.
func NextState(quality Quality, prior State, now time.Time) (Result, error) {
	next := prior

	switch quality {
	case Hard:
		next.EasinessFactor = math.Max(MinEasiness, prior.EasinessFactor-0.2)
		next.Repetitions = 0
		next.Interval = 1

	case Medium:
		next.EasinessFactor = math.Max(MinEasiness, prior.EasinessFactor-0.05)
		next.Repetitions = prior.Repetitions + 1
		next.Interval = grownInterval(next.Repetitions, 3, prior.Interval, next.EasinessFactor)

	case Easy:
		next.EasinessFactor = math.Min(MaxEasiness, prior.EasinessFactor+0.1)
		next.Repetitions = prior.Repetitions + 1
		next.Interval = grownInterval(next.Repetitions, 6, prior.Interval, next.EasinessFactor)

	default:
		return Result{}, ErrInvalidRating
	}

	return Result{
		State:          next,
		NextReviewDate: now.AddDate(0, 0, next.Interval),
	}, nil
}

// grownInterval applies the SM-2 interval table: the first review of a
// streak waits one day, the second waits the tier's fixed interval, and
// later ones grow geometrically.
func grownInterval(repetitions, second, priorInterval int, easiness float64) int {
	switch repetitions {
	case 1:
		return 1
	case 2:
		return second
	default:
		return int(math.Round(float64(priorInterval) * easiness))
	}
}
