package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 10, 18, 30, 0, 0, time.Local)

func TestQualityForRating(t *testing.T) {
	testCases := []struct {
		rating  string
		quality Quality
		wantErr bool
	}{
		{"hard", Hard, false},
		{"medium", Medium, false},
		{"easy", Easy, false},
		{"", 0, true},
		{"EASY", 0, true},
		{"again", 0, true},
	}

	for _, tc := range testCases {
		q, err := QualityForRating(tc.rating)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %q", tc.rating)
		} else {
			require.NoError(t, err)
			assert.Equal(t, tc.quality, q, "rating %q", tc.rating)
		}
	}
}

func TestNextStateHardResets(t *testing.T) {
	testCases := []struct {
		name  string
		prior State
	}{
		{"fresh card", State{EasinessFactor: 2.5, Interval: 1, Repetitions: 0}},
		{"long streak", State{EasinessFactor: 2.1, Interval: 42, Repetitions: 7}},
		{"at the floor", State{EasinessFactor: 1.3, Interval: 3, Repetitions: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextState(Hard, tc.prior, testNow)
			require.NoError(t, err)

			assert.Equal(t, 0, got.Repetitions)
			assert.Equal(t, 1, got.Interval)
			assert.Equal(t, testNow.AddDate(0, 0, 1), got.NextReviewDate)
			assert.GreaterOrEqual(t, got.EasinessFactor, MinEasiness)
		})
	}
}

func TestNextStateIntervalTable(t *testing.T) {
	// First review of a streak waits one day, the second three (medium)
	// or six (easy) days, later ones grow by round(interval x easiness).
	testCases := []struct {
		name         string
		quality      Quality
		prior        State
		wantInterval int
		wantReps     int
	}{
		{"medium first", Medium, State{2.5, 1, 0}, 1, 1},
		{"medium second", Medium, State{2.5, 1, 1}, 3, 2},
		{"medium third", Medium, State{2.5, 3, 2}, 7, 3}, // round(3 x 2.45)
		{"easy first", Easy, State{2.5, 1, 0}, 1, 1},
		{"easy second", Easy, State{2.5, 1, 1}, 6, 2},
		{"easy third", Easy, State{2.5, 6, 2}, 15, 3}, // round(6 x 2.5)
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextState(tc.quality, tc.prior, testNow)
			require.NoError(t, err)

			assert.Equal(t, tc.wantInterval, got.Interval)
			assert.Equal(t, tc.wantReps, got.Repetitions)
			assert.Equal(t, testNow.AddDate(0, 0, tc.wantInterval), got.NextReviewDate)
		})
	}
}

func TestNextStateEasinessBounds(t *testing.T) {
	// The easiness factor stays within [1.3, 2.5] under repeated
	// application of any quality, starting anywhere inside the range.
	for _, start := range []float64{1.3, 1.5, 2.0, 2.5} {
		for _, q := range []Quality{Hard, Medium, Easy} {
			state := State{EasinessFactor: start, Interval: 1, Repetitions: 0}
			for i := 0; i < 50; i++ {
				got, err := NextState(q, state, testNow)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got.EasinessFactor, MinEasiness)
				assert.LessOrEqual(t, got.EasinessFactor, MaxEasiness)
				state = got.State
			}
		}
	}
}

func TestNextStateEasyRun(t *testing.T) {
	// Three consecutive easy reviews from initial state: the factor is
	// pinned at the 2.5 ceiling, so intervals go 1, 6, round(6 x 2.5)=15.
	state := State{EasinessFactor: 2.5, Interval: 1, Repetitions: 0}

	var intervals []int
	for i := 0; i < 3; i++ {
		got, err := NextState(Easy, state, testNow)
		require.NoError(t, err)
		intervals = append(intervals, got.Interval)
		state = got.State
	}

	assert.Equal(t, []int{1, 6, 15}, intervals)
	assert.Equal(t, 2.5, state.EasinessFactor)
}

func TestNextStateMediumRun(t *testing.T) {
	// Medium reviews shave 0.05 off the factor each time: after the
	// second review EF is 2.40, so the third interval is round(3 x 2.35).
	state := State{EasinessFactor: 2.5, Interval: 1, Repetitions: 0}

	var intervals []int
	for i := 0; i < 3; i++ {
		got, err := NextState(Medium, state, testNow)
		require.NoError(t, err)
		intervals = append(intervals, got.Interval)
		state = got.State
	}

	assert.Equal(t, []int{1, 3, 7}, intervals)
	assert.InDelta(t, 2.35, state.EasinessFactor, 1e-9)
}

func TestNextStateDeterministic(t *testing.T) {
	prior := State{EasinessFactor: 2.2, Interval: 12, Repetitions: 4}

	first, err := NextState(Medium, prior, testNow)
	require.NoError(t, err)
	second, err := NextState(Medium, prior, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNextStatePreservesTimeOfDay(t *testing.T) {
	got, err := NextState(Easy, State{EasinessFactor: 2.5, Interval: 6, Repetitions: 2}, testNow)
	require.NoError(t, err)

	assert.Equal(t, testNow.Hour(), got.NextReviewDate.Hour())
	assert.Equal(t, testNow.Minute(), got.NextReviewDate.Minute())
	assert.Equal(t, 15, int(got.NextReviewDate.Sub(testNow).Hours()/24))
}

func TestNextStateInvalidQuality(t *testing.T) {
	for _, q := range []Quality{-1, 3, 42} {
		_, err := NextState(q, State{EasinessFactor: 2.5, Interval: 1}, testNow)
		assert.ErrorIs(t, err, ErrInvalidRating, "quality %d", q)
	}
}

func TestSuccessful(t *testing.T) {
	assert.False(t, Successful(Hard))
	assert.True(t, Successful(Medium))
	assert.True(t, Successful(Easy))
}
