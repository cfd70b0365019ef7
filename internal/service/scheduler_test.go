package service

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

func englishOf(candidates []domain.ReviewCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Word.English
	}
	return out
}

func newTestScheduler(words *testutil.MockWordRepository, progress *testutil.MockProgressRepository, seed int64) *Scheduler {
	clock := testutil.NewClock(testNow)
	return NewScheduler(words, progress, rand.New(rand.NewSource(seed)), clock.Now)
}

func TestScheduler_SelectDue(t *testing.T) {
	tests := []struct {
		name          string
		candidates    []domain.ReviewCandidate
		limit         int
		mockError     error
		expectedWords []string
		expectedErr   error
	}{
		{
			name: "new and overdue words only",
			candidates: []domain.ReviewCandidate{
				testutil.NewTestCandidate("a", 0, time.Time{}),
				testutil.NewTestCandidate("b", 2, testNow.Add(-48*time.Hour)),
				testutil.NewTestCandidate("c", 1, testNow.Add(-25*time.Hour)),
			},
			limit:         10,
			expectedWords: []string{"a", "c"},
		},
		{
			name: "interval boundary is due",
			candidates: []domain.ReviewCandidate{
				testutil.NewTestCandidate("week", 3, testNow.Add(-7*24*time.Hour)),
				testutil.NewTestCandidate("almost", 4, testNow.Add(-14*24*time.Hour+time.Minute)),
			},
			limit:         10,
			expectedWords: []string{"week"},
		},
		{
			name: "nothing due",
			candidates: []domain.ReviewCandidate{
				testutil.NewTestCandidate("b", 2, testNow.Add(-time.Hour)),
			},
			limit:       10,
			expectedErr: domain.ErrNoWordsDue,
		},
		{
			name:        "no words at all",
			candidates:  []domain.ReviewCandidate{},
			limit:       5,
			expectedErr: domain.ErrNoWordsDue,
		},
		{
			name:        "store failure",
			mockError:   fmt.Errorf("db error"),
			limit:       5,
			expectedErr: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := new(testutil.MockWordRepository)
			words.On("FindReviewCandidates", mock.Anything, "alice").Return(tt.candidates, tt.mockError)

			scheduler := newTestScheduler(words, new(testutil.MockProgressRepository), 1)

			selected, err := scheduler.SelectDue(testCtx, "alice", tt.limit)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, selected)
			} else {
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.expectedWords, englishOf(selected))
			}
			words.AssertExpectations(t)
		})
	}
}

func TestScheduler_SelectDue_InvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -3} {
		words := new(testutil.MockWordRepository)
		scheduler := newTestScheduler(words, new(testutil.MockProgressRepository), 1)

		selected, err := scheduler.SelectDue(testCtx, "alice", limit)

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, selected)
		words.AssertNotCalled(t, "FindReviewCandidates", mock.Anything, mock.Anything)
	}
}

func TestScheduler_SelectDue_LimitsToRandomSubset(t *testing.T) {
	var candidates []domain.ReviewCandidate
	all := []string{"a", "b", "c", "d", "e", "f"}
	for _, w := range all {
		candidates = append(candidates, testutil.NewTestCandidate(w, 0, time.Time{}))
	}

	pick := func(seed int64) []string {
		words := new(testutil.MockWordRepository)
		words.On("FindReviewCandidates", mock.Anything, "alice").Return(candidates, nil)
		selected, err := newTestScheduler(words, new(testutil.MockProgressRepository), seed).SelectDue(testCtx, "alice", 3)
		require.NoError(t, err)
		return englishOf(selected)
	}

	first := pick(99)
	assert.Len(t, first, 3)
	assert.Subset(t, all, first)
	seen := map[string]bool{}
	for _, w := range first {
		assert.False(t, seen[w], "duplicate %s", w)
		seen[w] = true
	}

	// same seed, same subset
	assert.Equal(t, first, pick(99))
	// the store's slice is left alone
	assert.Equal(t, all, englishOf(candidates))
}

func TestScheduler_SelectWrong(t *testing.T) {
	candidates := []domain.ReviewCandidate{
		testutil.NewTestCandidate("apple", 2, testNow.Add(-time.Hour)),
		testutil.NewTestCandidate("bridge", 1, testNow.Add(-time.Hour)),
		testutil.NewTestCandidate("cloud", 0, time.Time{}),
	}

	tests := []struct {
		name          string
		wrong         []string
		expectedWords []string
		expectedErr   error
	}{
		{
			name:          "only wrong words, due or not",
			wrong:         []string{"apple", "bridge"},
			expectedWords: []string{"apple", "bridge"},
		},
		{
			name:        "empty wrong set",
			wrong:       []string{},
			expectedErr: domain.ErrNoWordsDue,
		},
		{
			name:        "wrong words no longer stored",
			wrong:       []string{"ghost"},
			expectedErr: domain.ErrNoWordsDue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := new(testutil.MockWordRepository)
			words.On("FindReviewCandidates", mock.Anything, "alice").Return(candidates, nil).Maybe()
			progress := new(testutil.MockProgressRepository)
			progress.On("WrongWords", mock.Anything, "alice").Return(tt.wrong, nil)

			selected, err := newTestScheduler(words, progress, 1).SelectWrong(testCtx, "alice", 10)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.expectedWords, englishOf(selected))
			}
			progress.AssertExpectations(t)
		})
	}
}
