package testutil

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"wordreview/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestRand creates a deterministic random source
func NewTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// Clock is a settable time source for tests
type Clock struct {
	Current time.Time
}

// NewClock creates a clock stopped at t
func NewClock(t time.Time) *Clock {
	return &Clock{Current: t}
}

func (c *Clock) Now() time.Time { return c.Current }

func (c *Clock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }

// NewTestWord creates a test word
func NewTestWord(english, translation string) domain.Word {
	return domain.Word{
		English:      english,
		PartOfSpeech: "noun",
		Translation:  translation,
		AddedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewTestCandidate creates a review candidate.
// A level of 0 means the user never reviewed the word.
func NewTestCandidate(english string, level int, lastReviewed time.Time) domain.ReviewCandidate {
	c := domain.ReviewCandidate{Word: NewTestWord(english, english+"-tr")}
	if level > 0 {
		c.Record = &domain.LearningRecord{
			MasteryLevel:   level,
			LastReviewedAt: lastReviewed,
			NextReviewAt:   lastReviewed.Add(domain.Interval(level)),
		}
	}
	return c
}

// NewTestProgress creates a user's progress
func NewTestProgress(username string) *domain.UserProgress {
	return &domain.UserProgress{
		Username:  username,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
