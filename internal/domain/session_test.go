package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)}
}

func candidates(words ...string) []ReviewCandidate {
	out := make([]ReviewCandidate, 0, len(words))
	for _, w := range words {
		out = append(out, ReviewCandidate{Word: Word{English: w, Translation: w + "-tr"}})
	}
	return out
}

func TestNewReviewSession_Empty(t *testing.T) {
	clock := newClock()

	session, err := NewReviewSession(nil, rand.New(rand.NewSource(1)), clock.Now)

	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, session)
}

func TestNewReviewSession_CopiesCandidates(t *testing.T) {
	clock := newClock()
	input := candidates("apple")

	session, err := NewReviewSession(input, rand.New(rand.NewSource(1)), clock.Now)
	require.NoError(t, err)

	input[0].Word.Translation = "changed"

	item, err := session.Current()
	require.NoError(t, err)
	assert.Equal(t, "apple-tr", item.Word.Translation)
	assert.Equal(t, SessionCreated, session.State())
	assert.NotEmpty(t, session.ID())
}

func TestReviewSession_TwoItemScenario(t *testing.T) {
	clock := newClock()
	session, err := NewReviewSession(candidates("apple", "bridge"), rand.New(rand.NewSource(7)), clock.Now)
	require.NoError(t, err)

	first, err := session.Current()
	require.NoError(t, err)

	clock.Advance(time.Minute)
	answered, err := session.RecordAttempt(true)
	require.NoError(t, err)
	assert.Equal(t, first.Word.English, answered.Word.English)
	assert.Equal(t, 2, answered.MasteryLevel)
	assert.Equal(t, clock.Now().Add(3*24*time.Hour), answered.NextReviewDate)
	assert.Equal(t, SessionInProgress, session.State())

	answered, err = session.RecordAttempt(false)
	require.NoError(t, err)
	assert.Equal(t, 1, answered.MasteryLevel)
	assert.Equal(t, clock.Now().Add(24*time.Hour), answered.NextReviewDate)

	assert.False(t, session.HasNext())
	assert.Equal(t, SessionFinished, session.State())
	assert.Equal(t, 1, session.CorrectCount())
	assert.Equal(t, 2, session.TotalCount())
	assert.Equal(t, 0.5, session.Accuracy())

	results := session.Results()
	require.Len(t, results, 2)
	assert.True(t, results[0].Correct)
	assert.False(t, results[1].Correct)
}

func TestReviewSession_AcceptsExactlyNAttempts(t *testing.T) {
	for n := 1; n <= 5; n++ {
		clock := newClock()
		words := make([]string, n)
		for i := range words {
			words[i] = string(rune('a' + i))
		}
		session, err := NewReviewSession(candidates(words...), rand.New(rand.NewSource(int64(n))), clock.Now)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			require.True(t, session.HasNext())
			_, err := session.RecordAttempt(i%2 == 0)
			require.NoError(t, err)
		}

		assert.False(t, session.HasNext())
		_, err = session.RecordAttempt(true)
		assert.ErrorIs(t, err, ErrState)
		_, err = session.Current()
		assert.ErrorIs(t, err, ErrState)
		assert.Equal(t, n, session.TotalCount())
	}
}

func TestReviewSession_MasteryStaysInBounds(t *testing.T) {
	clock := newClock()
	input := []ReviewCandidate{
		{Word: Word{English: "top"}, Record: &LearningRecord{MasteryLevel: 4}},
		{Word: Word{English: "bottom"}, Record: &LearningRecord{MasteryLevel: 1}},
	}
	session, err := NewReviewSession(input, rand.New(rand.NewSource(3)), clock.Now)
	require.NoError(t, err)

	for session.HasNext() {
		item, err := session.Current()
		require.NoError(t, err)

		// push each item against its bound
		answered, err := session.RecordAttempt(item.MasteryLevel == MaxMasteryLevel)
		require.NoError(t, err)
		assert.Equal(t, item.MasteryLevel, answered.MasteryLevel)
	}
}

func TestReviewSession_AccuracyBeforeAnswers(t *testing.T) {
	clock := newClock()
	session, err := NewReviewSession(candidates("apple"), rand.New(rand.NewSource(1)), clock.Now)
	require.NoError(t, err)

	assert.Equal(t, 0.0, session.Accuracy())
	assert.Empty(t, session.Results())
}

func TestReviewSession_Elapsed(t *testing.T) {
	clock := newClock()
	session, err := NewReviewSession(candidates("apple"), rand.New(rand.NewSource(1)), clock.Now)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), session.Elapsed())
	clock.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, session.Elapsed())
}

func TestReviewSession_ShuffleIsDeterministicForSeed(t *testing.T) {
	clock := newClock()
	words := candidates("a", "b", "c", "d", "e", "f", "g", "h")

	first, err := NewReviewSession(words, rand.New(rand.NewSource(42)), clock.Now)
	require.NoError(t, err)
	second, err := NewReviewSession(words, rand.New(rand.NewSource(42)), clock.Now)
	require.NoError(t, err)

	assert.Equal(t, englishOf(first.items), englishOf(second.items))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, englishOf(first.items))
}

func TestReviewSession_ShuffleKeepsAnsweredItems(t *testing.T) {
	clock := newClock()
	session, err := NewReviewSession(candidates("a", "b", "c", "d", "e"), rand.New(rand.NewSource(5)), clock.Now)
	require.NoError(t, err)

	_, err = session.RecordAttempt(true)
	require.NoError(t, err)
	_, err = session.RecordAttempt(false)
	require.NoError(t, err)

	before := append([]ReviewItem(nil), session.items...)
	session.Shuffle()
	after := session.items

	assert.Equal(t, before[:2], after[:2])
	assert.ElementsMatch(t, englishOf(before[2:]), englishOf(after[2:]))
	assert.Equal(t, 2, session.TotalCount())
	assert.Len(t, session.Results(), 2)

	remaining := 0
	for session.HasNext() {
		_, err := session.RecordAttempt(true)
		require.NoError(t, err)
		remaining++
	}
	assert.Equal(t, 3, remaining)
}

func TestReviewResult_Learned(t *testing.T) {
	assert.True(t, ReviewResult{PreviousMasteryLevel: 3, MasteryLevel: 4}.Learned())
	assert.False(t, ReviewResult{PreviousMasteryLevel: 4, MasteryLevel: 4}.Learned())
	assert.False(t, ReviewResult{PreviousMasteryLevel: 2, MasteryLevel: 3}.Learned())
}

func englishOf(items []ReviewItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Word.English
	}
	return out
}
