package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle stage of a review session
type SessionState int

const (
	SessionCreated SessionState = iota
	SessionInProgress
	SessionFinished
)

func (s SessionState) String() string {
	switch s {
	case SessionCreated:
		return "created"
	case SessionInProgress:
		return "in_progress"
	case SessionFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ReviewItem is a word under review together with its session state
type ReviewItem struct {
	Word                Word
	InitialMasteryLevel int
	MasteryLevel        int
	NextReviewDate      time.Time
	ReviewedAt          time.Time
	Reviewed            bool
	Correct             bool
}

// ReviewSession walks a fixed batch of items once, adjusting mastery per answer.
// It is not safe for concurrent use.
type ReviewSession struct {
	id           string
	items        []ReviewItem
	current      int
	correctCount int
	totalCount   int
	startTime    time.Time
	rng          *rand.Rand
	now          func() time.Time
}

// NewReviewSession builds a session over a copy of candidates and shuffles it
func NewReviewSession(candidates []ReviewCandidate, rng *rand.Rand, now func() time.Time) (*ReviewSession, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: review session needs at least one word", ErrValidation)
	}

	start := now()
	items := make([]ReviewItem, 0, len(candidates))
	for _, c := range candidates {
		level := c.MasteryLevel()
		items = append(items, ReviewItem{
			Word:                c.Word,
			InitialMasteryLevel: level,
			MasteryLevel:        level,
			NextReviewDate:      start.Add(Interval(level)),
		})
	}

	s := &ReviewSession{
		id:        uuid.NewString(),
		items:     items,
		startTime: start,
		rng:       rng,
		now:       now,
	}
	s.Shuffle()
	return s, nil
}

// ID identifies the session in logs
func (s *ReviewSession) ID() string {
	return s.id
}

// State returns the current lifecycle stage
func (s *ReviewSession) State() SessionState {
	switch {
	case s.current >= len(s.items):
		return SessionFinished
	case s.totalCount == 0:
		return SessionCreated
	default:
		return SessionInProgress
	}
}

// HasNext reports whether an item is waiting for an answer
func (s *ReviewSession) HasNext() bool {
	return s.current < len(s.items)
}

// Current returns the item waiting for an answer
func (s *ReviewSession) Current() (ReviewItem, error) {
	if !s.HasNext() {
		return ReviewItem{}, fmt.Errorf("%w: review session is finished", ErrState)
	}
	return s.items[s.current], nil
}

// RecordAttempt applies an answer to the current item and moves to the next one
func (s *ReviewSession) RecordAttempt(correct bool) (ReviewItem, error) {
	if !s.HasNext() {
		return ReviewItem{}, fmt.Errorf("%w: review session is finished", ErrState)
	}

	now := s.now()
	item := &s.items[s.current]
	item.Reviewed = true
	item.Correct = correct
	item.ReviewedAt = now
	item.MasteryLevel = NextMasteryLevel(item.MasteryLevel, correct)
	item.NextReviewDate = now.Add(Interval(item.MasteryLevel))

	s.totalCount++
	if correct {
		s.correctCount++
	}
	s.current++

	return *item, nil
}

// Shuffle reorders the items not answered yet.
// Answered items and their results stay where they are.
func (s *ReviewSession) Shuffle() {
	remaining := s.items[s.current:]
	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
}

// Accuracy returns correct/total answers, 0 before the first answer
func (s *ReviewSession) Accuracy() float64 {
	if s.totalCount == 0 {
		return 0
	}
	return float64(s.correctCount) / float64(s.totalCount)
}

// Elapsed returns the time since the session started
func (s *ReviewSession) Elapsed() time.Duration {
	return s.now().Sub(s.startTime)
}

func (s *ReviewSession) CorrectCount() int { return s.correctCount }

func (s *ReviewSession) TotalCount() int { return s.totalCount }

func (s *ReviewSession) Len() int { return len(s.items) }

// Results returns the outcome of every answered item
func (s *ReviewSession) Results() []ReviewResult {
	var results []ReviewResult
	for _, item := range s.items {
		if !item.Reviewed {
			continue
		}
		results = append(results, ReviewResult{
			English:              item.Word.English,
			PreviousMasteryLevel: item.InitialMasteryLevel,
			MasteryLevel:         item.MasteryLevel,
			Correct:              item.Correct,
			ReviewedAt:           item.ReviewedAt,
			NextReviewAt:         item.NextReviewDate,
		})
	}
	return results
}
