package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/repository"
)

// Scheduler picks the words a user should review
type Scheduler struct {
	wordRepo     repository.WordRepository
	progressRepo repository.ProgressRepository
	now          func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewScheduler creates a scheduler drawing random subsets from rng
func NewScheduler(wordRepo repository.WordRepository, progressRepo repository.ProgressRepository, rng *rand.Rand, now func() time.Time) *Scheduler {
	return &Scheduler{
		wordRepo:     wordRepo,
		progressRepo: progressRepo,
		now:          now,
		rng:          rng,
	}
}

// SelectDue returns up to limit randomly chosen words that are due for the user
func (s *Scheduler) SelectDue(ctx context.Context, username string, limit int) ([]domain.ReviewCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}

	candidates, err := s.wordRepo.FindReviewCandidates(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}

	now := s.now()
	var due []domain.ReviewCandidate
	for _, c := range candidates {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	return s.pick(due, limit)
}

// SelectWrong returns up to limit randomly chosen words from the user's wrong word set
func (s *Scheduler) SelectWrong(ctx context.Context, username string, limit int) ([]domain.ReviewCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}

	wrong, err := s.progressRepo.WrongWords(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}
	if len(wrong) == 0 {
		return nil, domain.ErrNoWordsDue
	}

	candidates, err := s.wordRepo.FindReviewCandidates(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}

	set := make(map[string]struct{}, len(wrong))
	for _, w := range wrong {
		set[w] = struct{}{}
	}
	var selected []domain.ReviewCandidate
	for _, c := range candidates {
		if _, ok := set[c.Word.English]; ok {
			selected = append(selected, c)
		}
	}

	return s.pick(selected, limit)
}

// pick returns a uniformly random subset of min(limit, len(pool)) candidates
func (s *Scheduler) pick(pool []domain.ReviewCandidate, limit int) ([]domain.ReviewCandidate, error) {
	if len(pool) == 0 {
		return nil, domain.ErrNoWordsDue
	}

	s.mu.Lock()
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	s.mu.Unlock()

	if limit > len(pool) {
		limit = len(pool)
	}
	return pool[:limit], nil
}

// seed draws a seed for a session's own random source
func (s *Scheduler) seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63()
}

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
