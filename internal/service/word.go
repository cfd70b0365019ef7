package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/repository"
)

// WordService handles word-related business logic
type WordService struct {
	wordRepo repository.WordRepository
	now      func() time.Time
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository, now func() time.Time) *WordService {
	return &WordService{wordRepo: wordRepo, now: now}
}

// AddWord saves a word with its translation.
// Re-adding a word updates its translation and keeps its statistics.
func (s *WordService) AddWord(ctx context.Context, english, partOfSpeech, translation string) (*domain.Word, error) {
	english = strings.ToLower(strings.TrimSpace(english))
	translation = strings.TrimSpace(translation)
	if english == "" || translation == "" {
		return nil, fmt.Errorf("%w: word and translation cannot be empty", domain.ErrValidation)
	}

	word := domain.Word{
		English:      english,
		PartOfSpeech: strings.TrimSpace(partOfSpeech),
		Translation:  translation,
		AddedAt:      s.now(),
	}
	if err := s.wordRepo.Save(ctx, word); err != nil {
		return nil, persistenceError(err)
	}
	return &word, nil
}

// GetWord returns a word by its English text
func (s *WordService) GetWord(ctx context.Context, english string) (*domain.Word, error) {
	english = strings.ToLower(strings.TrimSpace(english))
	w, err := s.wordRepo.FindByEnglish(ctx, english)
	if err != nil {
		return nil, persistenceError(err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: word %q", domain.ErrNotFound, english)
	}
	return w, nil
}
