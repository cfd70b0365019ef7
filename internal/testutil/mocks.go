package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wordreview/internal/domain"
	"wordreview/internal/repository"
)

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) FindReviewCandidates(ctx context.Context, username string) ([]domain.ReviewCandidate, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewCandidate), args.Error(1)
}

func (m *MockWordRepository) FindByEnglish(ctx context.Context, english string) (*domain.Word, error) {
	args := m.Called(ctx, english)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) Save(ctx context.Context, word domain.Word) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockWordRepository) ApplyReviewResults(ctx context.Context, username string, results []domain.ReviewResult) error {
	args := m.Called(ctx, username, results)
	return args.Error(0)
}

func (m *MockWordRepository) MostDifficult(ctx context.Context, limit int) ([]domain.Word, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}

// MockProgressRepository is a mock for ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) FindUser(ctx context.Context, username string) (*domain.UserProgress, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProgress), args.Error(1)
}

func (m *MockProgressRepository) EnsureUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockProgressRepository) Update(ctx context.Context, progress *domain.UserProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) WrongWords(ctx context.Context, username string) ([]string, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProgressRepository) AddWrongWord(ctx context.Context, username, word string) (bool, error) {
	args := m.Called(ctx, username, word)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) RemoveWrongWord(ctx context.Context, username, word string) error {
	args := m.Called(ctx, username, word)
	return args.Error(0)
}

func (m *MockProgressRepository) RecordCheckIn(ctx context.Context, username string, record domain.CheckInRecord) error {
	args := m.Called(ctx, username, record)
	return args.Error(0)
}

func (m *MockProgressRepository) CheckIns(ctx context.Context, username string, since domain.Day) ([]domain.CheckInRecord, error) {
	args := m.Called(ctx, username, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckInRecord), args.Error(1)
}

func (m *MockProgressRepository) AddDailyStats(ctx context.Context, username string, stat domain.DailyStat) error {
	args := m.Called(ctx, username, stat)
	return args.Error(0)
}

func (m *MockProgressRepository) DailyStats(ctx context.Context, username string, since domain.Day) ([]domain.DailyStat, error) {
	args := m.Called(ctx, username, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyStat), args.Error(1)
}

// MockTransactor runs the function against the given mock repositories.
// Err, when set, is returned without calling the function.
type MockTransactor struct {
	Words    repository.WordRepository
	Progress repository.ProgressRepository
	Err      error
	Calls    int
}

func (m *MockTransactor) WithinTx(_ context.Context, fn repository.TxFunc) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Words, m.Progress)
}
