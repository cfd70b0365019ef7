package service

import (
	"context"
	"fmt"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/repository"

	"go.uber.org/zap"
)

// Summary is a user's learning overview
type Summary struct {
	TotalWords        int
	New               int
	Learning          int
	Mastered          int
	DueNow            int
	WrongWords        int
	Accuracy          float64 // over all of the user's answers
	Today             domain.DailyStat
	Week              domain.DailyStat // last seven days including today
	DaysStreak        int
	TotalScore        int
	TotalWordsLearned int
	CheckInsThisMonth int
	LastCheckin       *domain.Day
}

// weekDays is how many calendar days Summary.Week covers
const weekDays = 7

// StatsService builds learning statistics
type StatsService struct {
	wordRepo     repository.WordRepository
	progressRepo repository.ProgressRepository
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(wordRepo repository.WordRepository, progressRepo repository.ProgressRepository, loc *time.Location, now func() time.Time, logger *zap.Logger) *StatsService {
	return &StatsService{
		wordRepo:     wordRepo,
		progressRepo: progressRepo,
		loc:          loc,
		now:          now,
		logger:       logger,
	}
}

// Summary counts the user's words by mastery and adds score and streak
func (s *StatsService) Summary(ctx context.Context, username string) (*Summary, error) {
	progress, err := s.progressRepo.FindUser(ctx, username)
	if err != nil {
		s.logger.Error("Failed to load progress", zap.String("username", username), zap.Error(err))
		return nil, persistenceError(err)
	}
	if progress == nil {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}

	candidates, err := s.wordRepo.FindReviewCandidates(ctx, username)
	if err != nil {
		s.logger.Error("Failed to load words", zap.String("username", username), zap.Error(err))
		return nil, persistenceError(err)
	}

	wrong, err := s.progressRepo.WrongWords(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}

	today := domain.DayOf(s.now(), s.loc)
	stats, err := s.progressRepo.DailyStats(ctx, username, domain.Day{})
	if err != nil {
		return nil, persistenceError(err)
	}
	checkins, err := s.progressRepo.CheckIns(ctx, username, today.MonthStart())
	if err != nil {
		return nil, persistenceError(err)
	}

	sum := &Summary{
		TotalWords:        len(candidates),
		WrongWords:        len(wrong),
		DaysStreak:        progress.DaysStreak,
		TotalScore:        progress.TotalScore,
		TotalWordsLearned: progress.TotalWordsLearned,
		CheckInsThisMonth: len(checkins),
		Accuracy:          domain.SumStats(stats, domain.Day{}).Accuracy(),
		Today:             domain.SumStats(stats, today),
		Week:              domain.SumStats(stats, today.AddDays(1-weekDays)),
	}
	if !progress.LastCheckinDate.IsZero() {
		day := domain.DayOf(progress.LastCheckinDate, s.loc)
		sum.LastCheckin = &day
	}

	now := s.now()
	for _, c := range candidates {
		switch {
		case c.Record == nil:
			sum.New++
		case c.Record.MasteryLevel >= domain.MaxMasteryLevel:
			sum.Mastered++
		default:
			sum.Learning++
		}
		if c.IsDue(now) {
			sum.DueNow++
		}
	}

	return sum, nil
}

// MostDifficult returns attempted words with the lowest accuracy
func (s *StatsService) MostDifficult(ctx context.Context, limit int) ([]domain.Word, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}
	words, err := s.wordRepo.MostDifficult(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to load difficult words", zap.Error(err))
		return nil, persistenceError(err)
	}
	return words, nil
}

// CheckInHistory returns the user's check-ins of the last days calendar days, oldest first
func (s *StatsService) CheckInHistory(ctx context.Context, username string, days int) ([]domain.CheckInRecord, error) {
	since, err := s.since(days)
	if err != nil {
		return nil, err
	}
	records, err := s.progressRepo.CheckIns(ctx, username, since)
	if err != nil {
		s.logger.Error("Failed to load check-ins", zap.String("username", username), zap.Error(err))
		return nil, persistenceError(err)
	}
	return records, nil
}

// DailyStats returns the user's answers per day for the last days calendar days.
// Days without answers are left out.
func (s *StatsService) DailyStats(ctx context.Context, username string, days int) ([]domain.DailyStat, error) {
	since, err := s.since(days)
	if err != nil {
		return nil, err
	}
	stats, err := s.progressRepo.DailyStats(ctx, username, since)
	if err != nil {
		s.logger.Error("Failed to load daily stats", zap.String("username", username), zap.Error(err))
		return nil, persistenceError(err)
	}
	return stats, nil
}

// since returns the first of the last days calendar days
func (s *StatsService) since(days int) (domain.Day, error) {
	if days <= 0 {
		return domain.Day{}, fmt.Errorf("%w: days must be positive, got %d", domain.ErrValidation, days)
	}
	return domain.DayOf(s.now(), s.loc).AddDays(1 - days), nil
}
