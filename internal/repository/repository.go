package repository

import (
	"context"

	"wordreview/internal/domain"
)

// WordRepository defines word and learning record operations.
// Lookups return nil, nil when nothing matches.
type WordRepository interface {
	FindReviewCandidates(ctx context.Context, username string) ([]domain.ReviewCandidate, error)
	FindByEnglish(ctx context.Context, english string) (*domain.Word, error)
	Save(ctx context.Context, word domain.Word) error
	ApplyReviewResults(ctx context.Context, username string, results []domain.ReviewResult) error
	MostDifficult(ctx context.Context, limit int) ([]domain.Word, error)
}

// ProgressRepository defines user progress, wrong word and history operations
type ProgressRepository interface {
	FindUser(ctx context.Context, username string) (*domain.UserProgress, error)
	EnsureUser(ctx context.Context, username string) error
	Update(ctx context.Context, progress *domain.UserProgress) error

	WrongWords(ctx context.Context, username string) ([]string, error)
	// AddWrongWord reports false when no word with that English text exists
	AddWrongWord(ctx context.Context, username, word string) (bool, error)
	RemoveWrongWord(ctx context.Context, username, word string) error

	RecordCheckIn(ctx context.Context, username string, record domain.CheckInRecord) error
	CheckIns(ctx context.Context, username string, since domain.Day) ([]domain.CheckInRecord, error)
	// AddDailyStats adds the counts of stat to the user's totals for stat.Day
	AddDailyStats(ctx context.Context, username string, stat domain.DailyStat) error
	DailyStats(ctx context.Context, username string, since domain.Day) ([]domain.DailyStat, error)
}

// TxFunc runs against repositories bound to one transaction
type TxFunc func(words WordRepository, progress ProgressRepository) error

// Transactor runs fn in a transaction, committing when fn returns nil
type Transactor interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}
