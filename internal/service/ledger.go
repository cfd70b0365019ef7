package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/repository"

	"go.uber.org/zap"
)

// CheckInResult describes a successful daily check-in
type CheckInResult struct {
	Points     int
	Streak     int
	TotalScore int
}

// SessionOutcome is what a flushed review session added to the user's progress
type SessionOutcome struct {
	PointsEarned int
	WordsLearned int
	Wrong        int
	Corrected    int
}

// Ledger applies check-in, scoring and wrong word rules to a user's progress
type Ledger struct {
	progressRepo repository.ProgressRepository
	transactor   repository.Transactor
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewLedger creates a ledger counting calendar days in loc
func NewLedger(progressRepo repository.ProgressRepository, transactor repository.Transactor, loc *time.Location, now func() time.Time, logger *zap.Logger) *Ledger {
	return &Ledger{
		progressRepo: progressRepo,
		transactor:   transactor,
		loc:          loc,
		now:          now,
		logger:       logger,
	}
}

// WithRepo returns a copy of the ledger working on progressRepo
func (l *Ledger) WithRepo(progressRepo repository.ProgressRepository) *Ledger {
	c := *l
	c.progressRepo = progressRepo
	return &c
}

// Register creates the user's progress record if it does not exist yet
func (l *Ledger) Register(ctx context.Context, username string) error {
	if err := l.progressRepo.EnsureUser(ctx, username); err != nil {
		return persistenceError(err)
	}
	return nil
}

// Progress returns the user's progress
func (l *Ledger) Progress(ctx context.Context, username string) (*domain.UserProgress, error) {
	p, err := l.progressRepo.FindUser(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}
	return p, nil
}

// CheckIn records today's check-in for the user.
// The new streak and score are stored together with the history entry.
func (l *Ledger) CheckIn(ctx context.Context, username string) (*CheckInResult, error) {
	var result *CheckInResult
	err := l.transactor.WithinTx(ctx, func(_ repository.WordRepository, progress repository.ProgressRepository) error {
		var err error
		result, err = l.WithRepo(progress).checkIn(ctx, username)
		return err
	})
	if err != nil {
		return nil, txError(err)
	}

	l.logger.Info("User checked in",
		zap.String("username", username),
		zap.Int("streak", result.Streak),
		zap.Int("points", result.Points),
	)
	return result, nil
}

func (l *Ledger) checkIn(ctx context.Context, username string) (*CheckInResult, error) {
	p, err := l.Progress(ctx, username)
	if err != nil {
		return nil, err
	}

	now := l.now()
	points, err := p.CheckIn(now, l.loc)
	if err != nil {
		return nil, err
	}

	if err := l.progressRepo.Update(ctx, p); err != nil {
		return nil, persistenceError(err)
	}
	record := domain.CheckInRecord{Day: domain.DayOf(now, l.loc), Points: points, Streak: p.DaysStreak}
	if err := l.progressRepo.RecordCheckIn(ctx, username, record); err != nil {
		return nil, persistenceError(err)
	}

	return &CheckInResult{Points: points, Streak: p.DaysStreak, TotalScore: p.TotalScore}, nil
}

// AddScore adds positive points to the user's score
func (l *Ledger) AddScore(ctx context.Context, username string, points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", domain.ErrValidation, points)
	}

	p, err := l.Progress(ctx, username)
	if err != nil {
		return err
	}
	if err := p.AddScore(points); err != nil {
		return err
	}
	if err := l.progressRepo.Update(ctx, p); err != nil {
		return persistenceError(err)
	}
	return nil
}

// WrongWords returns the user's wrong word set
func (l *Ledger) WrongWords(ctx context.Context, username string) ([]string, error) {
	words, err := l.progressRepo.WrongWords(ctx, username)
	if err != nil {
		return nil, persistenceError(err)
	}
	return words, nil
}

// MarkWrong adds word to the user's wrong word set.
// Marking a word twice is not an error, marking an unknown word is.
func (l *Ledger) MarkWrong(ctx context.Context, username, word string) error {
	found, err := l.progressRepo.AddWrongWord(ctx, username, word)
	if err != nil {
		return persistenceError(err)
	}
	if !found {
		return fmt.Errorf("%w: word %q", domain.ErrNotFound, word)
	}
	return nil
}

// MarkCorrected removes word from the user's wrong word set
func (l *Ledger) MarkCorrected(ctx context.Context, username, word string) error {
	if err := l.progressRepo.RemoveWrongWord(ctx, username, word); err != nil {
		return persistenceError(err)
	}
	return nil
}

// ApplySession credits a finished session's results to the user.
// A wrong answer puts the word into the wrong word set, a correct one takes it out.
// The answers are also added to today's statistics.
func (l *Ledger) ApplySession(ctx context.Context, username string, results []domain.ReviewResult) (*SessionOutcome, error) {
	outcome := &SessionOutcome{}
	if len(results) == 0 {
		return outcome, nil
	}

	for _, r := range results {
		if r.Correct {
			outcome.PointsEarned += domain.CorrectAnswerPoints
			outcome.Corrected++
		} else {
			outcome.Wrong++
		}
		if r.Learned() {
			outcome.WordsLearned++
		}
	}

	p, err := l.Progress(ctx, username)
	if err != nil {
		return nil, err
	}
	if outcome.PointsEarned > 0 {
		if err := p.AddScore(outcome.PointsEarned); err != nil {
			return nil, err
		}
	}
	p.TotalWordsLearned += outcome.WordsLearned
	if outcome.PointsEarned > 0 || outcome.WordsLearned > 0 {
		if err := l.progressRepo.Update(ctx, p); err != nil {
			return nil, persistenceError(err)
		}
	}

	for _, r := range results {
		if r.Correct {
			err = l.MarkCorrected(ctx, username, r.English)
		} else {
			err = l.MarkWrong(ctx, username, r.English)
		}
		if err != nil {
			return nil, err
		}
	}

	stat := domain.StatsOf(domain.DayOf(l.now(), l.loc), results)
	if err := l.progressRepo.AddDailyStats(ctx, username, stat); err != nil {
		return nil, persistenceError(err)
	}

	return outcome, nil
}

// txError keeps the domain errors a transaction function returned and
// reports anything else, such as a failed commit, as a persistence error
func txError(err error) error {
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrState,
		domain.ErrAlreadyCheckedIn,
		domain.ErrPersistence,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return persistenceError(err)
}
