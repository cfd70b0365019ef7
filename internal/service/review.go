package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/repository"

	"go.uber.org/zap"
)

// SessionKind tells where the words of a session came from
type SessionKind string

const (
	SessionDue   SessionKind = "due"
	SessionWrong SessionKind = "wrong"
)

// SessionSummary describes a review session that was flushed to storage
type SessionSummary struct {
	ID           string
	Kind         SessionKind
	Reviewed     int
	Correct      int
	Accuracy     float64
	Elapsed      time.Duration
	PointsEarned int
	WordsLearned int
}

// SessionInfo describes a newly started session
type SessionInfo struct {
	ID   string
	Kind SessionKind
	Size int
}

type activeSession struct {
	mu      sync.Mutex
	session *domain.ReviewSession
	kind    SessionKind
	closed  bool
}

// ReviewService runs at most one review session per user
type ReviewService struct {
	scheduler  *Scheduler
	ledger     *Ledger
	transactor repository.Transactor
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*activeSession
}

// NewReviewService creates a new review service
func NewReviewService(scheduler *Scheduler, ledger *Ledger, transactor repository.Transactor, now func() time.Time, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		scheduler:  scheduler,
		ledger:     ledger,
		transactor: transactor,
		now:        now,
		logger:     logger,
		sessions:   make(map[string]*activeSession),
	}
}

// StartNewSession starts a session over up to n due words
func (s *ReviewService) StartNewSession(ctx context.Context, username string, n int) (*SessionInfo, error) {
	return s.start(ctx, username, n, SessionDue, s.scheduler.SelectDue)
}

// StartWrongWordsSession starts a session over up to n words the user got wrong
func (s *ReviewService) StartWrongWordsSession(ctx context.Context, username string, n int) (*SessionInfo, error) {
	return s.start(ctx, username, n, SessionWrong, s.scheduler.SelectWrong)
}

type selectFunc func(ctx context.Context, username string, limit int) ([]domain.ReviewCandidate, error)

func (s *ReviewService) start(ctx context.Context, username string, n int, kind SessionKind, selectWords selectFunc) (*SessionInfo, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: session size must be positive, got %d", domain.ErrValidation, n)
	}
	if s.HasSession(username) {
		return nil, fmt.Errorf("%w: user %q already has an active session", domain.ErrState, username)
	}

	candidates, err := selectWords(ctx, username, n)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.scheduler.seed()))
	session, err := domain.NewReviewSession(candidates, rng, s.now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[username]; ok {
		return nil, fmt.Errorf("%w: user %q already has an active session", domain.ErrState, username)
	}
	s.sessions[username] = &activeSession{session: session, kind: kind}

	s.logger.Info("Review session started",
		zap.String("username", username),
		zap.String("session_id", session.ID()),
		zap.String("kind", string(kind)),
		zap.Int("words", session.Len()),
	)

	return &SessionInfo{ID: session.ID(), Kind: kind, Size: session.Len()}, nil
}

// HasSession reports whether the user has an active session
func (s *ReviewService) HasSession(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[username]
	return ok
}

// withSession runs fn while holding the user's session
func (s *ReviewService) withSession(username string, fn func(a *activeSession) error) error {
	s.mu.Lock()
	a, ok := s.sessions[username]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: user %q has no active session", domain.ErrState, username)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("%w: user %q has no active session", domain.ErrState, username)
	}
	return fn(a)
}

// close removes the session. The caller holds a.mu.
func (s *ReviewService) close(username string, a *activeSession) {
	a.closed = true
	s.mu.Lock()
	if s.sessions[username] == a {
		delete(s.sessions, username)
	}
	s.mu.Unlock()
}

// EndSession persists the session's results in one transaction and closes it.
// When persisting fails the session stays active and EndSession may be retried.
func (s *ReviewService) EndSession(ctx context.Context, username string) (*SessionSummary, error) {
	var summary *SessionSummary
	err := s.withSession(username, func(a *activeSession) error {
		session := a.session
		results := session.Results()

		var outcome *SessionOutcome
		if len(results) > 0 {
			err := s.transactor.WithinTx(ctx, func(words repository.WordRepository, progress repository.ProgressRepository) error {
				if err := words.ApplyReviewResults(ctx, username, results); err != nil {
					return err
				}
				var err error
				outcome, err = s.ledger.WithRepo(progress).ApplySession(ctx, username, results)
				return err
			})
			if err != nil {
				unsaved := make([]string, len(results))
				for i, r := range results {
					unsaved[i] = r.English
				}
				s.logger.Error("Failed to persist review session",
					zap.String("username", username),
					zap.String("session_id", session.ID()),
					zap.Strings("words", unsaved),
					zap.Error(err),
				)
				return &domain.FlushError{Words: unsaved, Err: err}
			}
		} else {
			outcome = &SessionOutcome{}
		}

		summary = &SessionSummary{
			ID:           session.ID(),
			Kind:         a.kind,
			Reviewed:     session.TotalCount(),
			Correct:      session.CorrectCount(),
			Accuracy:     session.Accuracy(),
			Elapsed:      session.Elapsed(),
			PointsEarned: outcome.PointsEarned,
			WordsLearned: outcome.WordsLearned,
		}
		s.close(username, a)

		s.logger.Info("Review session ended",
			zap.String("username", username),
			zap.String("session_id", session.ID()),
			zap.Stringer("state", session.State()),
			zap.Int("reviewed", summary.Reviewed),
			zap.Int("correct", summary.Correct),
			zap.Int("points", summary.PointsEarned),
			zap.Duration("elapsed", summary.Elapsed),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// DiscardSession closes the user's session without persisting anything
func (s *ReviewService) DiscardSession(username string) error {
	return s.withSession(username, func(a *activeSession) error {
		s.close(username, a)
		s.logger.Info("Review session discarded",
			zap.String("username", username),
			zap.String("session_id", a.session.ID()),
			zap.Stringer("state", a.session.State()),
			zap.Int("reviewed", a.session.TotalCount()),
		)
		return nil
	})
}

// HasNextWord reports whether the session has an unanswered word
func (s *ReviewService) HasNextWord(username string) (bool, error) {
	var hasNext bool
	err := s.withSession(username, func(a *activeSession) error {
		hasNext = a.session.HasNext()
		return nil
	})
	return hasNext, err
}

// CurrentWord returns the word waiting for an answer
func (s *ReviewService) CurrentWord(username string) (domain.ReviewItem, error) {
	var item domain.ReviewItem
	err := s.withSession(username, func(a *activeSession) error {
		var err error
		item, err = a.session.Current()
		return err
	})
	return item, err
}

// RecordAttempt applies the user's answer to the current word
func (s *ReviewService) RecordAttempt(username string, correct bool) (domain.ReviewItem, error) {
	var item domain.ReviewItem
	err := s.withSession(username, func(a *activeSession) error {
		var err error
		item, err = a.session.RecordAttempt(correct)
		return err
	})
	return item, err
}

// ShuffleRemaining reorders the words not answered yet
func (s *ReviewService) ShuffleRemaining(username string) error {
	return s.withSession(username, func(a *activeSession) error {
		a.session.Shuffle()
		return nil
	})
}

// CurrentAccuracy returns the share of correct answers so far
func (s *ReviewService) CurrentAccuracy(username string) (float64, error) {
	var accuracy float64
	err := s.withSession(username, func(a *activeSession) error {
		accuracy = a.session.Accuracy()
		return nil
	})
	return accuracy, err
}

// SessionTime returns how long the session has been running
func (s *ReviewService) SessionTime(username string) (time.Duration, error) {
	var elapsed time.Duration
	err := s.withSession(username, func(a *activeSession) error {
		elapsed = a.session.Elapsed()
		return nil
	})
	return elapsed, err
}

func (s *ReviewService) CorrectCount(username string) (int, error) {
	var n int
	err := s.withSession(username, func(a *activeSession) error {
		n = a.session.CorrectCount()
		return nil
	})
	return n, err
}

func (s *ReviewService) TotalCount(username string) (int, error) {
	var n int
	err := s.withSession(username, func(a *activeSession) error {
		n = a.session.TotalCount()
		return nil
	})
	return n, err
}

// SessionSize returns the number of words in the session
func (s *ReviewService) SessionSize(username string) (int, error) {
	var n int
	err := s.withSession(username, func(a *activeSession) error {
		n = a.session.Len()
		return nil
	})
	return n, err
}
