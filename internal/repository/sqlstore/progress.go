package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"wordreview/internal/domain"
)

// ProgressRepo implements repository.ProgressRepository
type ProgressRepo struct {
	db  dbtx
	now func() time.Time
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db, now: time.Now}
}

// FindUser returns the user's progress
func (r *ProgressRepo) FindUser(ctx context.Context, username string) (*domain.UserProgress, error) {
	var (
		p           domain.UserProgress
		lastCheckin sql.NullTime
	)
	query := `
		SELECT username, total_score, days_streak, total_words_learned, last_checkin_date, created_at
		FROM users
		WHERE username = $1
	`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&p.Username, &p.TotalScore, &p.DaysStreak, &p.TotalWordsLearned, &lastCheckin, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find user %q", username)
	}

	if lastCheckin.Valid {
		p.LastCheckinDate = lastCheckin.Time
	}

	return &p, nil
}

// EnsureUser creates user if not exists
func (r *ProgressRepo) EnsureUser(ctx context.Context, username string) error {
	query := `
		INSERT INTO users (username, total_score, days_streak, total_words_learned, created_at)
		VALUES ($1, 0, 0, 0, $2)
		ON CONFLICT (username) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, username, r.now())
	return errors.Wrapf(err, "ensure user %q", username)
}

// Update stores score, streak and check-in state of an existing user
func (r *ProgressRepo) Update(ctx context.Context, progress *domain.UserProgress) error {
	var lastCheckin sql.NullTime
	if !progress.LastCheckinDate.IsZero() {
		lastCheckin = sql.NullTime{Time: progress.LastCheckinDate, Valid: true}
	}

	query := `
		UPDATE users
		SET total_score = $1, days_streak = $2, total_words_learned = $3, last_checkin_date = $4
		WHERE username = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		progress.TotalScore, progress.DaysStreak, progress.TotalWordsLearned, lastCheckin, progress.Username,
	)
	if err != nil {
		return errors.Wrapf(err, "update user %q", progress.Username)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update user %q", progress.Username)
	}
	if affected == 0 {
		return errors.Errorf("user %q does not exist", progress.Username)
	}
	return nil
}

// WrongWords returns the user's wrong word set in alphabetical order
func (r *ProgressRepo) WrongWords(ctx context.Context, username string) ([]string, error) {
	query := `SELECT word FROM wrong_words WHERE username = $1 ORDER BY word`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, errors.Wrap(err, "query wrong words")
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, errors.Wrap(err, "scan wrong word")
		}
		words = append(words, w)
	}

	return words, errors.Wrap(rows.Err(), "iterate wrong words")
}

// AddWrongWord puts word into the user's wrong word set.
// Adding a word that is already there changes nothing.
func (r *ProgressRepo) AddWrongWord(ctx context.Context, username, word string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE english = $1`, word).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "look up word %q", word)
	}
	if count == 0 {
		return false, nil
	}

	query := `
		INSERT INTO wrong_words (username, word)
		VALUES ($1, $2)
		ON CONFLICT (username, word) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, username, word); err != nil {
		return false, errors.Wrapf(err, "add wrong word %q", word)
	}
	return true, nil
}

// RemoveWrongWord takes word out of the user's wrong word set
func (r *ProgressRepo) RemoveWrongWord(ctx context.Context, username, word string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wrong_words WHERE username = $1 AND word = $2`, username, word)
	return errors.Wrapf(err, "remove wrong word %q", word)
}

// RecordCheckIn appends a check-in to the user's history
func (r *ProgressRepo) RecordCheckIn(ctx context.Context, username string, record domain.CheckInRecord) error {
	query := `
		INSERT INTO checkins (username, day, points, streak)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, username, record.Day.DateString(), record.Points, record.Streak)
	return errors.Wrapf(err, "record check-in of %q", username)
}

// CheckIns returns the user's check-ins from since on, oldest first
func (r *ProgressRepo) CheckIns(ctx context.Context, username string, since domain.Day) ([]domain.CheckInRecord, error) {
	query := `
		SELECT day, points, streak
		FROM checkins
		WHERE username = $1 AND day >= $2
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, username, since.DateString())
	if err != nil {
		return nil, errors.Wrap(err, "query check-ins")
	}
	defer rows.Close()

	var records []domain.CheckInRecord
	for rows.Next() {
		var (
			rec domain.CheckInRecord
			day string
		)
		if err := rows.Scan(&day, &rec.Points, &rec.Streak); err != nil {
			return nil, errors.Wrap(err, "scan check-in")
		}
		if rec.Day, err = domain.ParseDay(day); err != nil {
			return nil, errors.Wrap(err, "scan check-in")
		}
		records = append(records, rec)
	}

	return records, errors.Wrap(rows.Err(), "iterate check-ins")
}

// AddDailyStats adds stat's answers to the user's totals of that day
func (r *ProgressRepo) AddDailyStats(ctx context.Context, username string, stat domain.DailyStat) error {
	query := `
		INSERT INTO review_days (username, day, correct_count, total_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username, day) DO UPDATE SET
			correct_count = review_days.correct_count + excluded.correct_count,
			total_count = review_days.total_count + excluded.total_count
	`
	_, err := r.db.ExecContext(ctx, query, username, stat.Day.DateString(), stat.Correct, stat.Total)
	return errors.Wrapf(err, "add daily stats of %q", username)
}

// DailyStats returns the user's per-day answer counts from since on, oldest first
func (r *ProgressRepo) DailyStats(ctx context.Context, username string, since domain.Day) ([]domain.DailyStat, error) {
	query := `
		SELECT day, correct_count, total_count
		FROM review_days
		WHERE username = $1 AND day >= $2
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, username, since.DateString())
	if err != nil {
		return nil, errors.Wrap(err, "query daily stats")
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		var (
			stat domain.DailyStat
			day  string
		)
		if err := rows.Scan(&day, &stat.Correct, &stat.Total); err != nil {
			return nil, errors.Wrap(err, "scan daily stats")
		}
		if stat.Day, err = domain.ParseDay(day); err != nil {
			return nil, errors.Wrap(err, "scan daily stats")
		}
		stats = append(stats, stat)
	}

	return stats, errors.Wrap(rows.Err(), "iterate daily stats")
}
