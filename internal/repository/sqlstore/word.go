package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"wordreview/internal/domain"
)

const wordColumns = `w.english, w.part_of_speech, w.translation, w.frequency, w.correct_count, w.total_attempts, w.added_at`

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db dbtx
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// FindReviewCandidates returns every word together with the user's learning record for it
func (r *WordRepo) FindReviewCandidates(ctx context.Context, username string) ([]domain.ReviewCandidate, error) {
	query := `
		SELECT ` + wordColumns + `, lr.mastery_level, lr.last_reviewed_at, lr.next_review_at
		FROM words w
		LEFT JOIN learning_records lr ON lr.word = w.english AND lr.username = $1
		ORDER BY w.english
	`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, errors.Wrap(err, "query review candidates")
	}
	defer rows.Close()

	var candidates []domain.ReviewCandidate
	for rows.Next() {
		var (
			c            domain.ReviewCandidate
			level        sql.NullInt64
			lastReviewed sql.NullTime
			nextReview   sql.NullTime
		)
		if err := rows.Scan(
			&c.Word.English, &c.Word.PartOfSpeech, &c.Word.Translation,
			&c.Word.Frequency, &c.Word.CorrectCount, &c.Word.TotalAttempts, &c.Word.AddedAt,
			&level, &lastReviewed, &nextReview,
		); err != nil {
			return nil, errors.Wrap(err, "scan review candidate")
		}
		if level.Valid {
			c.Record = &domain.LearningRecord{
				MasteryLevel:   int(level.Int64),
				LastReviewedAt: lastReviewed.Time,
				NextReviewAt:   nextReview.Time,
			}
		}
		candidates = append(candidates, c)
	}

	return candidates, errors.Wrap(rows.Err(), "iterate review candidates")
}

// FindByEnglish returns a word by its English text
func (r *WordRepo) FindByEnglish(ctx context.Context, english string) (*domain.Word, error) {
	var w domain.Word
	query := `SELECT ` + wordColumns + ` FROM words w WHERE w.english = $1`
	err := r.db.QueryRowContext(ctx, query, english).Scan(
		&w.English, &w.PartOfSpeech, &w.Translation,
		&w.Frequency, &w.CorrectCount, &w.TotalAttempts, &w.AddedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find word %q", english)
	}

	return &w, nil
}

// Save inserts a word or updates its part of speech and translation.
// Attempt statistics of an existing word are kept.
func (r *WordRepo) Save(ctx context.Context, word domain.Word) error {
	query := `
		INSERT INTO words (english, part_of_speech, translation, frequency, correct_count, total_attempts, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (english)
		DO UPDATE SET part_of_speech = excluded.part_of_speech, translation = excluded.translation
	`
	_, err := r.db.ExecContext(ctx, query,
		word.English, word.PartOfSpeech, word.Translation,
		word.Frequency, word.CorrectCount, word.TotalAttempts, word.AddedAt,
	)
	return errors.Wrapf(err, "save word %q", word.English)
}

// ApplyReviewResults records attempt statistics and upserts the user's learning records
func (r *WordRepo) ApplyReviewResults(ctx context.Context, username string, results []domain.ReviewResult) error {
	updateWord := `
		UPDATE words
		SET frequency = frequency + 1, correct_count = correct_count + $1, total_attempts = total_attempts + 1
		WHERE english = $2
	`
	upsertRecord := `
		INSERT INTO learning_records (username, word, mastery_level, last_reviewed_at, next_review_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username, word)
		DO UPDATE SET mastery_level = excluded.mastery_level,
			last_reviewed_at = excluded.last_reviewed_at,
			next_review_at = excluded.next_review_at
	`

	for _, res := range results {
		correct := 0
		if res.Correct {
			correct = 1
		}

		result, err := r.db.ExecContext(ctx, updateWord, correct, res.English)
		if err != nil {
			return errors.Wrapf(err, "update attempts of %q", res.English)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Wrapf(err, "update attempts of %q", res.English)
		}
		if affected == 0 {
			return errors.Errorf("word %q does not exist", res.English)
		}

		if _, err := r.db.ExecContext(ctx, upsertRecord,
			username, res.English, res.MasteryLevel, res.ReviewedAt, res.NextReviewAt,
		); err != nil {
			return errors.Wrapf(err, "upsert learning record of %q", res.English)
		}
	}

	return nil
}

// MostDifficult returns attempted words with the lowest accuracy first
func (r *WordRepo) MostDifficult(ctx context.Context, limit int) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words w
		WHERE w.total_attempts > 0
		ORDER BY CAST(w.correct_count AS REAL) / w.total_attempts ASC, w.total_attempts DESC, w.english
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query difficult words")
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(
			&w.English, &w.PartOfSpeech, &w.Translation,
			&w.Frequency, &w.CorrectCount, &w.TotalAttempts, &w.AddedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan difficult word")
		}
		words = append(words, w)
	}

	return words, errors.Wrap(rows.Err(), "iterate difficult words")
}
