package domain

import "time"

// Word is a vocabulary entry identified by its English text
type Word struct {
	English       string
	PartOfSpeech  string
	Translation   string
	Frequency     int
	CorrectCount  int
	TotalAttempts int
	AddedAt       time.Time
}

// Accuracy returns the share of correct attempts, 0 when never attempted
func (w Word) Accuracy() float64 {
	if w.TotalAttempts == 0 {
		return 0
	}
	return float64(w.CorrectCount) / float64(w.TotalAttempts)
}

// LearningRecord is a user's durable scheduling state for one word
type LearningRecord struct {
	MasteryLevel   int
	LastReviewedAt time.Time
	NextReviewAt   time.Time
}

// ReviewCandidate is a word together with the user's record for it.
// Record is nil when the user has never reviewed the word.
type ReviewCandidate struct {
	Word   Word
	Record *LearningRecord
}

// ReviewResult is the persisted outcome of one reviewed item
type ReviewResult struct {
	English              string
	PreviousMasteryLevel int
	MasteryLevel         int
	Correct              bool
	ReviewedAt           time.Time
	NextReviewAt         time.Time
}

// Learned reports whether this review brought the word to the top mastery level
func (r ReviewResult) Learned() bool {
	return r.MasteryLevel == MaxMasteryLevel && r.PreviousMasteryLevel < MaxMasteryLevel
}
