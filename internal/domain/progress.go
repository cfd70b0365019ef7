package domain

import (
	"fmt"
	"time"
)

// Check-in scoring
const (
	CheckInBasePoints   = 10
	StreakPointsPerDay  = 2
	MaxStreakBonus      = 50
	WeekStreakBonus     = 50
	MonthStreakBonus    = 200
	CorrectAnswerPoints = 10
)

// UserProgress holds a user's score and check-in state
type UserProgress struct {
	Username          string
	TotalScore        int
	DaysStreak        int
	TotalWordsLearned int
	LastCheckinDate   time.Time // zero when the user never checked in
	CreatedAt         time.Time
}

// CheckedInOn reports whether the last check-in falls on the same calendar day as now
func (p *UserProgress) CheckedInOn(now time.Time, loc *time.Location) bool {
	if p.LastCheckinDate.IsZero() {
		return false
	}
	return DayOf(p.LastCheckinDate, loc).Equal(DayOf(now, loc))
}

// CheckIn records a daily check-in at now and returns the points awarded.
// Calendar days are taken in loc. Nothing changes when it fails.
func (p *UserProgress) CheckIn(now time.Time, loc *time.Location) (int, error) {
	if p.CheckedInOn(now, loc) {
		return 0, ErrAlreadyCheckedIn
	}

	streak := 1
	if !p.LastCheckinDate.IsZero() {
		gap := DayOf(p.LastCheckinDate, loc).DaysUntil(DayOf(now, loc))
		if gap == 1 {
			streak = p.DaysStreak + 1
		}
	}

	points := CheckInPoints(streak)
	p.DaysStreak = streak
	p.LastCheckinDate = now
	p.TotalScore += points
	return points, nil
}

// AddScore adds positive points to the total score
func (p *UserProgress) AddScore(points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrValidation, points)
	}
	p.TotalScore += points
	return nil
}

// CheckInPoints returns the points for a check-in that reaches streak.
// Milestones match the exact streak only, so they trigger again after a reset.
func CheckInPoints(streak int) int {
	bonus := streak * StreakPointsPerDay
	if bonus > MaxStreakBonus {
		bonus = MaxStreakBonus
	}
	points := CheckInBasePoints + bonus
	switch streak {
	case 7:
		points += WeekStreakBonus
	case 30:
		points += MonthStreakBonus
	}
	return points
}
