package domain

import "time"

// Mastery level bounds
const (
	MinMasteryLevel = 1
	MaxMasteryLevel = 4
)

// IntervalDays returns the review interval for a mastery level in days
func IntervalDays(level int) int {
	switch {
	case level <= 1:
		return 1
	case level == 2:
		return 3
	case level == 3:
		return 7
	default:
		return 14
	}
}

// Interval returns the review interval for a mastery level
func Interval(level int) time.Duration {
	return time.Duration(IntervalDays(level)) * 24 * time.Hour
}

// NextMasteryLevel moves a level one step up or down, clamped to [1,4]
func NextMasteryLevel(level int, correct bool) int {
	if correct {
		level++
	} else {
		level--
	}
	if level < MinMasteryLevel {
		return MinMasteryLevel
	}
	if level > MaxMasteryLevel {
		return MaxMasteryLevel
	}
	return level
}

// IsDue reports whether a candidate should be reviewed at now.
// Words the user never reviewed are always due.
func (c ReviewCandidate) IsDue(now time.Time) bool {
	if c.Record == nil || c.Record.LastReviewedAt.IsZero() {
		return true
	}
	return now.Sub(c.Record.LastReviewedAt) >= Interval(c.Record.MasteryLevel)
}

// MasteryLevel returns the level a new review item starts at
func (c ReviewCandidate) MasteryLevel() int {
	if c.Record == nil || c.Record.MasteryLevel < MinMasteryLevel {
		return MinMasteryLevel
	}
	if c.Record.MasteryLevel > MaxMasteryLevel {
		return MaxMasteryLevel
	}
	return c.Record.MasteryLevel
}
