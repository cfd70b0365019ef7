package domain

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date in some fixed time zone.
// Date holds midnight UTC of that civil date so day arithmetic ignores DST.
type Day struct {
	Date time.Time
}

// DayOf returns the calendar day t falls on in loc
func DayOf(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	return Day{Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a date in YYYY-MM-DD format
func ParseDay(s string) (Day, error) {
	date, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: invalid day %q", ErrValidation, s)
	}
	return Day{Date: date}, nil
}

// DateString returns date in YYYY-MM-DD format.
// Strings of different days sort in calendar order.
func (d Day) DateString() string {
	return d.Date.Format(dayLayout)
}

// AddDays returns the day n calendar days after d
func (d Day) AddDays(n int) Day {
	return Day{Date: d.Date.AddDate(0, 0, n)}
}

// MonthStart returns the first day of d's month
func (d Day) MonthStart() Day {
	return Day{Date: time.Date(d.Date.Year(), d.Date.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// DaysUntil returns the number of whole calendar days from d to other
func (d Day) DaysUntil(other Day) int {
	return int(other.Date.Sub(d.Date).Hours() / 24)
}

// Equal reports whether both days are the same calendar date
func (d Day) Equal(other Day) bool {
	return d.Date.Equal(other.Date)
}
