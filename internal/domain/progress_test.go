package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moscow(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return loc
}

func TestCheckInPoints(t *testing.T) {
	tests := []struct {
		name   string
		streak int
		want   int
	}{
		{"first day", 1, 12},
		{"second day", 2, 14},
		{"sixth day", 6, 22},
		{"week milestone", 7, 74},
		{"eighth day", 8, 26},
		{"bonus capped", 25, 60},
		{"month milestone", 30, 260},
		{"after month", 31, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckInPoints(tt.streak))
		})
	}
}

func TestUserProgress_CheckIn_FirstTime(t *testing.T) {
	loc := moscow(t)
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, loc)
	p := &UserProgress{Username: "alice"}

	points, err := p.CheckIn(now, loc)

	require.NoError(t, err)
	assert.Equal(t, 12, points)
	assert.Equal(t, 1, p.DaysStreak)
	assert.Equal(t, 12, p.TotalScore)
	assert.Equal(t, now, p.LastCheckinDate)
}

func TestUserProgress_CheckIn_TwiceSameDay(t *testing.T) {
	loc := moscow(t)
	morning := time.Date(2024, 5, 20, 0, 5, 0, 0, loc)
	p := &UserProgress{Username: "alice"}

	_, err := p.CheckIn(morning, loc)
	require.NoError(t, err)
	before := *p

	points, err := p.CheckIn(morning.Add(23*time.Hour), loc)

	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, 0, points)
	assert.Equal(t, before, *p)
}

func TestUserProgress_CheckIn_ConsecutiveDays(t *testing.T) {
	loc := moscow(t)
	start := time.Date(2024, 5, 1, 20, 0, 0, 0, loc)
	p := &UserProgress{Username: "alice"}

	total := 0
	for day := 1; day <= 7; day++ {
		points, err := p.CheckIn(start.AddDate(0, 0, day-1), loc)
		require.NoError(t, err)
		assert.Equal(t, day, p.DaysStreak)
		total += points
	}

	// 12+14+16+18+20+22+24 plus the week bonus
	assert.Equal(t, 126+WeekStreakBonus, total)
	assert.Equal(t, total, p.TotalScore)
}

func TestUserProgress_CheckIn_MonthMilestone(t *testing.T) {
	loc := moscow(t)
	now := time.Date(2024, 6, 30, 10, 0, 0, 0, loc)
	p := &UserProgress{
		Username:        "alice",
		DaysStreak:      29,
		LastCheckinDate: now.AddDate(0, 0, -1),
	}

	points, err := p.CheckIn(now, loc)

	require.NoError(t, err)
	assert.Equal(t, 30, p.DaysStreak)
	assert.Equal(t, 260, points)
}

func TestUserProgress_CheckIn_GapResetsStreak(t *testing.T) {
	loc := moscow(t)
	now := time.Date(2024, 5, 20, 9, 0, 0, 0, loc)

	tests := []struct {
		name string
		last time.Time
		want int
	}{
		{"yesterday late evening", time.Date(2024, 5, 19, 23, 59, 0, 0, loc), 6},
		{"two days ago", now.AddDate(0, 0, -2), 1},
		{"a month ago", now.AddDate(0, -1, 0), 1},
		{"clock moved back", now.AddDate(0, 0, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProgress{Username: "alice", DaysStreak: 5, LastCheckinDate: tt.last}

			_, err := p.CheckIn(now, loc)

			require.NoError(t, err)
			assert.Equal(t, tt.want, p.DaysStreak)
		})
	}
}

func TestUserProgress_CheckIn_UsesZone(t *testing.T) {
	loc := moscow(t)
	// 21:30 UTC on the 19th is already the 20th in Moscow
	last := time.Date(2024, 5, 19, 21, 30, 0, 0, time.UTC)
	p := &UserProgress{Username: "alice", DaysStreak: 3, LastCheckinDate: last}

	_, err := p.CheckIn(time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC), loc)

	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, 3, p.DaysStreak)
}

func TestUserProgress_AddScore(t *testing.T) {
	tests := []struct {
		name    string
		points  int
		want    int
		wantErr bool
	}{
		{"positive", 30, 130, false},
		{"zero", 0, 100, true},
		{"negative", -5, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &UserProgress{Username: "alice", TotalScore: 100}

			err := p.AddScore(tt.points)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, p.TotalScore)
		})
	}
}
