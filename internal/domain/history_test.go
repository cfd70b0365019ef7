package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyStat_Accuracy(t *testing.T) {
	assert.Equal(t, 0.0, DailyStat{}.Accuracy())
	assert.Equal(t, 0.75, DailyStat{Correct: 3, Total: 4}.Accuracy())
}

func TestSumStats(t *testing.T) {
	day := func(d int) Day { return DayOf(time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC), time.UTC) }
	stats := []DailyStat{
		{Day: day(10), Correct: 5, Total: 10},
		{Day: day(18), Correct: 2, Total: 4},
		{Day: day(20), Correct: 3, Total: 3},
	}

	tests := []struct {
		name    string
		since   Day
		correct int
		total   int
	}{
		{"everything", Day{}, 10, 17},
		{"last week", day(14), 5, 7},
		{"today only", day(20), 3, 3},
		{"nothing yet", day(21), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := SumStats(stats, tt.since)
			assert.Equal(t, tt.correct, sum.Correct)
			assert.Equal(t, tt.total, sum.Total)
		})
	}
}

func TestStatsOf(t *testing.T) {
	day := DayOf(time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC), time.UTC)

	stat := StatsOf(day, []ReviewResult{
		{English: "apple", Correct: true},
		{English: "bridge"},
		{English: "cloud", Correct: true},
	})

	assert.Equal(t, DailyStat{Day: day, Correct: 2, Total: 3}, stat)
}
