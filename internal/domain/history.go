package domain

// CheckInRecord is a check-in kept in the user's history
type CheckInRecord struct {
	Day    Day
	Points int
	Streak int
}

// DailyStat counts the answers a user gave during one calendar day
type DailyStat struct {
	Day     Day
	Correct int
	Total   int
}

// Accuracy returns correct/total answers, 0 when nothing was answered
func (s DailyStat) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// SumStats adds up the answers of stats whose day is not before since
func SumStats(stats []DailyStat, since Day) DailyStat {
	sum := DailyStat{Day: since}
	for _, s := range stats {
		if s.Day.Date.Before(since.Date) {
			continue
		}
		sum.Correct += s.Correct
		sum.Total += s.Total
	}
	return sum
}

// StatsOf counts the answers among results
func StatsOf(day Day, results []ReviewResult) DailyStat {
	stat := DailyStat{Day: day, Total: len(results)}
	for _, r := range results {
		if r.Correct {
			stat.Correct++
		}
	}
	return stat
}
