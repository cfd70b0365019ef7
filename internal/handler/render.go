package handler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"wordreview/internal/domain"
	"wordreview/internal/service"
)

const mainMenuText = "🏠 Главное меню\n\nВыберите действие:"

// renderCard shows a word waiting for an answer
func renderCard(item domain.ReviewItem, position, size int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧠 Слово %d из %d\n\n", position, size)
	fmt.Fprintf(&b, "📝 %s", item.Word.English)
	if item.Word.PartOfSpeech != "" {
		fmt.Fprintf(&b, " (%s)", item.Word.PartOfSpeech)
	}
	fmt.Fprintf(&b, "\n\nУровень: %s\nПомнишь перевод?", masteryBar(item.MasteryLevel))
	return b.String()
}

// renderAnswer shows the translation and what the answer did to the word
func renderAnswer(item domain.ReviewItem) string {
	mark := "✅"
	if !item.Correct {
		mark = "❌"
	}
	return fmt.Sprintf("%s %s — %s\n\nУровень: %s\nСледующий повтор через %s",
		mark,
		item.Word.English,
		item.Word.Translation,
		masteryBar(item.MasteryLevel),
		formatDays(domain.IntervalDays(item.MasteryLevel)),
	)
}

// renderSummary shows the result of a saved session
func renderSummary(s *service.SessionSummary) string {
	var b strings.Builder
	b.WriteString("🏁 Сессия завершена\n\n")
	fmt.Fprintf(&b, "Ответов: %d, верных: %d (%.0f%%)\n", s.Reviewed, s.Correct, s.Accuracy*100)
	fmt.Fprintf(&b, "Время: %s\n", formatElapsed(s.Elapsed))
	if s.PointsEarned > 0 {
		fmt.Fprintf(&b, "Очки: +%d\n", s.PointsEarned)
	}
	if s.WordsLearned > 0 {
		fmt.Fprintf(&b, "Выучено слов: +%d\n", s.WordsLearned)
	}
	return b.String()
}

// renderCheckIn shows the result of a check-in
func renderCheckIn(r *service.CheckInResult) string {
	text := fmt.Sprintf("📆 Отметка принята!\n\nСерия: %s\nОчки: +%d (всего %d)",
		formatDays(r.Streak), r.Points, r.TotalScore)
	switch r.Streak {
	case 7:
		text += "\n\n🎉 Неделя без пропусков!"
	case 30:
		text += "\n\n🏆 Месяц без пропусков!"
	}
	return text
}

// renderProgress shows the user's learning overview
func renderProgress(s *service.Summary) string {
	var b strings.Builder
	b.WriteString("📊 Твой прогресс\n\n")
	fmt.Fprintf(&b, "Всего слов: %d\n", s.TotalWords)
	fmt.Fprintf(&b, "Новые: %d, изучаются: %d, выучены: %d\n", s.New, s.Learning, s.Mastered)
	fmt.Fprintf(&b, "К повторению: %d\n", s.DueNow)
	fmt.Fprintf(&b, "Ошибки: %d\n\n", s.WrongWords)
	fmt.Fprintf(&b, "Сегодня: %s\n", formatAnswers(s.Today))
	fmt.Fprintf(&b, "За неделю: %s\n", formatAnswers(s.Week))
	fmt.Fprintf(&b, "Твоя точность: %.0f%%\n\n", s.Accuracy*100)
	fmt.Fprintf(&b, "Очки: %d\n", s.TotalScore)
	fmt.Fprintf(&b, "Серия: %s\n", formatDays(s.DaysStreak))
	fmt.Fprintf(&b, "Отметок в этом месяце: %d\n", s.CheckInsThisMonth)
	if s.LastCheckin != nil {
		fmt.Fprintf(&b, "Последняя отметка: %s\n", s.LastCheckin.Date.Format("02.01.2006"))
	}
	return b.String()
}

// renderActivity lists the days with a check-in or answers, oldest first
func renderActivity(checkins []domain.CheckInRecord, stats []domain.DailyStat) string {
	if len(checkins) == 0 && len(stats) == 0 {
		return "За последние дни активности нет"
	}

	checkedIn := make(map[string]bool, len(checkins))
	answers := make(map[string]domain.DailyStat, len(stats))
	days := make(map[string]domain.Day, len(checkins)+len(stats))
	for _, r := range checkins {
		checkedIn[r.Day.DateString()] = true
		days[r.Day.DateString()] = r.Day
	}
	for _, st := range stats {
		answers[st.Day.DateString()] = st
		days[st.Day.DateString()] = st.Day
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("📅 Последние дни:\n")
	for _, k := range keys {
		mark := "▫️"
		if checkedIn[k] {
			mark = "📆"
		}
		line := "нет ответов"
		if st, ok := answers[k]; ok {
			line = formatAnswers(st)
		}
		fmt.Fprintf(&b, "%s %s %s\n", days[k].Date.Format("02.01"), mark, line)
	}
	return b.String()
}

// renderWord shows a saved word with its answer statistics
func renderWord(w *domain.Word) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 %s", w.English)
	if w.PartOfSpeech != "" {
		fmt.Fprintf(&b, " (%s)", w.PartOfSpeech)
	}
	fmt.Fprintf(&b, " — %s\n", w.Translation)
	if w.TotalAttempts > 0 {
		fmt.Fprintf(&b, "\nОтветов всех учеников: %d, верных %.0f%%", w.TotalAttempts, w.Accuracy()*100)
	}
	return b.String()
}

// renderDifficult lists words with the lowest accuracy
func renderDifficult(words []domain.Word) string {
	if len(words) == 0 {
		return "Пока нет слов с ответами"
	}
	var b strings.Builder
	b.WriteString("😓 Самые трудные слова:\n\n")
	for i, w := range words {
		fmt.Fprintf(&b, "%d. %s — %s (%.0f%%, %d попыток)\n", i+1, w.English, w.Translation, w.Accuracy()*100, w.TotalAttempts)
	}
	return b.String()
}

func masteryBar(level int) string {
	return strings.Repeat("●", level) + strings.Repeat("○", domain.MaxMasteryLevel-level)
}

func formatDays(n int) string {
	return fmt.Sprintf("%d дн.", n)
}

func formatAnswers(s domain.DailyStat) string {
	if s.Total == 0 {
		return "нет ответов"
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", s.Correct, s.Total, s.Accuracy()*100)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
