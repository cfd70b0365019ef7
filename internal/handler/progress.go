package handler

import (
	"errors"

	"wordreview/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	difficultWordsLimit = 10
	historyDays         = 7
)

// handleCheckIn records the daily check-in
func (h *Handler) handleCheckIn(c tele.Context) error {
	username := Username(c.Sender())

	lock := h.userLock(c.Sender().ID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := requestContext()
	defer cancel()

	result, err := h.ledger.CheckIn(ctx, username)
	if errors.Is(err, domain.ErrAlreadyCheckedIn) {
		return h.reply(c, "Ты уже отмечался сегодня. Возвращайся завтра!", mainMenuMarkup())
	}
	if err != nil {
		h.logger.Error("Failed to check in", zap.Error(err), zap.String("username", username))
		return h.reply(c, "Произошла ошибка. Попробуйте позже.")
	}

	return h.reply(c, renderCheckIn(result), mainMenuMarkup())
}

// handleProgress shows the user's statistics
func (h *Handler) handleProgress(c tele.Context) error {
	username := Username(c.Sender())

	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.statsService.Summary(ctx, username)
	if err != nil {
		h.logger.Error("Failed to load progress", zap.Error(err), zap.String("username", username))
		return h.reply(c, "Ошибка при загрузке данных")
	}
	checkins, err := h.statsService.CheckInHistory(ctx, username, historyDays)
	if err != nil {
		h.logger.Error("Failed to load check-ins", zap.Error(err), zap.String("username", username))
		return h.reply(c, "Ошибка при загрузке данных")
	}
	stats, err := h.statsService.DailyStats(ctx, username, historyDays)
	if err != nil {
		h.logger.Error("Failed to load daily stats", zap.Error(err), zap.String("username", username))
		return h.reply(c, "Ошибка при загрузке данных")
	}

	text := renderProgress(summary) + "\n" + renderActivity(checkins, stats)
	return h.reply(c, text, mainMenuMarkup())
}

// handleDifficult lists the words answered worst
func (h *Handler) handleDifficult(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	words, err := h.statsService.MostDifficult(ctx, difficultWordsLimit)
	if err != nil {
		h.logger.Error("Failed to load difficult words", zap.Error(err))
		return h.reply(c, "Ошибка при загрузке данных")
	}

	return h.reply(c, renderDifficult(words), mainMenuMarkup())
}
