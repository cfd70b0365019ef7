package handler

import (
	"errors"

	"wordreview/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const shuffledText = "🔀 Порядок слов изменён"

var btnSave = tele.Btn{
	Unique: "save",
	Text:   "💾 Сохранить ещё раз",
}

// handleReview starts a session over due words
func (h *Handler) handleReview(c tele.Context) error {
	return h.startSession(c, false)
}

// handleWrongWords starts a session over words the user got wrong
func (h *Handler) handleWrongWords(c tele.Context) error {
	return h.startSession(c, true)
}

func (h *Handler) startSession(c tele.Context, wrongOnly bool) error {
	userID := c.Sender().ID
	username := Username(c.Sender())
	h.ResetState(userID)

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := requestContext()
	defer cancel()

	var err error
	if wrongOnly {
		_, err = h.reviewService.StartWrongWordsSession(ctx, username, h.batchSize)
	} else {
		_, err = h.reviewService.StartNewSession(ctx, username, h.batchSize)
	}

	switch {
	case errors.Is(err, domain.ErrState):
		if replyErr := h.reply(c, "У тебя уже идёт сессия, продолжаем"); replyErr != nil {
			return replyErr
		}
		return h.sendNext(c, username)
	case errors.Is(err, domain.ErrNoWordsDue):
		if wrongOnly {
			return h.reply(c, "🎉 Ошибок нет, повторять нечего", mainMenuMarkup())
		}
		return h.reply(c, "🎉 Сейчас нечего повторять. Добавь новые слова или загляни позже", mainMenuMarkup())
	case err != nil:
		h.logger.Error("Failed to start review session", zap.Error(err), zap.Int64("user_id", userID))
		return h.reply(c, "Произошла ошибка. Попробуйте позже.")
	}

	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}
	return h.sendNext(c, username)
}

// handleAnswer records a know/forgot answer for the card it was pressed on
func (h *Handler) handleAnswer(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	userID := c.Sender().ID
	username := Username(c.Sender())

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	position, err := cardPosition(callback.Data)
	if err != nil {
		h.logger.Warn("Bad answer button", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Неверная кнопка"})
	}

	answered, err := h.reviewService.TotalCount(username)
	if errors.Is(err, domain.ErrState) {
		return c.Respond(&tele.CallbackResponse{Text: "Сессия уже завершена"})
	}
	if err != nil {
		h.logger.Error("Failed to read session", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка"})
	}
	if position != answered {
		// an older card, already answered
		return c.Respond(&tele.CallbackResponse{Text: "Ответ уже учтён"})
	}

	correct := callback.Unique == btnKnow.Unique
	item, err := h.reviewService.RecordAttempt(username, correct)
	if err != nil {
		h.logger.Error("Failed to record answer", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка"})
	}

	if h.afterEdit(c, c.Edit(renderAnswer(item))) {
		if err := c.Send(renderAnswer(item)); err != nil {
			return err
		}
	}

	return h.sendNext(c, username)
}

// handleShuffle reorders the cards not answered yet and shows the new current one
func (h *Handler) handleShuffle(c tele.Context) error {
	userID := c.Sender().ID
	username := Username(c.Sender())

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := h.reviewService.ShuffleRemaining(username); err != nil {
		if errors.Is(err, domain.ErrState) {
			return c.Respond(&tele.CallbackResponse{Text: "Сессия уже завершена"})
		}
		h.logger.Error("Failed to shuffle session", zap.Error(err), zap.Int64("user_id", userID))
		return c.Respond(&tele.CallbackResponse{Text: "Ошибка"})
	}

	// the old card loses its buttons, they would answer a different word now
	if h.afterEdit(c, c.Edit(shuffledText)) {
		if err := c.Send(shuffledText); err != nil {
			return err
		}
	}
	return h.sendNext(c, username)
}

// sendNext sends the next card, or saves the session once all cards are answered
func (h *Handler) sendNext(c tele.Context, username string) error {
	hasNext, err := h.reviewService.HasNextWord(username)
	if err != nil {
		return c.Send(mainMenuText, mainMenuMarkup())
	}
	if !hasNext {
		return h.finishSession(c, username)
	}

	item, err := h.reviewService.CurrentWord(username)
	if err != nil {
		return err
	}
	answered, err := h.reviewService.TotalCount(username)
	if err != nil {
		return err
	}
	size, err := h.reviewService.SessionSize(username)
	if err != nil {
		return err
	}

	return c.Send(renderCard(item, answered+1, size), answerMarkup(answered))
}

// finishSession saves the session. On failure the results stay in memory and
// the user gets a button to try again.
func (h *Handler) finishSession(c tele.Context, username string) error {
	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.reviewService.EndSession(ctx, username)
	var flushErr *domain.FlushError
	switch {
	case errors.As(err, &flushErr):
		h.logger.Warn("Review results not saved yet",
			zap.String("username", username),
			zap.Strings("words", flushErr.Words),
		)
		markup := &tele.ReplyMarkup{}
		markup.Inline(markup.Row(btnSave), markup.Row(btnStop))
		return c.Send("⚠️ Не удалось сохранить результаты. Попробуй ещё раз", markup)
	case errors.Is(err, domain.ErrState):
		return c.Send(mainMenuText, mainMenuMarkup())
	case err != nil:
		return err
	}

	return c.Send(renderSummary(summary), mainMenuMarkup())
}

// handleSave retries saving a finished session
func (h *Handler) handleSave(c tele.Context) error {
	userID := c.Sender().ID
	username := Username(c.Sender())

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.finishSession(c, username)
}

// handleStop abandons the current session without saving answers
func (h *Handler) handleStop(c tele.Context) error {
	userID := c.Sender().ID
	username := Username(c.Sender())

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := h.reviewService.DiscardSession(username); err != nil {
		if errors.Is(err, domain.ErrState) {
			return h.reply(c, "Сейчас нет активной сессии", mainMenuMarkup())
		}
		h.logger.Error("Failed to stop session", zap.Error(err), zap.Int64("user_id", userID))
		return h.reply(c, "Произошла ошибка. Попробуйте позже.")
	}

	return h.reply(c, "⏹ Сессия остановлена, ответы не сохранены\n\n"+mainMenuText, mainMenuMarkup())
}
