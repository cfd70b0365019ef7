package handler

import (
	"errors"
	"fmt"
	"strings"

	"wordreview/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	h.ResetState(userID)
	return h.reply(c, mainMenuText, mainMenuMarkup())
}

// handleAddWord starts the word input flow
func (h *Handler) handleAddWord(c tele.Context) error {
	userID := c.Sender().ID

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	h.SetState(userID, &StateData{State: StateWaitingWord})
	return h.reply(c, "Отправь слово на английском", cancelMarkup)
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	h.ResetState(userID)

	if c.Callback() == nil {
		return c.Send(mainMenuText, mainMenuMarkup())
	}
	if h.afterEdit(c, c.Edit(mainMenuText, mainMenuMarkup())) {
		return c.Send(mainMenuText, mainMenuMarkup())
	}
	return nil
}

// handleLookup shows a saved word, e.g. /word apple
func (h *Handler) handleLookup(c tele.Context) error {
	english := strings.TrimSpace(c.Message().Payload)
	if english == "" {
		return c.Send("Напиши слово после команды, например: /word apple")
	}

	ctx, cancel := requestContext()
	defer cancel()

	word, err := h.wordService.GetWord(ctx, english)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Send(fmt.Sprintf("Слово «%s» не найдено. Отправь его, чтобы добавить", english))
	}
	if err != nil {
		h.logger.Error("Failed to look up word", zap.Error(err), zap.String("word", english))
		return c.Send("Произошла ошибка. Попробуйте позже.")
	}

	return c.Send(renderWord(word), mainMenuMarkup())
}

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(userID)

	switch state.State {
	case StateWaitingTranslation:
		// User sent translation, save the pair
		ctx, cancel := requestContext()
		defer cancel()

		word, err := h.wordService.AddWord(ctx, state.CurrentWord, "", text)
		if err != nil {
			h.logger.Error("Failed to save word",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			return c.Send("Не удалось сохранить слово. Попробуйте ещё раз.")
		}

		h.logger.Info("Word saved",
			zap.Int64("user_id", userID),
			zap.String("word", word.English),
			zap.String("translation", word.Translation),
		)

		// Reset to waiting for next word
		h.SetState(userID, &StateData{State: StateWaitingWord})

		return c.Send("✅ Сохранено!\n\nМожешь отправить следующее слово или вернуться в /start")

	default:
		// Any other text starts the word input flow
		cancelMarkup := &tele.ReplyMarkup{}
		cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

		h.SetState(userID, &StateData{
			State:       StateWaitingTranslation,
			CurrentWord: text,
		})

		return c.Send("Жду перевод", cancelMarkup)
	}
}

// reply sends a new message and acknowledges the callback that caused it
func (h *Handler) reply(c tele.Context, text string, opts ...interface{}) error {
	if c.Callback() != nil {
		if err := c.Respond(); err != nil {
			h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}
	return c.Send(text, opts...)
}
