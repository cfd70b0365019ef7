package handler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// errMessageNotModified is what the Bot API answers to an edit that changes nothing
const errMessageNotModified = "message is not modified"

// cleanCallbackData drops whitespace and non-printable characters some clients add to callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return r
		}
		return -1
	}, data)
}

// cardPosition reads the card position an answer button carries
func cardPosition(data string) (int, error) {
	position, err := strconv.Atoi(cleanCallbackData(data))
	if err != nil {
		return 0, fmt.Errorf("card position %q: %w", data, err)
	}
	if position < 0 {
		return 0, fmt.Errorf("card position %q is negative", data)
	}
	return position, nil
}

// afterEdit acknowledges a callback whose message was edited with result err.
// It reports whether the text still has to be sent as a new message.
func (h *Handler) afterEdit(c tele.Context, err error) bool {
	resend := err != nil && !strings.Contains(err.Error(), errMessageNotModified)
	if resend {
		h.logger.Warn("Failed to edit message, sending new",
			zap.Error(err),
			zap.Int64("user_id", c.Sender().ID),
		)
	}
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return resend
}

// callbackRoute maps a button's unique name to its handler
func (h *Handler) callbackRoute(unique string) tele.HandlerFunc {
	switch unique {
	case btnReview.Unique:
		return h.handleReview
	case btnWrongWords.Unique:
		return h.handleWrongWords
	case btnCheckIn.Unique:
		return h.handleCheckIn
	case btnProgress.Unique:
		return h.handleProgress
	case btnAddWord.Unique:
		return h.handleAddWord
	case btnKnow.Unique, btnForgot.Unique:
		return h.handleAnswer
	case btnShuffle.Unique:
		return h.handleShuffle
	case btnStop.Unique:
		return h.handleStop
	case btnSave.Unique:
		return h.handleSave
	case btnCancel.Unique:
		return h.handleCancel
	case btnMainMenu.Unique:
		return h.handleStart
	}
	return nil
}

// handleCallback handles callbacks the button endpoints did not catch
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	unique := callback.Unique
	if unique == "" {
		// Buttons without data arrive with the name in Data
		unique = data
	}
	if route := h.callbackRoute(unique); route != nil {
		return route(c)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
