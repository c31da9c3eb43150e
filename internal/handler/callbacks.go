package handler

import (
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData strips the telebot "\f" marker and any other
// non-printable characters from raw callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// splitCallback splits cleaned "unique|payload" callback data
func splitCallback(data string) (unique, payload string) {
	unique, payload, _ = strings.Cut(data, "|")
	return unique, payload
}

// handleEditError acknowledges the callback after a failed edit. It returns
// nil when the card already shows the requested text, so no new message is sent.
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	callbackID := c.Callback().ID
	if errors.Is(err, tele.ErrSameMessageContent) || strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Card unchanged, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", callbackID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit card, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", callbackID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// editOrSend edits the message behind a callback, or sends a new one for commands
func (h *Handler) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}
	if err := c.Edit(text, markup); err != nil {
		if h.handleEditError(err, c, c.Sender().ID) == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleCallback handles callbacks whose unique endpoint was not routed by telebot
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	data := cleanCallbackData(callback.Data)
	unique, payload := splitCallback(data)

	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch unique {
	case btnFlip.Unique:
		return h.handleFlip(c)
	case btnPrev.Unique:
		return h.handlePrev(c)
	case btnNext.Unique:
		return h.handleNext(c)
	case btnRestart.Unique:
		return h.handleRestart(c)
	case btnLetters.Unique:
		return h.handleLetters(c)
	case btnStats.Unique:
		return h.handleStats(c)
	case btnLetter.Unique:
		return h.startLetter(c, payload)
	case btnGrade.Unique:
		return h.grade(c, payload)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
