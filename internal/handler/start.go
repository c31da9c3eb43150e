package handler

import (
	"context"
	"strings"

	"lexicards/internal/domain"

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

	text := "👋 Welcome to Lexicards!\n\n"
	if h.status != "" {
		text += h.status + "\n\n"
	}
	text += "Pick a letter to study:"
	return c.Send(text, lettersMarkup(h.study.Letters()))
}

// handleLetters shows the letter picker
func (h *Handler) handleLetters(c tele.Context) error {
	return h.editOrSend(c, "🔤 Pick a letter to study:", lettersMarkup(h.study.Letters()))
}

// handleStats shows the due summary of the user
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	summary, err := h.stats.DueSummary(context.Background(), storageKey(userID))
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Int64("user_id", userID), zap.Error(err))
		return h.replyError(c, err)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnLetters))
	return h.editOrSend(c, statsText(summary, h.stats.Today()), markup)
}

// handleReset forgets the user's saved progress
func (h *Handler) handleReset(c tele.Context) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	key := storageKey(userID)
	if err := h.stats.ResetProgress(context.Background(), key); err != nil {
		return h.replyError(c, err)
	}
	h.study.EndAll(key)

	return c.Send("🧹 Progress cleared. Pick a letter to start over:", lettersMarkup(h.study.Letters()))
}

// handleText treats a single letter (or "all") as a letter pick and any
// other known word as a lookup
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if _, err := domain.ParseLetter(text); err == nil && text != "" {
		return h.startLetter(c, text)
	}
	if entry, ok := h.study.Lookup(text); ok {
		return c.Send(wordText(entry))
	}
	return c.Send("Send a single letter A-Z (or \"all\"), a word from the list, or use /start", lettersMarkup(h.study.Letters()))
}
