package handler

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const keyPrefix = "tg:"

// userIDFromKey extracts the Telegram user id from a storage key
func userIDFromKey(key string) (int64, error) {
	raw, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram storage key: %q", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram user id in %q: %w", key, err)
	}
	return id, nil
}

// Accepts reports whether key belongs to a Telegram user
func (h *Handler) Accepts(key string) bool {
	_, err := userIDFromKey(key)
	return err == nil
}

// NotifyDue messages the user behind key that count cards are due
func (h *Handler) NotifyDue(key string, count int) error {
	userID, err := userIDFromKey(key)
	if err != nil {
		return err
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📚 Review now", btnLetter.Unique, "all")))

	if _, err := h.bot.Send(&tele.User{ID: userID}, reminderText(count), markup); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	h.logger.Info("Reminder sent", zap.Int64("user_id", userID), zap.Int("due", count))
	return nil
}
