package handler

import (
	"context"
	"errors"

	"lexicards/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// startLetter opens a new session on letter and shows its first card
func (h *Handler) startLetter(c tele.Context, letter string) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	id := sessionID(userID)
	_, view, err := h.study.Start(context.Background(), id, storageKey(userID), cleanCallbackData(letter))
	if err != nil {
		h.logger.Error("Failed to start session",
			zap.Int64("user_id", userID),
			zap.String("letter", letter),
			zap.Error(err))
		return h.replyError(c, err)
	}

	h.logger.Info("User picked a letter",
		zap.Int64("user_id", userID),
		zap.String("letter", view.Letter),
		zap.Int("cards", view.Total))
	return h.showView(c, id, view)
}

func (h *Handler) handleFlip(c tele.Context) error {
	return h.step(c, h.study.Flip)
}

func (h *Handler) handlePrev(c tele.Context) error {
	return h.step(c, h.study.Prev)
}

func (h *Handler) handleNext(c tele.Context) error {
	return h.step(c, h.study.Next)
}

func (h *Handler) handleRestart(c tele.Context) error {
	return h.step(c, func(id string) (domain.CardView, error) {
		return h.study.Restart(context.Background(), id)
	})
}

// step runs one navigation action on the user's session and redraws the card
func (h *Handler) step(c tele.Context, action func(id string) (domain.CardView, error)) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	id := sessionID(userID)
	view, err := action(id)
	if err != nil {
		return h.replyError(c, err)
	}
	return h.showView(c, id, view)
}

// grade applies the grade named by data to the current card
func (h *Handler) grade(c tele.Context, data string) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	g, err := domain.ParseGrade(cleanCallbackData(data))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Unknown grade"})
	}

	id := sessionID(userID)
	view, err := h.study.Grade(context.Background(), id, g)
	if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrUnsupportedGrade) {
		return h.replyError(c, err)
	}
	if showErr := h.showView(c, id, view); showErr != nil {
		return showErr
	}
	if err != nil {
		// The grade took effect in memory; only saving failed
		h.logger.Error("Failed to save progress",
			zap.Int64("user_id", userID),
			zap.Stringer("grade", g),
			zap.Error(err))
		return c.Send("⚠️ Your progress could not be saved. It will be retried with your next grade.")
	}
	return nil
}

// showView draws the card, or the mastery / empty message when the queue is empty
func (h *Handler) showView(c tele.Context, id string, view domain.CardView) error {
	if !view.Empty {
		grades, err := h.study.Grades(id)
		if err != nil {
			return h.replyError(c, err)
		}
		return h.editOrSend(c, cardText(view), cardMarkup(view, grades))
	}

	report, err := h.study.Report(id)
	if err != nil {
		return h.replyError(c, err)
	}
	text := emptyText(view.Letter, report, wordsUnder(h.study.Letters(), view.Letter))
	return h.editOrSend(c, text, emptyMarkup())
}

// replyError tells the user what went wrong in terms they can act on
func (h *Handler) replyError(c tele.Context, err error) error {
	var text string
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		text = "Your session has expired. Pick a letter to continue:"
	case errors.Is(err, domain.ErrInvalidLetter):
		text = "Send a single letter A-Z, or pick one below:"
	case errors.Is(err, domain.ErrUnsupportedGrade):
		text = "That grade isn't available here. Pick a letter to continue:"
	case errors.Is(err, domain.ErrNoVocabulary):
		if c.Callback() != nil {
			c.Respond()
		}
		return c.Send("The word list is not loaded yet. Please try again later.")
	default:
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "Something went wrong. Please try again later."})
		}
		return c.Send("Something went wrong. Please try again later.")
	}
	return h.editOrSend(c, text, lettersMarkup(h.study.Letters()))
}
