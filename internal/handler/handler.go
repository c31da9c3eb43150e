package handler

import (
	"fmt"
	"strconv"
	"sync"

	"lexicards/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot    *tele.Bot
	study  *service.StudyService
	stats  *service.StatsService
	status string
	logger *zap.Logger

	// Per-user locks so two quick button presses don't interleave edits
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance. status is the vocabulary load
// message shown on /start.
func NewHandler(
	bot *tele.Bot,
	study *service.StudyService,
	stats *service.StatsService,
	status string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		study:         study,
		stats:         stats,
		status:        status,
		logger:        logger,
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/letters", h.handleLetters)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/reset", h.handleReset)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnFlip, h.handleFlip)
	h.bot.Handle(&btnPrev, h.handlePrev)
	h.bot.Handle(&btnNext, h.handleNext)
	h.bot.Handle(&btnRestart, h.handleRestart)
	h.bot.Handle(&btnLetters, h.handleLetters)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnLetter, func(c tele.Context) error {
		return h.startLetter(c, c.Data())
	})
	h.bot.Handle(&btnGrade, func(c tele.Context) error {
		return h.grade(c, c.Data())
	})

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// lockUser serialises work for one user and returns the unlock func
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

// sessionID is the study session of a Telegram user
func sessionID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// storageKey is where a Telegram user's progress is saved
func storageKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

// Inline keyboard buttons
var (
	btnFlip = tele.Btn{
		Unique: "flip",
		Text:   "🔄 Flip",
	}
	btnPrev = tele.Btn{
		Unique: "prev",
		Text:   "⬅️ Prev",
	}
	btnNext = tele.Btn{
		Unique: "next",
		Text:   "Next ➡️",
	}
	btnRestart = tele.Btn{
		Unique: "restart",
		Text:   "🔁 Restart this letter",
	}
	btnLetters = tele.Btn{
		Unique: "letters",
		Text:   "🔤 Letters",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Progress",
	}
	// btnLetter and btnGrade carry their value as callback data
	btnLetter = tele.Btn{
		Unique: "letter",
	}
	btnGrade = tele.Btn{
		Unique: "grade",
	}
)
