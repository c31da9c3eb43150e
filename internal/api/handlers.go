package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/service"
	"lexicards/internal/vocab"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const profileKeyPrefix = "web:"

var profileRx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Handler contains all HTTP handlers
type Handler struct {
	study    *service.StudyService
	stats    *service.StatsService
	status   string
	fallback bool
	logger   *zap.Logger
}

// NewHandler creates a new handler. loaded is the outcome of the word list
// load; its status is reported to clients, the entries are not used.
func NewHandler(study *service.StudyService, stats *service.StatsService, loaded vocab.Result, logger *zap.Logger) *Handler {
	return &Handler{
		study:    study,
		stats:    stats,
		status:   loaded.Status,
		fallback: loaded.Fallback,
		logger:   logger,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StartSessionRequest is the body of POST /api/v1/sessions
type StartSessionRequest struct {
	Profile string `json:"profile"`
	Letter  string `json:"letter"`
}

// GradeRequest is the body of POST /api/v1/sessions/{id}/grade
type GradeRequest struct {
	Grade *domain.Grade `json:"grade"`
}

// SessionResponse describes a session and its current card
type SessionResponse struct {
	ID      string          `json:"id"`
	Card    domain.CardView `json:"card"`
	Grades  []domain.Grade  `json:"grades"`
	Warning string          `json:"warning,omitempty"`
	// Notice is set on a new session while sample words stand in for the word list
	Notice string `json:"notice,omitempty"`
}

// LettersResponse lists the letter picker options
type LettersResponse struct {
	Scheduler string              `json:"scheduler"`
	Status    string              `json:"status,omitempty"`
	Fallback  bool                `json:"fallback"`
	Letters   []deck.LetterOption `json:"letters"`
}

// ReportResponse lists the cards finished in a session
type ReportResponse struct {
	Learned   []domain.VocabEntry `json:"learned"`
	Remaining int                 `json:"remaining"`
}

// StatsResponse is the due summary of a profile
type StatsResponse struct {
	service.DueSummary
	Total int `json:"total"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps domain errors to HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrInvalidLetter),
		errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, domain.ErrUnsupportedGrade):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoVocabulary):
		writeError(w, http.StatusServiceUnavailable, "vocabulary not loaded")
	default:
		h.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// storageKey validates the profile path parameter
func storageKey(profile string) (string, bool) {
	if !profileRx.MatchString(profile) {
		return "", false
	}
	return profileKeyPrefix + profile, true
}

func (h *Handler) sessionResponse(w http.ResponseWriter, status int, id string, view domain.CardView) {
	grades, err := h.study.Grades(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, status, SessionResponse{ID: id, Card: view, Grades: grades})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListLetters handles GET /api/v1/letters
func (h *Handler) ListLetters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LettersResponse{
		Scheduler: h.study.Strategy(),
		Status:    h.status,
		Fallback:  h.fallback,
		Letters:   h.study.Letters(),
	})
}

// GetWord handles GET /api/v1/words/{word}
func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.study.Lookup(chi.URLParam(r, "word"))
	if !ok {
		writeError(w, http.StatusNotFound, "word not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// StartSession handles POST /api/v1/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, ok := storageKey(req.Profile)
	if !ok {
		writeError(w, http.StatusBadRequest, "profile must be 1-64 letters, digits, '-' or '_'")
		return
	}

	id, view, err := h.study.Start(r.Context(), "", key, req.Letter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	grades, err := h.study.Grades(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	resp := SessionResponse{ID: id, Card: view, Grades: grades}
	if h.fallback {
		resp.Notice = h.status
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := h.study.View(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.sessionResponse(w, http.StatusOK, id, view)
}

// Flip handles POST /api/v1/sessions/{id}/flip
func (h *Handler) Flip(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.study.Flip)
}

// Next handles POST /api/v1/sessions/{id}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.study.Next)
}

// Prev handles POST /api/v1/sessions/{id}/prev
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.study.Prev)
}

// Restart handles POST /api/v1/sessions/{id}/restart
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(id string) (domain.CardView, error) {
		return h.study.Restart(r.Context(), id)
	})
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, action func(id string) (domain.CardView, error)) {
	id := chi.URLParam(r, "id")
	view, err := action(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.sessionResponse(w, http.StatusOK, id, view)
}

// Grade handles POST /api/v1/sessions/{id}/grade
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrInvalidGrade) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Grade == nil {
		writeError(w, http.StatusBadRequest, "grade is required")
		return
	}

	view, err := h.study.Grade(r.Context(), id, *req.Grade)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrUnsupportedGrade) {
			h.writeServiceError(w, err)
			return
		}
		// Saving failed but the grade is applied in memory
		grades, _ := h.study.Grades(id)
		writeJSON(w, http.StatusOK, SessionResponse{
			ID:      id,
			Card:    view,
			Grades:  grades,
			Warning: "progress could not be saved",
		})
		return
	}

	h.sessionResponse(w, http.StatusOK, id, view)
}

// Report handles GET /api/v1/sessions/{id}/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.study.Report(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		Learned:   report.Learned,
		Remaining: report.Remaining,
	})
}

// EndSession handles DELETE /api/v1/sessions/{id}
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.study.End(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProfileStats handles GET /api/v1/profiles/{profile}/stats
func (h *Handler) ProfileStats(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(chi.URLParam(r, "profile"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	summary, err := h.stats.DueSummary(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{DueSummary: summary, Total: summary.Total()})
}

// ResetProgress handles DELETE /api/v1/profiles/{profile}/progress
func (h *Handler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(chi.URLParam(r, "profile"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid profile")
		return
	}

	if err := h.stats.ResetProgress(r.Context(), key); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.study.EndAll(key)
	w.WriteHeader(http.StatusNoContent)
}
