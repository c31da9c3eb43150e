package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter creates and configures the Chi router
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(Recoverer(logger))
	r.Use(Logger(logger))
	r.Use(CORS)

	// Health check endpoint
	r.Get("/health", h.HealthCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/letters", h.ListLetters)
		r.Get("/words/{word}", h.GetWord)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.StartSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.EndSession)
				r.Post("/flip", h.Flip)
				r.Post("/next", h.Next)
				r.Post("/prev", h.Prev)
				r.Post("/restart", h.Restart)
				r.Post("/grade", h.Grade)
				r.Get("/report", h.Report)
			})
		})

		r.Route("/profiles/{profile}", func(r chi.Router) {
			r.Get("/stats", h.ProfileStats)
			r.Delete("/progress", h.ResetProgress)
		})
	})

	return r
}
