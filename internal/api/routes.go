package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the handlers into a chi router with the standard middleware
// stack.
func NewRouter(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", h.Resolve)
		r.Post("/quote", h.Quote)
		r.Get("/convert", h.Convert)
		r.Post("/profit", h.Profit)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.SaveDraft)
			r.Get("/", h.ListDrafts)
			r.Get("/{id}", h.GetDraft)
			r.Delete("/{id}", h.DeleteDraft)
		})
	})

	return r
}
