package explorer

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the explorer page, JSON API and chart endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Page)
	r.Post("/probability", h.Probability)

	r.Route("/exercises", func(r chi.Router) {
		r.Get("/", h.Exercises)
		r.Get("/{id}", h.Exercise)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/query", h.QueryChart)
		r.Get("/exercises/{id}", h.ExerciseChart)
	})
}
