package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"znormal-explorer/internal/explorer"
	"znormal-explorer/internal/handlers"
	"znormal-explorer/internal/observability"
)

// NewRouter wires the middleware chain, operational endpoints and the
// explorer domain.
func NewRouter(h *explorer.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	h.RegisterRoutes(r)

	return r
}
