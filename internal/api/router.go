// Package api exposes the ATS service over REST.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// NewRouter builds the REST router for svc
func NewRouter(svc ats.Service, logger *logging.Logger) *chi.Mux {
	logger = logging.OrNop(logger).Named("api")
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/jobs", h.ListJobs)
	r.Post("/candidates", h.CreateCandidate)
	r.Get("/applications", h.ListApplications)
	r.Get("/health", h.Health)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": "Route not found"})
	})

	return r
}
