package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"petapintar/internal/logger"
	"petapintar/internal/metrics"
)

// Router assembles all routes with access logging on every request.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(logger.Access(s.log))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/auth/login", s.handleLogin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/locations", s.handleListLocations)
		r.Get("/locations/{id}/nearby", s.handleNearby)
		r.Post("/locations/{id}/reports", s.handleSubmitReport)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.auth.Middleware)

			r.Post("/locations", s.handleCreateLocation)
			r.Put("/locations/{id}", s.handleUpdateLocation)
			r.Delete("/locations/{id}", s.handleDeleteLocation)
			r.Post("/locations/bulk-delete", s.handleBulkDelete)
			r.Get("/locations/export", s.handleExport)
			r.Post("/locations/import", s.handleImport)

			r.Get("/reports", s.handleListReports)
			r.Post("/reports/{id}/decision", s.handleDecision)

			r.Post("/uploads", s.handleUpload)
		})
	})

	return r
}
