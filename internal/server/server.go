// Package server wires the HTTP API: public map endpoints and the
// JWT-protected admin dashboard endpoints.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"petapintar/internal/auth"
	"petapintar/internal/reports"
	"petapintar/internal/selection"
	"petapintar/internal/storage"
	"petapintar/internal/store"
)

// Server holds every collaborator the handlers need. Images may be nil when
// object storage is not configured; the upload endpoint then reports the
// feature as unavailable.
type Server struct {
	locations  store.LocationStore
	reports    store.ReportStore
	submitter  *reports.Submitter
	reconciler *reports.Reconciler
	resolver   selection.Resolver
	images     *storage.ImageStore
	auth       *auth.Service

	adminUser     string
	adminPassword string

	log *slog.Logger
}

// Deps bundles the constructor arguments.
type Deps struct {
	Locations  store.LocationStore
	Reports    store.ReportStore
	Submitter  *reports.Submitter
	Reconciler *reports.Reconciler
	Resolver   selection.Resolver
	Images     *storage.ImageStore
	Auth       *auth.Service

	AdminUser     string
	AdminPassword string

	Log *slog.Logger
}

// New builds a Server from its dependencies.
func New(d Deps) *Server {
	return &Server{
		locations:     d.Locations,
		reports:       d.Reports,
		submitter:     d.Submitter,
		reconciler:    d.Reconciler,
		resolver:      d.Resolver,
		images:        d.Images,
		auth:          d.Auth,
		adminUser:     d.AdminUser,
		adminPassword: d.AdminPassword,
		log:           d.Log,
	}
}

func (s *Server) credentialsMatch(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return userOK && passOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("encode response", "error", err)
	}
}

// errorResponse is the uniform error body: a single message plus an optional
// list of validation problems.
type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Errors: details})
}
