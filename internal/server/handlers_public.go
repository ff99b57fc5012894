package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"petapintar/internal/metrics"
	"petapintar/internal/models"
	"petapintar/internal/reports"
	"petapintar/internal/selection"
	"petapintar/pkg/geo"
	"petapintar/pkg/routing"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.credentialsMatch(req.Username, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.auth.GenerateToken()
	if err != nil {
		s.log.Error("generate token", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to create session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleListLocations serves the public directory: all locations, newest
// first, optionally narrowed by a free-text query and a category filter.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query locations", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch locations")
		return
	}

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	filtered := make([]models.Location, 0, len(locs))
	for _, l := range locs {
		if category != "" && !strings.EqualFold(string(l.Category), category) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(l.Name), q) &&
			!strings.Contains(strings.ToLower(l.Address), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		filtered = append(filtered, l)
	}

	writeJSON(w, http.StatusOK, map[string]any{"locations": filtered})
}

type rankedLocation struct {
	Location   models.Location `json:"location"`
	DistanceKm float64         `json:"distanceKm"`
}

type routeResponse struct {
	Path       []geo.Point `json:"path"`
	DistanceKm float64     `json:"distanceKm"`
	// Fallback is true when road routing was unavailable and the path is
	// the synthetic straight segment.
	Fallback bool `json:"fallback"`
}

type nearbyResponse struct {
	Nearby []rankedLocation `json:"nearby"`
	Route  *routeResponse   `json:"route,omitempty"`
}

// handleNearby is the composed selection feature: rank the other locations by
// distance from the selected one, then resolve a road route to the nearest
// with the straight-line fallback.
func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	locs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query locations", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch locations")
		return
	}

	var origin *models.Location
	candidates := make([]models.Location, 0, len(locs))
	for _, l := range locs {
		if l.ID == id {
			o := l
			origin = &o
			continue
		}
		candidates = append(candidates, l)
	}
	if origin == nil {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}

	k := selection.NearbyCount
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid k")
			return
		}
		k = parsed
	}

	ranked := geo.Rank(selection.Point(*origin), candidates, selection.Point, k)
	resp := nearbyResponse{Nearby: make([]rankedLocation, 0, len(ranked))}
	for _, item := range ranked {
		resp.Nearby = append(resp.Nearby, rankedLocation{
			Location:   item.Item,
			DistanceKm: geo.RoundKm(item.DistanceKm),
		})
	}

	if len(ranked) > 0 {
		start := selection.Point(*origin)
		end := selection.Point(ranked[0].Item)

		metrics.RouteResolutionsTotal.Inc()
		route, err := s.resolver.Route(r.Context(), start, end)
		if err != nil {
			// Degrade silently to the straight segment; this is not a
			// user-facing error.
			s.log.Debug("road routing unavailable, using fallback", "error", err)
			metrics.RouteFallbacksTotal.Inc()
			fb := routing.Fallback(start, end)
			resp.Route = &routeResponse{Path: fb.Path, DistanceKm: fb.DistanceKm, Fallback: true}
		} else {
			resp.Route = &routeResponse{Path: route.Path, DistanceKm: route.DistanceKm}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitReport accepts a visitor's change proposal for one location.
// A draft identical to the stored record is rejected locally before any
// write.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var draft reports.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	locs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query locations", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch locations")
		return
	}
	var original *models.Location
	for _, l := range locs {
		if l.ID == id {
			o := l
			original = &o
			break
		}
	}
	if original == nil {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}

	report, err := s.submitter.Submit(r.Context(), *original, draft)
	if errors.Is(err, reports.ErrNoChanges) {
		writeError(w, http.StatusUnprocessableEntity, "no changes were made")
		return
	}
	if err != nil {
		s.log.Error("submit report", "pin_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "unable to save report")
		return
	}

	metrics.ReportsSubmittedTotal.Inc()
	writeJSON(w, http.StatusCreated, report)
}
