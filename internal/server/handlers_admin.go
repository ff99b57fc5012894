package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"petapintar/internal/metrics"
	"petapintar/internal/models"
	"petapintar/internal/reports"
	"petapintar/internal/spreadsheet"
	"petapintar/internal/storage"
)

type locationRequest struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Description    string  `json:"description"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	OwnerName      string  `json:"ownerName"`
	Whatsapp       string  `json:"whatsapp"`
	OperatingHours string  `json:"operatingHours"`
	ImageURL       string  `json:"imageUrl"`
	Partnership    string  `json:"partnershipStatus"`
	Status         string  `json:"status"`
}

func (req locationRequest) toLocation() models.Location {
	return models.Location{
		Name:           strings.TrimSpace(req.Name),
		Category:       models.ParseCategory(req.Category),
		Lat:            req.Lat,
		Lng:            req.Lng,
		Description:    strings.TrimSpace(req.Description),
		Address:        strings.TrimSpace(req.Address),
		Phone:          strings.TrimSpace(req.Phone),
		OwnerName:      strings.TrimSpace(req.OwnerName),
		Whatsapp:       strings.TrimSpace(req.Whatsapp),
		OperatingHours: strings.TrimSpace(req.OperatingHours),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		Partnership:    models.ParsePartnership(req.Partnership),
		Status:         models.ParseStatus(req.Status),
	}
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc := req.toLocation()
	loc.ID = uuid.NewString()
	loc.CreatedAt = time.Now().UTC()

	if errs := loc.Validate(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", errs...)
		return
	}
	if err := s.locations.Insert(r.Context(), loc); err != nil {
		s.log.Error("insert location", "error", err)
		writeError(w, http.StatusBadGateway, "unable to save location")
		return
	}
	writeJSON(w, http.StatusCreated, loc)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc := req.toLocation()
	loc.ID = id
	if errs := loc.Validate(); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", errs...)
		return
	}
	if err := s.locations.Update(r.Context(), loc); err != nil {
		s.log.Error("update location", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "unable to update location")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.locations.Delete(r.Context(), id); err != nil {
		s.log.Error("delete location", "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "unable to delete location")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// handleBulkDelete deletes every selected location concurrently. There is no
// rollback: deletions that succeeded stay deleted even when others fail, and
// the failures are reported.
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "no ids given")
		return
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)
	for _, id := range req.IDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.locations.Delete(r.Context(), id); err != nil {
				s.log.Error("bulk delete", "id", id, "error", err)
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if len(failed) > 0 {
		writeError(w, http.StatusBadGateway,
			fmt.Sprintf("failed to delete %d of %d locations", len(failed), len(req.IDs)), failed...)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	pending, err := s.reports.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query reports", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch reports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": pending})
}

type decisionRequest struct {
	Action string `json:"action"`
}

type decisionResponse struct {
	Updated     *models.Location      `json:"updated,omitempty"`
	OpenForEdit bool                  `json:"openForEdit"`
	Locations   []models.Location     `json:"locations"`
	Reports     []models.ChangeReport `json:"reports"`
}

// handleDecision applies one admin decision and responds with both lists
// re-fetched from the store, so the dashboard state always matches what was
// actually persisted.
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := reports.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pending, err := s.reports.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query reports", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch reports")
		return
	}
	var report *models.ChangeReport
	for _, p := range pending {
		if p.ReportID == reportID {
			rep := p
			report = &rep
			break
		}
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	locs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query locations", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch locations")
		return
	}

	decision, err := s.reconciler.Decide(r.Context(), *report, action, locs)
	if err != nil {
		s.log.Error("decide report", "report_id", reportID, "error", err)
		writeError(w, http.StatusBadGateway, "unable to apply decision")
		return
	}
	metrics.ReportsDecidedTotal.WithLabelValues(string(action)).Inc()

	// Full re-fetch rather than an incremental patch.
	freshLocs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("refresh locations", "error", err)
		writeError(w, http.StatusInternalServerError, "decision applied but refresh failed")
		return
	}
	freshReports, err := s.reports.QueryAll(r.Context())
	if err != nil {
		s.log.Error("refresh reports", "error", err)
		writeError(w, http.StatusInternalServerError, "decision applied but refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		Updated:     decision.Updated,
		OpenForEdit: decision.OpenForEdit,
		Locations:   freshLocs,
		Reports:     freshReports,
	})
}

// handleUpload stores one image (capped at 1MB) and returns its public URL.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageBytes {
		writeError(w, http.StatusBadRequest, "file too large, maximum is 1MB")
		return
	}

	url, err := s.images.Upload(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		s.log.Error("upload image", "error", err)
		writeError(w, http.StatusBadGateway, "unable to upload image")
		return
	}

	metrics.UploadsTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	locs, err := s.locations.QueryAll(r.Context())
	if err != nil {
		s.log.Error("query locations", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to fetch locations")
		return
	}
	f, err := spreadsheet.Export(locs)
	if err != nil {
		s.log.Error("build export", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to build export")
		return
	}

	filename := fmt.Sprintf("Data_PetaPintar_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		s.log.Error("write export", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	result, err := spreadsheet.Import(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read workbook")
		return
	}
	if len(result.Locations) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no valid rows found")
		return
	}

	if err := s.locations.InsertBatch(r.Context(), result.Locations); err != nil {
		s.log.Error("import locations", "error", err)
		writeError(w, http.StatusBadGateway, "unable to save imported locations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"imported": len(result.Locations),
		"skipped":  result.Skipped,
	})
}
