package reports

import (
	"context"
	"fmt"
	"log/slog"

	"petapintar/internal/events"
	"petapintar/internal/models"
	"petapintar/internal/store"
)

// Action is an admin decision on a pending report.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionApproveAndEdit Action = "approve_and_edit"
)

// ParseAction validates a raw action value.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionApprove, ActionReject, ActionApproveAndEdit:
		return Action(raw), nil
	}
	return "", fmt.Errorf("unknown action %q", raw)
}

// Decision is the outcome of one reconciliation.
type Decision struct {
	// Updated holds the merged record when an approval was persisted; nil
	// for rejections and for reports whose location no longer exists.
	Updated *models.Location
	// OpenForEdit asks the caller to preload the merged record into the
	// admin edit form (approve-and-edit).
	OpenForEdit bool
}

// Reconciler applies admin decisions to pending change reports.
type Reconciler struct {
	locations store.LocationStore
	reports   store.ReportStore
	publisher events.Publisher
	log       *slog.Logger
}

// NewReconciler wires the stores and event publisher.
func NewReconciler(locations store.LocationStore, reports store.ReportStore, publisher events.Publisher, log *slog.Logger) *Reconciler {
	return &Reconciler{locations: locations, reports: reports, publisher: publisher, log: log}
}

// Decide handles one report. For approvals it merges the report's changes
// into the referenced location (looked up in the caller's current in-memory
// set) and persists the merged record; a location deleted since the report
// was filed is tolerated and simply skips the update. In every case the
// report is deleted afterwards — a report is consumed exactly once regardless
// of outcome. If the update fails nothing else happens and the error is
// surfaced; if only the delete fails the location stays updated and the
// report stays pending, which is recoverable because re-approving the same
// report applies the same field overwrites again.
func (r *Reconciler) Decide(ctx context.Context, report models.ChangeReport, action Action, locations []models.Location) (Decision, error) {
	var decision Decision

	if action == ActionApprove || action == ActionApproveAndEdit {
		if original, ok := findByID(locations, report.PinID); ok {
			merged := report.Changes.Apply(original)
			if err := r.locations.Update(ctx, merged); err != nil {
				return Decision{}, fmt.Errorf("apply report %s: %w", report.ReportID, err)
			}
			decision.Updated = &merged
			decision.OpenForEdit = action == ActionApproveAndEdit
		} else {
			r.log.Warn("report references a deleted location, skipping update",
				"report_id", report.ReportID, "pin_id", report.PinID)
		}
	}

	if err := r.reports.Delete(ctx, report.ReportID); err != nil {
		return decision, fmt.Errorf("delete report %s: %w", report.ReportID, err)
	}

	eventType := events.ReportRejected
	if action != ActionReject {
		eventType = events.ReportApproved
	}
	if err := r.publisher.PublishReport(ctx, eventType, report); err != nil {
		r.log.Warn("failed to publish decision event", "report_id", report.ReportID, "error", err)
	}

	return decision, nil
}

func findByID(locations []models.Location, id string) (models.Location, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	return models.Location{}, false
}
