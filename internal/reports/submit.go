package reports

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"petapintar/internal/events"
	"petapintar/internal/models"
	"petapintar/internal/store"
)

// Submitter turns accepted drafts into persisted change reports.
type Submitter struct {
	reports   store.ReportStore
	publisher events.Publisher
	log       *slog.Logger
}

// NewSubmitter wires the report store and event publisher.
func NewSubmitter(reports store.ReportStore, publisher events.Publisher, log *slog.Logger) *Submitter {
	return &Submitter{reports: reports, publisher: publisher, log: log}
}

// Submit diffs the draft against the original record and persists a report
// when at least one field differs. An identical draft returns ErrNoChanges
// before any write happens. A failed insert is returned to the submitter;
// nothing is retried.
func (s *Submitter) Submit(ctx context.Context, original models.Location, draft Draft) (models.ChangeReport, error) {
	changes := BuildChanges(original, draft)
	if changes.IsEmpty() {
		return models.ChangeReport{}, ErrNoChanges
	}

	report := models.ChangeReport{
		ReportID:   uuid.NewString(),
		PinID:      original.ID,
		PinName:    original.Name,
		Changes:    changes,
		ReportedAt: time.Now().UTC(),
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return models.ChangeReport{}, err
	}

	if err := s.publisher.PublishReport(ctx, events.ReportSubmitted, report); err != nil {
		s.log.Warn("failed to publish report event", "report_id", report.ReportID, "error", err)
	}
	return report, nil
}
