package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"petapintar/internal/models"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestPublishReport(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisherWithWriter(w)

	report := models.ChangeReport{ReportID: "report-1", PinID: "pin-1", PinName: "Drop Point Medan"}
	if err := p.PublishReport(context.Background(), ReportSubmitted, report); err != nil {
		t.Fatalf("PublishReport returned error: %v", err)
	}

	if len(w.messages) != 1 {
		t.Fatalf("got %d messages; want 1", len(w.messages))
	}
	msg := w.messages[0]
	if string(msg.Key) != "report-1" {
		t.Errorf("Key = %q; want the report id", msg.Key)
	}

	var evt ReportEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if evt.Type != ReportSubmitted || evt.ReportID != "report-1" || evt.PinName != "Drop Point Medan" {
		t.Errorf("event = %+v; fields wrong", evt)
	}
	if evt.OccurredAt.IsZero() {
		t.Error("OccurredAt must be set")
	}
}

func TestPublishReportWriterFailure(t *testing.T) {
	w := &mockWriter{err: errors.New("broker unavailable")}
	p := NewKafkaPublisherWithWriter(w)

	if err := p.PublishReport(context.Background(), ReportApproved, models.ChangeReport{ReportID: "r"}); err == nil {
		t.Fatal("expected the writer error to surface")
	}
}

func TestClose(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisherWithWriter(w)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Fatal("Close must close the underlying writer")
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.PublishReport(context.Background(), ReportRejected, models.ChangeReport{}); err != nil {
		t.Fatalf("Noop publish returned error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Noop close returned error: %v", err)
	}
}
