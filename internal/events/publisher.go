// Package events publishes report lifecycle events to Kafka so downstream
// consumers (notifications, audit) can react to submissions and decisions.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"petapintar/internal/models"
)

// Event names emitted over the report topic.
const (
	ReportSubmitted = "report.submitted"
	ReportApproved  = "report.approved"
	ReportRejected  = "report.rejected"
)

// ReportEvent is the JSON value written to the topic, keyed by report ID.
type ReportEvent struct {
	Type       string    `json:"type"`
	ReportID   string    `json:"reportId"`
	PinID      string    `json:"pinId"`
	PinName    string    `json:"pinName"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits report lifecycle events. Implementations must never fail
// the user action: publishing errors are logged by the caller and dropped.
type Publisher interface {
	PublishReport(ctx context.Context, eventType string, report models.ChangeReport) error
	Close() error
}

// MessageWriter is the slice of kafka.Writer used by KafkaPublisher, split
// out so tests can substitute a mock.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes report events to a single topic.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaPublisher connects a publisher to the given broker and topic.
func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: w}
}

// NewKafkaPublisherWithWriter injects a custom writer; used by tests.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishReport serializes one event and writes it keyed by report ID so all
// events for a report land on the same partition, in order.
func (p *KafkaPublisher) PublishReport(ctx context.Context, eventType string, report models.ChangeReport) error {
	evt := ReportEvent{
		Type:       eventType,
		ReportID:   report.ReportID,
		PinID:      report.PinID,
		PinName:    report.PinName,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(report.ReportID),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// Noop is used when no broker is configured; it drops every event.
type Noop struct{}

func (Noop) PublishReport(ctx context.Context, eventType string, report models.ChangeReport) error {
	slog.Debug("event dropped, no broker configured", "type", eventType, "report_id", report.ReportID)
	return nil
}

func (Noop) Close() error { return nil }
