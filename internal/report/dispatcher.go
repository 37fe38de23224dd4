package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catchrec/internal/landings"
	"catchrec/internal/queue"
)

// QueueDispatcher publishes case-management events for reported certificates.
type QueueDispatcher struct {
	publisher queue.Publisher
	topic     string
	enabled   bool
}

// NewQueueDispatcher wires a dispatcher onto the case-management topic.
func NewQueueDispatcher(publisher queue.Publisher, topic string, enabled bool) (*QueueDispatcher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("queue publisher is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("case topic is required")
	}
	return &QueueDispatcher{publisher: publisher, topic: topic, enabled: enabled}, nil
}

type caseEvent struct {
	DocumentNumber string                            `json:"documentNumber"`
	DocumentType   landings.DocumentType             `json:"documentType"`
	ExporterName   string                            `json:"exporterName"`
	Label          string                            `json:"label"`
	Landings       []landings.ValidatedLandingRecord `json:"landings"`
	Timestamp      time.Time                         `json:"timestamp"`
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, cert landings.Certificate, group []landings.ValidatedLandingRecord, label string) error {
	body, err := json.Marshal(caseEvent{
		DocumentNumber: cert.DocumentNumber,
		DocumentType:   cert.DocumentType,
		ExporterName:   cert.ExporterName,
		Label:          label,
		Landings:       group,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode case event: %w", err)
	}
	msg := queue.ExportMessage{
		Body:          body,
		Subject:       label,
		SessionID:     cert.DocumentNumber,
		CorrelationID: cert.DocumentNumber,
		MessageID:     uuid.NewString(),
	}
	return d.publisher.Publish(ctx, cert.DocumentNumber, msg, d.topic, d.enabled)
}
