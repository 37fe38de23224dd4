// Package trade maps orchestrated reports into the external trade system's
// payload shape, validates them, and publishes the results.
package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"catchrec/internal/landings"
	"catchrec/internal/platform/metrics"
	"catchrec/internal/queue"
)

// AggregateStatus summarises a certificate's landing-level results.
type AggregateStatus string

const (
	StatusVoid     AggregateStatus = "VOID"
	StatusBlocked  AggregateStatus = "BLOCKED"
	StatusComplete AggregateStatus = "COMPLETE"
)

// QueryResult is one landing-level validation result attached to a trade
// export. A nil result list means the certificate was voided.
type QueryResult struct {
	Status string `json:"status"`
}

// The fixed message metadata the trade system keys on.
const (
	publisherID     = "catch-recording"
	messageTypeTag  = "internal"
	contentTypeJSON = "application/json"
)

// Internal-only fields stripped before a raw (unvalidated) publish.
var internalFields = []string{"clonedFrom", "landingsCloned", "parentDocumentVoid"}

// Mapper is the rule-library boundary producing the external schema-shaped
// payload. The payload must carry a correlationId field.
type Mapper interface {
	MapToTradePayload(cert landings.Certificate, mappedCase map[string]any, queryResults []QueryResult) (map[string]any, error)
}

// Policy selects one of the two payload-construction paths, resolved once per
// call rather than branched inline.
type Policy int

const (
	// PolicyValidated maps, schema-validates, and publishes with aggregate
	// status metadata.
	PolicyValidated Policy = iota
	// PolicyRaw strips internal-only fields and publishes the mapped case
	// verbatim; no schema check, no enrichment.
	PolicyRaw
)

// Gateway publishes certificate outcomes to the trade system.
type Gateway struct {
	publisher queue.Publisher
	mapper    Mapper
	validator *SchemaValidator
	topic     string
	enabled   bool

	policy     Policy
	schemaPath string

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock sets the clock function for testability.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// New wires a trade gateway. policy and schemaPath come from feature
// configuration; the schema is only touched under PolicyValidated.
func New(publisher queue.Publisher, mapper Mapper, topic string, enabled bool, policy Policy, schemaPath string, opts ...Option) (*Gateway, error) {
	if publisher == nil {
		return nil, fmt.Errorf("queue publisher is required")
	}
	if mapper == nil {
		return nil, fmt.Errorf("trade mapper is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("trade topic is required")
	}
	if policy == PolicyValidated && schemaPath == "" {
		return nil, fmt.Errorf("schema path is required for validated policy")
	}
	g := &Gateway{
		publisher:  publisher,
		mapper:     mapper,
		validator:  NewSchemaValidator(),
		topic:      topic,
		enabled:    enabled,
		policy:     policy,
		schemaPath: schemaPath,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Report publishes one certificate's outcome. Under the raw policy the mapped
// case goes out verbatim minus internal-only fields. Under the validated
// policy a schema failure logs the error list and returns nil without
// publishing: malformed payloads are never sent downstream, and callers must
// not read a validation failure as an error return.
func (g *Gateway) Report(ctx context.Context, cert landings.Certificate, label string, mappedCase map[string]any, queryResults []QueryResult) error {
	if g.policy == PolicyRaw {
		return g.reportRaw(ctx, cert, label, mappedCase)
	}
	return g.reportValidated(ctx, cert, label, mappedCase, queryResults)
}

func (g *Gateway) reportRaw(ctx context.Context, cert landings.Certificate, label string, mappedCase map[string]any) error {
	stripped := make(map[string]any, len(mappedCase))
	for k, v := range mappedCase {
		stripped[k] = v
	}
	for _, field := range internalFields {
		delete(stripped, field)
	}
	correlationID, _ := stripped["correlationId"].(string)

	body, err := json.Marshal(stripped)
	if err != nil {
		return fmt.Errorf("encode raw trade payload: %w", err)
	}
	msg := queue.ExportMessage{
		Body:          body,
		Subject:       label,
		SessionID:     correlationID,
		CorrelationID: correlationID,
	}
	if err := g.publisher.Publish(ctx, cert.DocumentNumber, msg, g.topic, g.enabled); err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.TradeExportsSent.Inc()
	}
	return nil
}

func (g *Gateway) reportValidated(ctx context.Context, cert landings.Certificate, label string, mappedCase map[string]any, queryResults []QueryResult) error {
	payload, err := g.mapper.MapToTradePayload(cert, mappedCase, queryResults)
	if err != nil {
		return fmt.Errorf("map trade payload: %w", err)
	}

	version, failures, err := g.validator.Validate(g.schemaPath, payload)
	if err != nil {
		return fmt.Errorf("load trade schema: %w", err)
	}
	if len(failures) > 0 {
		g.logger.ErrorContext(ctx, "trade payload failed schema validation",
			"documentNumber", cert.DocumentNumber,
			"label", label,
			"errors", errorStrings(failures),
		)
		if g.metrics != nil {
			g.metrics.TradeExportsInvalid.Inc()
		}
		return nil
	}

	status := Aggregate(queryResults)
	correlationID, _ := payload["correlationId"].(string)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode trade payload: %w", err)
	}
	msg := queue.ExportMessage{
		Body:          body,
		Subject:       label,
		SessionID:     correlationID,
		CorrelationID: correlationID,
		MessageID:     uuid.NewString(),
		ApplicationProperties: map[string]string{
			"entityKey":      cert.DocumentNumber,
			"publisherId":    publisherID,
			"organisationId": cert.OrganisationID,
			"userId":         cert.UserID,
			"schemaVersion":  version,
			"type":           messageTypeTag,
			"contentType":    contentTypeJSON,
			"status":         string(status),
			"timestamp":      g.now().UTC().Format(time.RFC3339Nano),
		},
	}
	if err := g.publisher.Publish(ctx, cert.DocumentNumber, msg, g.topic, g.enabled); err != nil {
		return err
	}
	if g.metrics != nil {
		g.metrics.TradeExportsSent.Inc()
	}
	return nil
}

// Aggregate computes the certificate-level status: VOID when there are no
// landing-level results (certificate voided), BLOCKED if any result is
// blocked, COMPLETE otherwise.
func Aggregate(queryResults []QueryResult) AggregateStatus {
	if queryResults == nil {
		return StatusVoid
	}
	for _, r := range queryResults {
		if r.Status == string(StatusBlocked) {
			return StatusBlocked
		}
	}
	return StatusComplete
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
