package trade_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"catchrec/internal/landings"
	"catchrec/internal/queue"
	"catchrec/internal/rules"
	"catchrec/internal/trade"
)

// =============================================================================
// Trade Export Gateway Test Suite
// =============================================================================

const tradeSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"version": "2.1.0",
	"type": "object",
	"required": ["correlationId", "documentNumber", "documentType"],
	"properties": {
		"correlationId": {"type": "string"},
		"documentNumber": {"type": "string"},
		"documentType": {"type": "string"}
	}
}`

const strictTradeSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"version": "3.0.0",
	"type": "object",
	"required": ["exportedTo"]
}`

type GatewaySuite struct {
	suite.Suite
	publisher  *queue.CapturePublisher
	schemaPath string
	strictPath string
	logger     *slog.Logger
	cert       landings.Certificate
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.publisher = queue.NewCapturePublisher()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := s.T().TempDir()
	s.schemaPath = filepath.Join(dir, "trade-export.json")
	s.Require().NoError(os.WriteFile(s.schemaPath, []byte(tradeSchema), 0o600))
	s.strictPath = filepath.Join(dir, "strict.json")
	s.Require().NoError(os.WriteFile(s.strictPath, []byte(strictTradeSchema), 0o600))

	s.cert = landings.Certificate{
		DocumentNumber: "GBR-2019-CC-123",
		DocumentType:   landings.DocTypeCatchCertificate,
		ExporterName:   "Ocean Exports Ltd",
		OrganisationID: "org-1",
		UserID:         "user-1",
	}
}

func (s *GatewaySuite) gateway(policy trade.Policy, schemaPath string, opts ...trade.Option) *trade.Gateway {
	opts = append(opts, trade.WithLogger(s.logger))
	g, err := trade.New(s.publisher, rules.StdTradeMapper{}, "trade-exports", true, policy, schemaPath, opts...)
	s.Require().NoError(err)
	return g
}

func (s *GatewaySuite) TestNew() {
	s.Run("validated policy requires a schema path", func() {
		_, err := trade.New(s.publisher, rules.StdTradeMapper{}, "trade-exports", true, trade.PolicyValidated, "")
		s.Error(err)
	})

	s.Run("raw policy does not", func() {
		_, err := trade.New(s.publisher, rules.StdTradeMapper{}, "trade-exports", true, trade.PolicyRaw, "")
		s.NoError(err)
	})
}

// =============================================================================
// Aggregate Status
// =============================================================================

func (s *GatewaySuite) TestAggregate() {
	s.Equal(trade.StatusVoid, trade.Aggregate(nil))
	s.Equal(trade.StatusComplete, trade.Aggregate([]trade.QueryResult{}))
	s.Equal(trade.StatusComplete, trade.Aggregate([]trade.QueryResult{{Status: "OK"}, {Status: "OK"}}))
	s.Equal(trade.StatusBlocked, trade.Aggregate([]trade.QueryResult{{Status: "OK"}, {Status: "BLOCKED"}}))
}

// =============================================================================
// Raw Policy
// =============================================================================

func (s *GatewaySuite) TestRawPolicy() {
	ctx := context.Background()
	g := s.gateway(trade.PolicyRaw, "")

	mappedCase := map[string]any{
		"correlationId":      "corr-1",
		"documentNumber":     "GBR-2019-CC-123",
		"clonedFrom":         "GBR-2018-CC-001",
		"landingsCloned":     true,
		"parentDocumentVoid": false,
	}

	s.Require().NoError(g.Report(ctx, s.cert, "cc-submitted", mappedCase, nil))

	msgs := s.publisher.Messages()
	s.Require().Len(msgs, 1)
	s.Equal("GBR-2019-CC-123", msgs[0].EntityKey)
	s.Equal("trade-exports", msgs[0].Topic)
	s.True(msgs[0].Enabled)

	msg := msgs[0].Message
	s.Equal("cc-submitted", msg.Subject)
	s.Equal("corr-1", msg.CorrelationID)
	s.Equal(msg.CorrelationID, msg.SessionID)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(msg.Body, &body))
	s.NotContains(body, "clonedFrom")
	s.NotContains(body, "landingsCloned")
	s.NotContains(body, "parentDocumentVoid")
	s.Equal("corr-1", body["correlationId"])

	// The caller's map is not mutated by the strip.
	s.Contains(mappedCase, "clonedFrom")
}

// =============================================================================
// Validated Policy
// =============================================================================

func (s *GatewaySuite) TestValidatedPolicy() {
	ctx := context.Background()
	at := time.Date(2019, 7, 10, 12, 30, 0, 123456789, time.UTC)

	s.Run("publishes with full message metadata", func() {
		g := s.gateway(trade.PolicyValidated, s.schemaPath, trade.WithClock(func() time.Time { return at }))
		results := []trade.QueryResult{{Status: "OK"}}

		s.Require().NoError(g.Report(ctx, s.cert, "cc-submitted", map[string]any{"correlationId": "corr-2"}, results))

		msgs := s.publisher.Messages()
		s.Require().Len(msgs, 1)
		msg := msgs[0].Message

		s.Equal("corr-2", msg.CorrelationID)
		s.Equal(msg.CorrelationID, msg.SessionID)
		s.NotEmpty(msg.MessageID)

		props := msg.ApplicationProperties
		s.Equal("GBR-2019-CC-123", props["entityKey"])
		s.Equal("catch-recording", props["publisherId"])
		s.Equal("org-1", props["organisationId"])
		s.Equal("user-1", props["userId"])
		s.Equal("2.1.0", props["schemaVersion"])
		s.Equal("internal", props["type"])
		s.Equal("application/json", props["contentType"])
		s.Equal("COMPLETE", props["status"])
		s.Equal(at.Format(time.RFC3339Nano), props["timestamp"])
	})

	s.Run("void certificate carries VOID status", func() {
		g := s.gateway(trade.PolicyValidated, s.schemaPath)

		s.Require().NoError(g.Report(ctx, s.cert, "cc-void", map[string]any{"correlationId": "corr-3"}, nil))

		msgs := s.publisher.Messages()
		s.Equal("VOID", msgs[len(msgs)-1].Message.ApplicationProperties["status"])
	})

	s.Run("blocked landing blocks the certificate", func() {
		g := s.gateway(trade.PolicyValidated, s.schemaPath)
		results := []trade.QueryResult{{Status: "OK"}, {Status: "BLOCKED"}}

		s.Require().NoError(g.Report(ctx, s.cert, "cc-submitted", map[string]any{"correlationId": "corr-4"}, results))

		msgs := s.publisher.Messages()
		s.Equal("BLOCKED", msgs[len(msgs)-1].Message.ApplicationProperties["status"])
	})

	s.Run("schema failure logs and does not publish", func() {
		g := s.gateway(trade.PolicyValidated, s.strictPath)
		before := len(s.publisher.Messages())

		err := g.Report(ctx, s.cert, "cc-submitted", map[string]any{"correlationId": "corr-5"}, nil)

		s.NoError(err)
		s.Len(s.publisher.Messages(), before)
	})

	s.Run("unreadable schema is a hard error", func() {
		g := s.gateway(trade.PolicyValidated, filepath.Join(s.T().TempDir(), "missing.json"))

		err := g.Report(ctx, s.cert, "cc-submitted", map[string]any{"correlationId": "corr-6"}, nil)

		s.Require().Error(err)
		s.Contains(err.Error(), "load trade schema")
	})
}
