// Package queue carries the message envelope and publisher used for
// case-management and trade dispatch.
package queue

import "context"

// ExportMessage is the queue envelope. Constructed fresh per dispatch, never
// persisted.
type ExportMessage struct {
	Body          []byte
	Subject       string
	SessionID     string
	CorrelationID string
	MessageID     string
	// ApplicationProperties travel as message headers.
	ApplicationProperties map[string]string
}

// Publisher dispatches export messages. Publish with enabled=false still
// publishes; downstream consumers treat such messages as non-authoritative
// (test-only routing).
type Publisher interface {
	Publish(ctx context.Context, entityKey string, msg ExportMessage, topic string, enabled bool) error
}

// authoritativeHeader marks messages published with enabled=false so consumers
// can route them away from production handling.
const authoritativeHeader = "authoritative"
