package queue

import (
	"context"
	"sync"
)

// Captured is one message recorded by the capture publisher.
type Captured struct {
	EntityKey string
	Message   ExportMessage
	Topic     string
	Enabled   bool
}

// CapturePublisher records publishes in memory for tests.
type CapturePublisher struct {
	mu       sync.Mutex
	messages []Captured
	// Err, when set, is returned by every Publish.
	Err error
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) Publish(_ context.Context, entityKey string, msg ExportMessage, topic string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, Captured{EntityKey: entityKey, Message: msg, Topic: topic, Enabled: enabled})
	return nil
}

// Messages returns a copy of everything published so far.
func (p *CapturePublisher) Messages() []Captured {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Captured(nil), p.messages...)
}
