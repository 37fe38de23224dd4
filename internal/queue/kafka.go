package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher publishes export messages to Kafka topics. Construction
// ensures the configured topics exist so the first pipeline run does not race
// topic auto-creation.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafka connects to the brokers and ensures the given topics exist.
func NewKafka(ctx context.Context, brokers []string, topics []string, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	p := &KafkaPublisher{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.ensureTopics(ctx, topics); err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

func (p *KafkaPublisher) ensureTopics(ctx context.Context, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	adm := kadm.NewClient(p.client)
	existing, err := adm.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	for _, topic := range topics {
		if existing.Has(topic) {
			continue
		}
		if _, err := adm.CreateTopic(ctx, 1, 1, nil, topic); err != nil {
			return fmt.Errorf("create topic %s: %w", topic, err)
		}
		p.logger.InfoContext(ctx, "created queue topic", "topic", topic)
	}
	return nil
}

// Publish produces one record keyed by entityKey so per-entity ordering holds
// within a partition. enabled=false still publishes but marks the message
// non-authoritative.
func (p *KafkaPublisher) Publish(ctx context.Context, entityKey string, msg ExportMessage, topic string, enabled bool) error {
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(entityKey),
		Value: msg.Body,
		Headers: []kgo.RecordHeader{
			{Key: "subject", Value: []byte(msg.Subject)},
			{Key: "sessionId", Value: []byte(msg.SessionID)},
			{Key: "correlationId", Value: []byte(msg.CorrelationID)},
			{Key: "messageId", Value: []byte(msg.MessageID)},
			{Key: authoritativeHeader, Value: []byte(strconv.FormatBool(enabled))},
		},
	}
	for k, v := range msg.ApplicationProperties {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
