// Package kafka publishes document status transitions to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/custodia-labs/documentor/internal/core/domain"
	"github.com/custodia-labs/documentor/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.EventPublisher = (*Publisher)(nil)
	_ driven.EventPublisher = NopPublisher{}
)

// DefaultTopic receives document status events
const DefaultTopic = "document.status"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per status transition, keyed by document ID
// so a document's events stay ordered within a partition.
type Publisher struct {
	writer messageWriter
}

// NewPublisher creates a publisher for the given brokers and topic
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// PublishStatus writes the event
func (p *Publisher) PublishStatus(ctx context.Context, event *domain.DocumentStatusEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DocumentID),
		Value: value,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("publish status event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events; used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) PublishStatus(context.Context, *domain.DocumentStatusEvent) error { return nil }
func (NopPublisher) Close() error                                                     { return nil }
