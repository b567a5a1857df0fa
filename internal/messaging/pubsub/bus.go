// Package pubsub publishes and consumes storefront events through Watermill,
// either over in-process Go channels or over Kafka via Sarama.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

// KeyMetadata carries the partition key of a message.
const KeyMetadata = "key"

// Bus publishes JSON events and hands their payloads to consumers.
type Bus struct {
	publisher     message.Publisher
	newSubscriber func(groupID string) (message.Subscriber, error)

	mu          sync.Mutex
	subscribers []message.Subscriber
}

var (
	_ messaging.Publisher  = (*Bus)(nil)
	_ messaging.Subscriber = (*Bus)(nil)
)

// NewChannelBus creates an in-process bus. A persistent bus replays earlier
// messages to late subscribers. Consumer groups are ignored: every consumer
// sees every message.
func NewChannelBus(logger *slog.Logger, persistent bool) *Bus {
	ch := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64, Persistent: persistent},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{
		publisher:     ch,
		newSubscriber: func(string) (message.Subscriber, error) { return ch, nil },
	}
}

func (b *Bus) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(KeyMetadata, key)
	if eventType := messaging.EventType(event); eventType != "" {
		msg.Metadata.Set(messaging.EventTypeHeader, eventType)
	}
	msg.SetContext(ctx)

	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Consume blocks until ctx is cancelled. Messages are acked even when the
// handler fails, so a poison message never stalls the topic.
func (b *Bus) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	sub, err := b.subscriber(groupID)
	if err != nil {
		slog.Error("Failed to create subscriber", "topic", topic, "group_id", groupID, "err", err)
		return
	}

	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe", "topic", topic, "err", err)
		return
	}

	for msg := range messages {
		if err := handler(ctx, msg.Payload); err != nil {
			slog.Error("Error handling message", "topic", topic, "message_uuid", msg.UUID, "key", msg.Metadata.Get(KeyMetadata), "err", err)
		}
		msg.Ack()
	}
	slog.Info("Consumer shutting down", "topic", topic)
}

func (b *Bus) subscriber(groupID string) (message.Subscriber, error) {
	sub, err := b.newSubscriber(groupID)
	if err != nil {
		return nil, err
	}
	if any(sub) != any(b.publisher) {
		b.mu.Lock()
		b.subscribers = append(b.subscribers, sub)
		b.mu.Unlock()
	}
	return sub, nil
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, sub := range b.subscribers {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.subscribers = nil
	if err := b.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
