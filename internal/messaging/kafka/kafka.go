package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

type kafkaBroker struct {
	brokers []string

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

// NewKafkaBroker creates a new Kafka publisher and subscriber. Writers are
// created lazily per topic and reused.
func NewKafkaBroker(brokers []string) (messaging.Publisher, messaging.Subscriber) {
	kb := &kafkaBroker{brokers: brokers, writers: make(map[string]*kafkaGo.Writer)}
	return kb, kb
}

func (k *kafkaBroker) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	w, ok := k.writers[topic]
	if !ok {
		w = &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(k.brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
		k.writers[topic] = w
	}
	return w
}

func (k *kafkaBroker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafkaGo.Message{Key: []byte(key), Value: payload}
	if eventType := messaging.EventType(event); eventType != "" {
		msg.Headers = []kafkaGo.Header{{Key: messaging.EventTypeHeader, Value: []byte(eventType)}}
	}
	return k.writer(topic).WriteMessages(ctx, msg)
}

func (k *kafkaBroker) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var firstErr error
	for topic, w := range k.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close writer for %s: %w", topic, err)
		}
	}
	k.writers = make(map[string]*kafkaGo.Writer)
	return firstErr
}

// Consume commits each message only after handler returned, so a crash while
// handling redelivers it. Handler errors are logged and the message is skipped.
func (k *kafkaBroker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Consumer shutting down", "topic", topic, "group", groupID)
				return
			}
			slog.Error("Error reading message", "topic", topic, "err", err)
			continue
		}

		log := slog.With(messageAttrs(msg)...)
		log.Debug("Message received")
		if err := handler(ctx, msg.Value); err != nil {
			log.Error("Error handling message", "err", err)
		}
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error("Error committing message", "err", err)
		}
	}
}

// headerValue returns the value of the first header named key.
func headerValue(msg kafkaGo.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func messageAttrs(msg kafkaGo.Message) []any {
	return []any{
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"key", string(msg.Key),
		messaging.EventTypeHeader, headerValue(msg, messaging.EventTypeHeader),
	}
}
