package kafka

import (
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

func TestHeaderValue(t *testing.T) {
	msg := kafkaGo.Message{Headers: []kafkaGo.Header{
		{Key: "trace_id", Value: []byte("abc")},
		{Key: messaging.EventTypeHeader, Value: []byte("PlaceOrder")},
		{Key: messaging.EventTypeHeader, Value: []byte("ignored")},
	}}

	assert.Equal(t, "PlaceOrder", headerValue(msg, messaging.EventTypeHeader))
	assert.Equal(t, "abc", headerValue(msg, "trace_id"))
	assert.Empty(t, headerValue(msg, "missing"))
	assert.Empty(t, headerValue(kafkaGo.Message{}, messaging.EventTypeHeader))
}

func TestMessageAttrs(t *testing.T) {
	msg := kafkaGo.Message{
		Topic:     messaging.TopicOrderCommands,
		Partition: 2,
		Offset:    41,
		Key:       []byte("order-1"),
		Headers:   []kafkaGo.Header{{Key: messaging.EventTypeHeader, Value: []byte("PlaceOrder")}},
	}

	assert.Equal(t, []any{
		"topic", messaging.TopicOrderCommands,
		"partition", 2,
		"offset", int64(41),
		"key", "order-1",
		"event_type", "PlaceOrder",
	}, messageAttrs(msg))
}
