package messaging

import (
	"context"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// Topics the storefront publishes to.
const (
	TopicCartUpdated      = "cart.updated"
	TopicFavoritesToggled = "favorites.toggled"
	TopicOrderCommands    = "orders.commands"
)

// EventTypeHeader names the header or metadata entry carrying the event type.
const EventTypeHeader = "event_type"

// EventType returns the type name of event, or "" if it does not declare one.
func EventType(event any) string {
	if e, ok := event.(entity.Event); ok {
		return e.EventType()
	}
	return ""
}

// Publisher defines an interface for publishing events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// Subscriber defines an interface for subscribing to a message topic.
// Consume blocks until ctx is cancelled.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}
