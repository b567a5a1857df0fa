package entity

// Event represents a domain event published to the message broker.
type Event interface {
	EventType() string
}
