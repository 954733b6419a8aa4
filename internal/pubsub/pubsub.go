package pubsub

import "context"

// Message is the structure passed between components on the bus. It is
// intentionally simple: a topic, a payload and free-form metadata.
type Message struct {
	// Topic identifies the channel the message belongs to
	// (e.g. "presence.online-users").
	Topic string
	// Payload contains the raw message data, usually JSON.
	Payload []byte
	// Metadata carries routing context such as the recipient user ID.
	Metadata map[string]string
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages from the bus. Subscribe registers the handler
// and returns immediately; delivery happens on a background goroutine.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
