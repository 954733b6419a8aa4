package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus implements Publisher and Subscriber on top of watermill's in-process
// GoChannel transport. All presence and relay traffic for a single server
// process flows through one Bus instance.
type Bus struct {
	pub message.Publisher
	sub message.Subscriber
}

// NewBus initializes the in-memory pub/sub bus.
func NewBus() *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	return &Bus{pub: ch, sub: ch}
}

// Publish implements the Publisher interface.
func (b *Bus) Publish(ctx context.Context, msg Message) error {
	wm := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wm.Metadata.Set(k, v)
	}
	return b.pub.Publish(msg.Topic, wm)
}

// Subscribe implements the Subscriber interface. The handler runs on a
// background goroutine; a handler error is logged and the message nacked.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wm := range messages {
			meta := make(map[string]string, len(wm.Metadata))
			for k, v := range wm.Metadata {
				meta[k] = v
			}
			msg := Message{Topic: topic, Payload: wm.Payload, Metadata: meta}

			if err := handler(ctx, msg); err != nil {
				slog.Error("pubsub handler failed", "topic", topic, "msg_id", wm.UUID, "error", err)
				wm.Nack()
				continue
			}
			wm.Ack()
		}
		slog.Debug("subscription loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts down the bus and terminates all subscription loops.
func (b *Bus) Close() error {
	return b.sub.Close()
}
