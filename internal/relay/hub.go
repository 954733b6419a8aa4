package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/zipnivasa/realtime/internal/domain"
	"github.com/zipnivasa/realtime/internal/presence"
	"github.com/zipnivasa/realtime/internal/pubsub"
)

// Hub routes outbound events to live connections. Producers publish to the
// bus through the Deliver*/Broadcast methods; the hub's subscriber loop is
// the only component that touches connections, looking them up in the
// presence registry at delivery time. An offline target is dropped silently:
// there is no offline queue and no retry, delivery is at most once.
type Hub struct {
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	registry   *presence.Registry
	logger     *slog.Logger
}

// NewHub wires the hub to the bus and the presence registry.
func NewHub(publisher pubsub.Publisher, subscriber pubsub.Subscriber, registry *presence.Registry) *Hub {
	return &Hub{
		publisher:  publisher,
		subscriber: subscriber,
		registry:   registry,
		logger:     slog.Default().With("service", "relay"),
	}
}

// Start attaches the hub to the bus. It returns once the subscriptions are
// active; delivery happens on the bus's goroutines until ctx is canceled.
func (h *Hub) Start(ctx context.Context) error {
	if err := h.subscriber.Subscribe(ctx, TopicDirect, h.handleDirect); err != nil {
		return err
	}
	return h.subscriber.Subscribe(ctx, TopicOnlineUsers, h.handleOnlineUsers)
}

// DeliverMessage pushes a stored message to the target user's connection.
func (h *Hub) DeliverMessage(ctx context.Context, targetUserID string, msg domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.publishDirect(ctx, targetUserID, EventMessage, payload)
}

// DeliverTyping pushes a typing indicator to the target user's connection.
// The payload is just the sender's ID, mirroring the typing event the
// frontend already understands.
func (h *Hub) DeliverTyping(ctx context.Context, targetUserID, fromUserID string, isTyping bool) error {
	event := EventTyping
	if !isTyping {
		event = EventStopTyping
	}
	payload, err := json.Marshal(fromUserID)
	if err != nil {
		return err
	}
	return h.publishDirect(ctx, targetUserID, event, payload)
}

// BroadcastOnlineUsers fans the full online set out to every connected
// client. The gateway calls it after every effective registry change.
func (h *Hub) BroadcastOnlineUsers(ctx context.Context, userIDs []string) error {
	payload, err := json.Marshal(userIDs)
	if err != nil {
		return err
	}
	return h.publisher.Publish(ctx, pubsub.Message{
		Topic:   TopicOnlineUsers,
		Payload: payload,
	})
}

func (h *Hub) publishDirect(ctx context.Context, recipient, event string, payload []byte) error {
	return h.publisher.Publish(ctx, pubsub.Message{
		Topic:   TopicDirect,
		Payload: payload,
		Metadata: map[string]string{
			MetaRecipientID: recipient,
			MetaEvent:       event,
		},
	})
}

func (h *Hub) handleDirect(ctx context.Context, msg pubsub.Message) error {
	recipient := msg.Metadata[MetaRecipientID]
	event := msg.Metadata[MetaEvent]
	if recipient == "" || event == "" {
		h.logger.Warn("direct event without routing metadata, dropping")
		return nil
	}

	conn, ok := h.registry.Lookup(recipient)
	if !ok {
		h.logger.Debug("recipient offline, dropping event", "user_id", recipient, "event", event)
		return nil
	}

	frame, err := EncodeFrame(event, msg.Payload)
	if err != nil {
		return err
	}
	conn.Deliver(frame)
	return nil
}

func (h *Hub) handleOnlineUsers(ctx context.Context, msg pubsub.Message) error {
	frame, err := EncodeFrame(EventOnlineUsers, msg.Payload)
	if err != nil {
		return err
	}
	for _, conn := range h.registry.Connections() {
		conn.Deliver(frame)
	}
	return nil
}
