package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zipnivasa/realtime/internal/domain"
)

// Relay is the slice of the hub the chat service needs.
type Relay interface {
	DeliverMessage(ctx context.Context, targetUserID string, msg domain.Message) error
	DeliverTyping(ctx context.Context, targetUserID, fromUserID string, isTyping bool) error
}

// Service implements the chat operations shared by the REST surface and the
// websocket gateway: sending persists first, then relays to whichever of the
// two parties is online. The sender gets the echo too, so their own open
// session renders the stored record rather than an optimistic copy.
type Service struct {
	store     domain.MessageStore
	directory domain.UserDirectory
	hub       Relay
	logger    *slog.Logger
}

// NewService wires the chat service.
func NewService(store domain.MessageStore, directory domain.UserDirectory, hub Relay) *Service {
	return &Service{
		store:     store,
		directory: directory,
		hub:       hub,
		logger:    slog.Default().With("service", "chat"),
	}
}

// Send appends the message and delivers it to both participants' live
// connections. Persistence failures propagate; delivery failures don't,
// because at that point the message is durable and relaying is best effort.
func (s *Service) Send(ctx context.Context, senderID, receiverID, body string) (domain.Message, error) {
	msg, err := s.store.Append(ctx, senderID, receiverID, body)
	if err != nil {
		return domain.Message{}, err
	}

	if err := s.hub.DeliverMessage(ctx, receiverID, msg); err != nil {
		s.logger.Error("failed to relay message to receiver", "message_id", msg.ID, "error", err)
	}
	if err := s.hub.DeliverMessage(ctx, senderID, msg); err != nil {
		s.logger.Error("failed to relay message echo to sender", "message_id", msg.ID, "error", err)
	}
	return msg, nil
}

// History returns the full conversation between the caller and the other
// user, oldest first.
func (s *Service) History(ctx context.Context, userID, otherID string) ([]domain.Message, error) {
	return s.store.History(ctx, userID, otherID)
}

// Conversations builds the caller's inbox: one summary per counterpart,
// ordered by most recent activity, decorated with the counterpart's public
// profile when the directory knows them.
func (s *Service) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	msgs, err := s.store.MessagesInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	// msgs is newest-first, so the first message seen per counterpart is the
	// latest one and fixes the ordering of the summaries.
	index := make(map[string]int)
	summaries := make([]domain.ConversationSummary, 0)
	for _, m := range msgs {
		other := m.Sender
		if m.Sender == userID {
			other = m.Receiver
		}

		i, seen := index[other]
		if !seen {
			index[other] = len(summaries)
			i = len(summaries)
			summaries = append(summaries, domain.ConversationSummary{
				CounterpartID: other,
				LastMessage:   m,
			})
		}
		if m.Sender == other && m.ReadAt == nil {
			summaries[i].UnreadCount++
		}
	}

	for i := range summaries {
		profile, err := s.directory.LookupPublic(ctx, summaries[i].CounterpartID)
		if err != nil {
			return nil, fmt.Errorf("decorating conversation with %s: %w", summaries[i].CounterpartID, err)
		}
		summaries[i].Counterpart = profile
	}
	return summaries, nil
}

// MarkRead stamps every unread message from the counterpart to the caller.
func (s *Service) MarkRead(ctx context.Context, userID, counterpartID string) error {
	return s.store.MarkRead(ctx, userID, counterpartID)
}

// Typing forwards a typing indicator; nothing is persisted.
func (s *Service) Typing(ctx context.Context, fromUserID, toUserID string, isTyping bool) error {
	return s.hub.DeliverTyping(ctx, toUserID, fromUserID, isTyping)
}
