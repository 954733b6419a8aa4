package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single direct message between two users. The JSON field names
// match the wire payload consumed by the frontend, so the body travels as
// "message".
type Message struct {
	ID        string     `json:"id"`
	Sender    string     `json:"sender"`
	Receiver  string     `json:"receiver"`
	Body      string     `json:"message"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

// NewMessage builds a message ready for persistence. The body is trimmed of
// surrounding whitespace; an empty result is rejected with ErrEmptyMessage.
// ReadAt starts nil and is only ever set by MarkRead.
func NewMessage(sender, receiver, body string, now time.Time) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Receiver:  receiver,
		Body:      body,
		CreatedAt: now.UTC(),
	}, nil
}

// ConversationSummary is one inbox row: the latest message exchanged with a
// counterpart plus the unread count. Counterpart is nil when the user
// directory has no record for that ID.
type ConversationSummary struct {
	CounterpartID string         `json:"counterpartId"`
	LastMessage   Message        `json:"lastMessage"`
	UnreadCount   int            `json:"unreadCount"`
	Counterpart   *PublicProfile `json:"user,omitempty"`
}

// MessageStore is the durable conversation log. It lives in the domain
// because it's a requirement OF the domain, not of the database
// implementation.
type MessageStore interface {
	// Append persists a new message with a store-assigned timestamp.
	// It fails with ErrEmptyMessage when the body is blank after trimming.
	Append(ctx context.Context, sender, receiver, body string) (Message, error)

	// History returns every message exchanged between the two users, sorted
	// by CreatedAt ascending, insertion order preserved for equal timestamps.
	// An unknown pair yields an empty slice, not an error.
	History(ctx context.Context, userA, userB string) ([]Message, error)

	// MessagesInvolving returns every message the user sent or received,
	// sorted by CreatedAt descending. Conversation grouping happens above the
	// store so both implementations share it.
	MessagesInvolving(ctx context.Context, userID string) ([]Message, error)

	// MarkRead stamps ReadAt on every unread message from counterpart to
	// user. Calling it again once everything is read is a no-op.
	MarkRead(ctx context.Context, userID, counterpartID string) error
}
