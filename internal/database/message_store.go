package database

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/zipnivasa/realtime/internal/domain"
)

// SurrealMessageStore persists the conversation log in the "message" table.
// Messages carry their own UUID in the id field so records stay addressable
// without leaking SurrealDB record IDs onto the wire.
type SurrealMessageStore struct {
	db *surrealdb.DB
}

// NewSurrealMessageStore creates a message store backed by SurrealDB.
func NewSurrealMessageStore(db *surrealdb.DB) *SurrealMessageStore {
	return &SurrealMessageStore{db: db}
}

var _ domain.MessageStore = (*SurrealMessageStore)(nil)

// Append validates and stores a new message. CreatedAt is assigned here and
// never changes afterwards.
func (s *SurrealMessageStore) Append(ctx context.Context, sender, receiver, body string) (domain.Message, error) {
	msg, err := domain.NewMessage(sender, receiver, body, time.Now())
	if err != nil {
		return domain.Message{}, err
	}

	query := `
		CREATE message CONTENT {
			id: $id,
			sender: $sender,
			receiver: $receiver,
			message: $message,
			createdAt: $created_at,
			readAt: NONE
		} RETURN AFTER
	`
	params := map[string]any{
		"id":         msg.ID,
		"sender":     msg.Sender,
		"receiver":   msg.Receiver,
		"message":    msg.Body,
		"created_at": msg.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := Execute(ctx, s.db, query, params); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// History merges both directions of the pair and sorts by createdAt
// ascending. SurrealDB's sort is stable, so ties keep storage order.
func (s *SurrealMessageStore) History(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	query := `
		SELECT * FROM message
		WHERE (sender = $a AND receiver = $b) OR (sender = $b AND receiver = $a)
		ORDER BY createdAt ASC
	`
	return Query[domain.Message](ctx, s.db, query, map[string]any{"a": userA, "b": userB})
}

// MessagesInvolving returns the user's whole message stream, newest first.
func (s *SurrealMessageStore) MessagesInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `
		SELECT * FROM message
		WHERE sender = $user OR receiver = $user
		ORDER BY createdAt DESC
	`
	return Query[domain.Message](ctx, s.db, query, map[string]any{"user": userID})
}

// MarkRead stamps every unread message from the counterpart. Running it again
// matches no rows, which is the idempotence the inbox relies on.
func (s *SurrealMessageStore) MarkRead(ctx context.Context, userID, counterpartID string) error {
	query := `
		UPDATE message SET readAt = time::now()
		WHERE sender = $counterpart AND receiver = $user AND readAt = NONE
	`
	return Execute(ctx, s.db, query, map[string]any{
		"user":        userID,
		"counterpart": counterpartID,
	})
}
