package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zipnivasa/realtime/internal/domain"
)

// MemoryMessageStore is an in-memory MessageStore with the same ordering and
// read-marking semantics as the SurrealDB store. It backs the test suite and
// is handy for running the server without a database.
type MemoryMessageStore struct {
	mu       sync.RWMutex
	messages []domain.Message

	// now is swappable in tests to pin timestamps.
	now func() time.Time
}

// NewMemoryMessageStore creates an empty in-memory store.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{now: time.Now}
}

var _ domain.MessageStore = (*MemoryMessageStore)(nil)

func (s *MemoryMessageStore) Append(ctx context.Context, sender, receiver, body string) (domain.Message, error) {
	msg, err := domain.NewMessage(sender, receiver, body, s.now())
	if err != nil {
		return domain.Message{}, err
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg, nil
}

func (s *MemoryMessageStore) History(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	s.mu.RLock()
	var out []domain.Message
	for _, m := range s.messages {
		if (m.Sender == userA && m.Receiver == userB) || (m.Sender == userB && m.Receiver == userA) {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	// Stable keeps insertion order for equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryMessageStore) MessagesInvolving(ctx context.Context, userID string) ([]domain.Message, error) {
	s.mu.RLock()
	var out []domain.Message
	for _, m := range s.messages {
		if m.Sender == userID || m.Receiver == userID {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryMessageStore) MarkRead(ctx context.Context, userID, counterpartID string) error {
	stamp := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		m := &s.messages[i]
		if m.Sender == counterpartID && m.Receiver == userID && m.ReadAt == nil {
			t := stamp
			m.ReadAt = &t
		}
	}
	return nil
}
