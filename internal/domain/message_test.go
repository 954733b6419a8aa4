package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageTrimsBody(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))

	msg, err := NewMessage("alice", "bob", "  hello  ", now)
	require.NoError(t, err)

	assert.Equal(t, "hello", msg.Body)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, "bob", msg.Receiver)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, time.UTC, msg.CreatedAt.Location())
	assert.Nil(t, msg.ReadAt)
}

func TestNewMessageRejectsBlankBody(t *testing.T) {
	for _, body := range []string{"", "   ", "\t\n"} {
		_, err := NewMessage("alice", "bob", body, time.Now())
		assert.ErrorIs(t, err, ErrEmptyMessage, "body %q", body)
	}
}

func TestNewMessageAssignsUniqueIDs(t *testing.T) {
	a, err := NewMessage("alice", "bob", "one", time.Now())
	require.NoError(t, err)
	b, err := NewMessage("alice", "bob", "two", time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
