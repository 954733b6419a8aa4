package gateway

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 10 * time.Second

// client is a single authenticated websocket session. It satisfies the
// presence registry's connection contract: deliveries go through a buffered
// channel drained by the write pump, so a slow reader never blocks the hub.
type client struct {
	connID string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.RWMutex
	logger *slog.Logger
}

func newClient(connID, userID string, conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		connID: connID,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logger.With("conn_id", connID, "user_id", userID),
	}
}

// ID returns the connection's unique identifier.
func (c *client) ID() string {
	return c.connID
}

// Deliver queues a frame for the write pump. Frames are dropped when the
// buffer is full rather than stalling the caller.
func (c *client) Deliver(payload []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.send == nil {
		return
	}

	select {
	case c.send <- payload:
	default:
		c.logger.Warn("send buffer full, dropping frame")
	}
}

// Close shuts the session down. Safe to call more than once; the registry
// calls it when a replacement connection evicts this one.
func (c *client) Close(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	c.conn.Close(websocket.StatusNormalClosure, reason)
}

// writePump drains the send channel onto the wire.
func (c *client) writePump() {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			c.logger.Error("websocket write error", "error", err)
			return
		}
	}
}
