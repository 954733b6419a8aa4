package presence

import (
	"log/slog"
	"sort"
	"sync"
)

// Conn is an opaque handle to a live transport-level session. The gateway's
// websocket client satisfies it; the registry never looks inside.
type Conn interface {
	// ID uniquely identifies this connection, not the user behind it.
	ID() string
	// Deliver pushes an already-encoded frame to the connection. It must not
	// block; slow consumers are the connection's own problem.
	Deliver(payload []byte)
	// Close tears the connection down with a reason sent to the peer.
	Close(reason string)
}

// Registry is the in-memory map of who is online and over which connection.
// It holds at most one live connection per user: registering a user who is
// already connected evicts the previous connection first. Both directions of
// the mapping are updated under a single lock so every reader sees them
// change together. The registry only tracks state; announcing changes to
// connected clients is the relay hub's job, driven by the gateway.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]Conn   // userID -> connection
	byConn map[string]string // connection ID -> userID

	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]Conn),
		byConn: make(map[string]string),
		logger: slog.Default().With("service", "presence"),
	}
}

// Register binds a user to a connection. A previous connection for the same
// user is closed after the swap, outside the lock, so its teardown cannot
// re-enter the registry mid-update. Registering the connection that is
// already live for the user is a no-op.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	prev := r.byUser[userID]
	if prev != nil && prev.ID() == conn.ID() {
		r.mu.Unlock()
		return
	}
	if prev != nil {
		delete(r.byConn, prev.ID())
	}
	r.byUser[userID] = conn
	r.byConn[conn.ID()] = userID
	r.mu.Unlock()

	if prev != nil {
		r.logger.Info("replacing live connection", "user_id", userID, "old_conn", prev.ID(), "new_conn", conn.ID())
		prev.Close("session replaced")
	} else {
		r.logger.Info("user online", "user_id", userID, "conn", conn.ID())
	}
}

// Unregister removes the entry keyed by this connection and reports whether
// anything was actually removed. Calling it for a connection that was already
// removed (duplicate disconnect, or an evicted session closing late) is a
// no-op returning false.
func (r *Registry) Unregister(conn Conn) bool {
	r.mu.Lock()
	userID, ok := r.byConn[conn.ID()]
	if ok {
		delete(r.byConn, conn.ID())
		// Only drop the user if this connection is still the live one; an
		// evicted connection must not knock out its replacement.
		if cur := r.byUser[userID]; cur != nil && cur.ID() == conn.ID() {
			delete(r.byUser, userID)
		} else {
			ok = false
		}
	}
	r.mu.Unlock()

	if ok {
		r.logger.Info("user offline", "user_id", userID, "conn", conn.ID())
	}
	return ok
}

// Lookup returns the live connection for a user, if any.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// IsOnline reports whether the user has a live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byUser[userID]
	return ok
}

// OnlineUserIDs returns the IDs of all currently connected users, sorted.
func (r *Registry) OnlineUserIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Connections returns every live connection, for full fan-out.
func (r *Registry) Connections() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns := make([]Conn, 0, len(r.byUser))
	for _, c := range r.byUser {
		conns = append(conns, c)
	}
	return conns
}
