package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/zipnivasa/realtime/internal/chat"
	"github.com/zipnivasa/realtime/internal/domain"
	"github.com/zipnivasa/realtime/internal/middleware"
	"github.com/zipnivasa/realtime/internal/presence"
	"github.com/zipnivasa/realtime/internal/relay"
)

// Broadcaster is the slice of the relay hub the gateway needs: announcing
// the online set after a presence change.
type Broadcaster interface {
	BroadcastOnlineUsers(ctx context.Context, userIDs []string) error
}

// Gateway upgrades authenticated HTTP requests to websocket sessions and
// dispatches inbound frames to the chat service.
type Gateway struct {
	registry    *presence.Registry
	chat        *chat.Service
	broadcaster Broadcaster
	origins     []string
	logger      *slog.Logger
}

// New creates a Gateway. originPatterns whitelists browser origins allowed to
// connect; empty means same-origin only (non-browser clients send no Origin
// header and always pass).
func New(registry *presence.Registry, chatService *chat.Service, broadcaster Broadcaster, originPatterns []string) *Gateway {
	return &Gateway{
		registry:    registry,
		chat:        chatService,
		broadcaster: broadcaster,
		origins:     originPatterns,
		logger:      slog.Default().With("component", "gateway"),
	}
}

type sendMessageData struct {
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

type typingData struct {
	Receiver string `json:"receiver"`
}

// Handler handles websocket upgrade requests. The Auth middleware must run
// first; unauthenticated requests never reach the upgrade.
func (g *Gateway) Handler(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: g.origins,
	})
	if err != nil {
		g.logger.Error("failed to upgrade connection", "user_id", identity.UserID, "error", err)
		return err
	}

	cl := newClient(uuid.NewString(), identity.UserID, conn, g.logger)
	g.registry.Register(identity.UserID, cl)

	go cl.writePump()
	go g.readPump(cl)

	// The request context dies with the upgrade, so the announce uses its own.
	g.announceOnline(context.Background())
	return nil
}

// readPump reads frames off the wire until the connection drops, then
// unregisters the session so the presence set shrinks.
func (g *Gateway) readPump(cl *client) {
	defer func() {
		if g.registry.Unregister(cl) {
			g.announceOnline(context.Background())
		}
		cl.Close("client disconnected")
	}()

	for {
		_, data, err := cl.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				cl.logger.Info("websocket closed by client")
			} else if !errors.Is(err, io.EOF) {
				cl.logger.Error("websocket read error", "error", err)
			}
			return
		}
		g.dispatch(cl, data)
	}
}

// announceOnline pushes the current online set through the hub.
func (g *Gateway) announceOnline(ctx context.Context) {
	if err := g.broadcaster.BroadcastOnlineUsers(ctx, g.registry.OnlineUserIDs()); err != nil {
		g.logger.Error("failed to broadcast online set", "error", err)
	}
}

// dispatch routes one inbound frame. Malformed or unknown frames are logged
// and dropped; a misbehaving client cannot take the session down.
func (g *Gateway) dispatch(cl *client, data []byte) {
	var frame relay.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		cl.logger.Warn("dropping malformed frame", "error", err)
		return
	}

	ctx := context.Background()
	switch frame.Event {
	case relay.EventSendMessage:
		var payload sendMessageData
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			cl.logger.Warn("dropping malformed send-message frame", "error", err)
			return
		}
		if _, err := g.chat.Send(ctx, cl.userID, payload.Receiver, payload.Message); err != nil {
			if errors.Is(err, domain.ErrEmptyMessage) {
				cl.logger.Debug("ignoring empty message")
				return
			}
			cl.logger.Error("failed to handle send-message frame", "receiver", payload.Receiver, "error", err)
		}

	case relay.EventTyping, relay.EventStopTyping:
		var payload typingData
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			cl.logger.Warn("dropping malformed typing frame", "error", err)
			return
		}
		isTyping := frame.Event == relay.EventTyping
		if err := g.chat.Typing(ctx, cl.userID, payload.Receiver, isTyping); err != nil {
			cl.logger.Error("failed to forward typing indicator", "receiver", payload.Receiver, "error", err)
		}

	default:
		cl.logger.Warn("dropping frame with unknown event", "event", frame.Event)
	}
}
