package relay

// Bus topics and metadata keys used by the relay hub.
const (
	// TopicDirect carries events addressed to a single user. The recipient
	// and event kind travel in message metadata; the payload is the event
	// data already encoded as JSON.
	TopicDirect = "ws.direct"

	// MetaRecipientID names the target user of a direct event.
	MetaRecipientID = "recipient_id"
	// MetaEvent names the outbound event kind ("message", "typing", ...).
	MetaEvent = "event"

	// TopicOnlineUsers carries the full set of online user IDs as a JSON
	// array. The hub broadcasts it on every effective presence change and
	// fans it out to every live connection. Clients always receive the
	// complete set, never a diff.
	TopicOnlineUsers = "presence.online-users"
)

// Outbound event kinds. These names are part of the client compatibility
// contract, so they line up with what the frontend subscribes to.
const (
	EventMessage     = "message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
	EventOnlineUsers = "online-users"
)

// Inbound event kinds sent by clients over the websocket.
const (
	EventSendMessage = "send-message"
)
