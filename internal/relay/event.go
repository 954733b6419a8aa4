package relay

import "encoding/json"

// Frame is the envelope for every frame that crosses the websocket, in both
// directions: {"event": "...", "data": ...}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EncodeFrame wraps an already-encoded data payload in the envelope.
func EncodeFrame(event string, data []byte) ([]byte, error) {
	return json.Marshal(Frame{Event: event, Data: data})
}
