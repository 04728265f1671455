package ws

import "encoding/json"

// Envelope wraps every WS frame. Inbound frames that target a room
// ("joinRoom", "draw", "leaveRoom") carry the room identifier alongside
// the payload, not inside it.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "draw"
	Room  string          `json:"room,omitempty"` // inbound only
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON object
}

// ──────────────────────────── Request / Response DTOs ─────────────────────────

// DrawPoint is one fragment of a pen stroke, relayed as-is and never
// stored. Coordinates, color and width are producer-defined; the relay
// does not validate them.
type DrawPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"lineWidth"`
	Type      string  `json:"type"` // "start" | "draw" | "end"
}

// JoinRoomAck is the direct reply to "joinRoom".
type JoinRoomAck struct {
	Success     bool     `json:"success"`
	ActiveUsers []string `json:"activeUsers"`
}

// PresenceBody is broadcast as "userJoined" / "userLeft".
type PresenceBody struct {
	UserID      string   `json:"userId"`
	ActiveUsers []string `json:"activeUsers"`
}
