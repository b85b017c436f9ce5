package network

import (
	"encoding/json"

	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/internal/gamemap"
)

// Message types - Client → Server
const (
	MsgTypeJoin    = "join"
	MsgTypeLeave   = "leave"
	MsgTypePing    = "ping"
	MsgTypeGesture = "gesture"
)

// Message types - Server → Client
const (
	MsgTypeWelcome  = "welcome"
	MsgTypeSnapshot = "snapshot"
	MsgTypeError    = "error"
	MsgTypePong     = "pong"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// GesturePayload is one pointer event in world coordinates
type GesturePayload struct {
	Phase string  `json:"phase"` // "press", "hold", "release"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after joining
type WelcomePayload struct {
	PlayerID      string          `json:"player_id"`
	Username      string          `json:"username"`
	SessionID     string          `json:"session_id"`
	SessionStatus SessionStatus   `json:"session_status"`
	Tuning        TuningPayload   `json:"tuning"`
	Grid          []*gamemap.Cell `json:"grid"`
	Snapshot      SnapshotPayload `json:"snapshot"`
}

// TuningPayload tells the client the simulation constants in use
type TuningPayload struct {
	HexScale         float64 `json:"hex_scale"`
	ClickThreshold   float64 `json:"click_threshold"`
	HitRadius        float64 `json:"hit_radius"`
	ArrivalTolerance float64 `json:"arrival_tolerance"`
	UnitSpeed        float64 `json:"unit_speed"`
	TickRate         int     `json:"tick_rate"`
}

// SnapshotPayload is the colony state after a tick
type SnapshotPayload struct {
	Tick    int64                 `json:"tick"`
	Units   []colony.UnitSnapshot `json:"units"`
	Overlay gamemap.Overlay       `json:"overlay"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	ServerTick  int64  `json:"server_tick"`
	Uptime      int64  `json:"uptime"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToGesture validates the payload and converts it to a colony gesture
func (p GesturePayload) ToGesture() (colony.Gesture, bool) {
	phase := colony.Phase(p.Phase)
	if !phase.Valid() {
		return colony.Gesture{}, false
	}
	g := colony.Gesture{Phase: phase}
	g.Point.X = p.X
	g.Point.Y = p.Y
	return g, true
}

// NewSnapshotPayload bundles a colony snapshot with its overlay
func NewSnapshotPayload(snap colony.Snapshot, gm *gamemap.GameMap) SnapshotPayload {
	return SnapshotPayload{
		Tick:    snap.Tick,
		Units:   snap.Units,
		Overlay: gm.BuildOverlay(snap),
	}
}
