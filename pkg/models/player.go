package models

import "time"

// Player is an authenticated account connected to the colony server
type Player struct {
	// From JWT claims
	ID          string `json:"id"`          // Converted from int64 user_id
	Username    string `json:"username"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	Permissions int64  `json:"permissions"` // bitwise permission flags
	Activated   int64  `json:"activated"`   // activation timestamp, 0 inactive, -1 banned
	AuthMethod  string `json:"auth_method"` // "password" or "oauth"

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
	SessionID   string    `json:"session_id"`

	// ColonyID keys the player's saved colony
	ColonyID string `json:"colony_id"`
}

// IsActive checks if the player account is activated and not banned
func (p *Player) IsActive() bool {
	return p.Activated > 0
}

// IsBanned checks if the player is banned
func (p *Player) IsBanned() bool {
	return p.Activated == -1
}

// Attach marks the player as playing in a session
func (p *Player) Attach(sessionID string, now time.Time) {
	p.Connected = true
	p.ConnectedAt = now
	p.LastSeen = now
	p.SessionID = sessionID
}

// Detach marks the player as gone
func (p *Player) Detach(now time.Time) {
	p.Connected = false
	p.LastSeen = now
	p.SessionID = ""
}
