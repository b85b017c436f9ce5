package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/internal/config"
	"github.com/gravitas-games/antcolony/internal/gamemap"
	"github.com/gravitas-games/antcolony/internal/network"
	"github.com/gravitas-games/antcolony/internal/persistence"
	"github.com/gravitas-games/antcolony/pkg/hex"
	"github.com/gravitas-games/antcolony/pkg/models"
)

var (
	// ErrSessionFull is returned when the session has no free player slots.
	ErrSessionFull = errors.New("session is full")
	// ErrNotInSession is returned for players that have not joined.
	ErrNotInSession = errors.New("player not in session")
)

// Sender receives server messages for one player
type Sender interface {
	SendMessage(msg *network.ServerMessage)
}

// ColonyStore saves and restores player colonies
type ColonyStore interface {
	SaveColony(playerID string, w *colony.World) error
	LoadColony(playerID string, w *colony.World) error
}

// Session represents a game session
type Session struct {
	ID        string
	CreatedAt time.Time

	// Player management
	players  map[string]*models.Player // playerID -> Player
	colonies map[string]*playerColony  // playerID -> colony
	mu       sync.RWMutex

	gameMap *gamemap.GameMap
	status  SessionStatus
	store   ColonyStore

	// Configuration
	config *config.Config
}

// playerColony is one player's world plus the gestures waiting for the next tick
type playerColony struct {
	world   *colony.World
	out     Sender
	pending []colony.Gesture
}

// SessionStatus represents the current state of the session
type SessionStatus struct {
	State       string `json:"state"` // "waiting", "running"
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	ServerTick  int64  `json:"server_tick"`
	Uptime      int64  `json:"uptime"` // seconds
}

// NewSession creates a new game session. store may be nil.
func NewSession(cfg *config.Config, store ColonyStore) *Session {
	id := uuid.NewString()
	log.Printf("Creating session: %s", id)

	tuning := cfg.Simulation.Tuning()
	session := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		players:   make(map[string]*models.Player),
		colonies:  make(map[string]*playerColony),
		gameMap:   gamemap.New(hex.NewLayout(tuning.HexScale), cfg.Simulation.GridRadius),
		store:     store,
		config:    cfg,
		status: SessionStatus{
			State:      "waiting",
			MaxPlayers: cfg.Session.MaxPlayers,
		},
	}

	log.Printf("Session %s created (hex scale %.1f, grid radius %d)", id, tuning.HexScale, cfg.Simulation.GridRadius)
	return session
}

// AddPlayer adds a player to the session, restoring their colony from the
// store or spawning a fresh one
func (s *Session) AddPlayer(player *models.Player, out Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A rejoin while the old socket lingers takes over the live colony
	if pc, exists := s.colonies[player.ID]; exists {
		s.players[player.ID] = player
		pc.out = out
		log.Printf("Player %s (%s) reattached to session %s", player.Username, player.ID, s.ID)
		return nil
	}
	if len(s.players) >= s.status.MaxPlayers {
		return ErrSessionFull
	}

	world := colony.NewWorld(s.config.Simulation.Tuning())
	if s.store == nil {
		world.Spawn()
	} else if err := s.store.LoadColony(player.ColonyID, world); err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			log.Printf("Failed to load colony %s, spawning a new one: %v", player.ColonyID, err)
		}
		world = colony.NewWorld(s.config.Simulation.Tuning())
		world.Spawn()
	}

	s.players[player.ID] = player
	s.colonies[player.ID] = &playerColony{world: world, out: out}
	s.status.PlayerCount = len(s.players)
	s.status.State = "running"

	log.Printf("Player %s (%s) joined session %s with %d units", player.Username, player.ID, s.ID, world.Colony.Len())
	return nil
}

// RemovePlayer removes a player from the session and saves their colony.
// Only the sender currently attached to the colony can remove it.
func (s *Session) RemovePlayer(playerID string, out Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, exists := s.players[playerID]
	if !exists {
		return
	}
	pc := s.colonies[playerID]
	if pc.out != out {
		log.Printf("Ignoring leave of %s from a replaced connection", playerID)
		return
	}
	s.saveColony(player, pc.world)

	log.Printf("Player %s (%s) left session %s", player.Username, playerID, s.ID)
	delete(s.players, playerID)
	delete(s.colonies, playerID)
	s.status.PlayerCount = len(s.players)
	if len(s.players) == 0 {
		s.status.State = "waiting"
	}
}

func (s *Session) saveColony(player *models.Player, world *colony.World) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveColony(player.ColonyID, world); err != nil {
		log.Printf("Failed to save colony %s: %v", player.ColonyID, err)
	}
}

// SaveAll saves every joined player's colony
func (s *Session) SaveAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, pc := range s.colonies {
		s.saveColony(s.players[id], pc.world)
	}
}

// GetPlayer retrieves a player by ID
func (s *Session) GetPlayer(playerID string) (*models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, exists := s.players[playerID]
	return player, exists
}

// QueueGesture stores a gesture to be applied at the start of the next tick
func (s *Session) QueueGesture(playerID string, g colony.Gesture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc, ok := s.colonies[playerID]
	if !ok {
		return ErrNotInSession
	}
	pc.pending = append(pc.pending, g)
	return nil
}

// Welcome builds the welcome payload for a joined player
func (s *Session) Welcome(playerID string) (network.WelcomePayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pc, ok := s.colonies[playerID]
	if !ok {
		return network.WelcomePayload{}, fmt.Errorf("welcome %s: %w", playerID, ErrNotInSession)
	}
	player := s.players[playerID]
	t := pc.world.Tuning

	return network.WelcomePayload{
		PlayerID:      player.ID,
		Username:      player.Username,
		SessionID:     s.ID,
		SessionStatus: s.networkStatus(),
		Tuning: network.TuningPayload{
			HexScale:         t.HexScale,
			ClickThreshold:   t.ClickThreshold,
			HitRadius:        t.HitRadius,
			ArrivalTolerance: t.ArrivalTolerance,
			UnitSpeed:        t.UnitSpeed,
			TickRate:         s.config.Server.TickRate,
		},
		Grid:     s.gameMap.Cells(),
		Snapshot: network.NewSnapshotPayload(pc.world.Snapshot(), s.gameMap),
	}, nil
}

// Step advances every colony by dt seconds and sends each player a snapshot.
// Queued gestures are applied before movement.
func (s *Session) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, pc := range s.colonies {
		gestures := pc.pending
		pc.pending = nil

		for _, in := range pc.world.Tick(dt, gestures) {
			if in.Kind == colony.IntentMove {
				log.Printf("Player %s ordered %d units to (%.1f, %.1f)", id, len(in.Units), in.Target.X, in.Target.Y)
			}
		}

		if pc.out != nil {
			pc.out.SendMessage(&network.ServerMessage{
				Type:    network.MsgTypeSnapshot,
				Payload: network.NewSnapshotPayload(pc.world.Snapshot(), s.gameMap),
			})
		}
	}
	s.status.ServerTick++
}

// Run drives Step at the configured tick rate until ctx is cancelled
func (s *Session) Run(ctx context.Context) {
	interval := time.Second / time.Duration(s.config.Server.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Session %s ticking every %v", s.ID, interval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("Session %s stopped at tick %d", s.ID, s.GetStatus().ServerTick)
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > s.config.Server.MaxDelta {
				dt = s.config.Server.MaxDelta
			}
			s.Step(dt)
		}
	}
}

// GetStatus returns the current session status
func (s *Session) GetStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	status.Uptime = int64(time.Since(s.CreatedAt).Seconds())
	return status
}

func (s *Session) networkStatus() network.SessionStatus {
	return network.SessionStatus{
		State:       s.status.State,
		PlayerCount: s.status.PlayerCount,
		MaxPlayers:  s.status.MaxPlayers,
		ServerTick:  s.status.ServerTick,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
	}
}
