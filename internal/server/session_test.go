package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/internal/config"
	"github.com/gravitas-games/antcolony/internal/network"
	"github.com/gravitas-games/antcolony/internal/persistence"
	"github.com/gravitas-games/antcolony/pkg/hex"
	"github.com/gravitas-games/antcolony/pkg/models"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []*network.ServerMessage
}

func (f *fakeSender) SendMessage(msg *network.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeSender) lastSnapshot(t *testing.T) network.SnapshotPayload {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.msgs) - 1; i >= 0; i-- {
		if f.msgs[i].Type == network.MsgTypeSnapshot {
			return f.msgs[i].Payload.(network.SnapshotPayload)
		}
	}
	t.Fatalf("no snapshot sent")
	return network.SnapshotPayload{}
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

type fakeStore struct {
	saved map[string][]colony.Unit
}

func (f *fakeStore) SaveColony(playerID string, w *colony.World) error {
	var units []colony.Unit
	for _, u := range w.Colony.Units() {
		units = append(units, *u)
	}
	f.saved[playerID] = units
	return nil
}

func (f *fakeStore) LoadColony(playerID string, w *colony.World) error {
	units, ok := f.saved[playerID]
	if !ok {
		return persistence.ErrNotFound
	}
	w.Colony.Restore(units)
	return nil
}

func testConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func testPlayer(id string) *models.Player {
	return &models.Player{ID: id, Username: "ant" + id, ColonyID: id, Activated: 1}
}

func TestSessionJoinSpawnsColony(t *testing.T) {
	s := NewSession(testConfig(t, ""), nil)
	out := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), out); err != nil {
		t.Fatalf("add player: %v", err)
	}

	welcome, err := s.Welcome("1")
	if err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.SessionID != s.ID || welcome.SessionStatus.PlayerCount != 1 {
		t.Fatalf("unexpected welcome %+v", welcome.SessionStatus)
	}
	if len(welcome.Snapshot.Units) != 4 {
		t.Fatalf("expected queen and 3 workers, got %d units", len(welcome.Snapshot.Units))
	}
	if len(welcome.Grid) != hex.SpiralSize(10) {
		t.Fatalf("expected %d grid cells, got %d", hex.SpiralSize(10), len(welcome.Grid))
	}
	if welcome.Tuning.TickRate != 20 || welcome.Tuning.HexScale != 20 {
		t.Fatalf("unexpected tuning %+v", welcome.Tuning)
	}
	if _, err := s.Welcome("2"); !errors.Is(err, ErrNotInSession) {
		t.Fatalf("expected ErrNotInSession, got %v", err)
	}
}

func TestSessionGesturesAppliedOnStep(t *testing.T) {
	s := NewSession(testConfig(t, ""), nil)
	out := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), out); err != nil {
		t.Fatalf("add player: %v", err)
	}
	welcome, _ := s.Welcome("1")
	worker := welcome.Snapshot.Units[1]

	// Click the worker, then click open ground to move it.
	target := hex.Point{X: 150, Y: -90}
	for _, g := range []colony.Gesture{
		{Phase: colony.PhasePress, Point: worker.Position},
		{Phase: colony.PhaseRelease, Point: worker.Position},
		{Phase: colony.PhasePress, Point: target},
		{Phase: colony.PhaseRelease, Point: target},
	} {
		if err := s.QueueGesture("1", g); err != nil {
			t.Fatalf("queue gesture: %v", err)
		}
	}

	s.Step(0.05)
	snap := out.lastSnapshot(t)
	got := snap.Units[1]
	if !got.Selected || got.State != "seeking" {
		t.Fatalf("expected selected seeking worker, got %+v", got)
	}
	if len(snap.Overlay.Paths) != 1 {
		t.Fatalf("expected path overlay for the selected worker")
	}
	if s.GetStatus().ServerTick != 1 {
		t.Fatalf("expected server tick 1, got %d", s.GetStatus().ServerTick)
	}

	// Gestures are consumed once.
	s.Step(0.05)
	if snap := out.lastSnapshot(t); snap.Tick != 2 || !snap.Units[1].Selected {
		t.Fatalf("unexpected second snapshot tick=%d", snap.Tick)
	}

	if err := s.QueueGesture("9", colony.Gesture{Phase: colony.PhasePress}); !errors.Is(err, ErrNotInSession) {
		t.Fatalf("expected ErrNotInSession, got %v", err)
	}
}

func TestSessionFull(t *testing.T) {
	s := NewSession(testConfig(t, "session:\n  max_players: 1\n"), nil)
	first := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), first); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := s.AddPlayer(testPlayer("2"), &fakeSender{}); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}
	s.RemovePlayer("1", first)
	if err := s.AddPlayer(testPlayer("2"), &fakeSender{}); err != nil {
		t.Fatalf("add after leave: %v", err)
	}
}

func TestSessionRestoresColony(t *testing.T) {
	store := &fakeStore{saved: make(map[string][]colony.Unit)}
	s := NewSession(testConfig(t, ""), store)
	p := testPlayer("7")
	conn := &fakeSender{}
	if err := s.AddPlayer(p, conn); err != nil {
		t.Fatalf("add player: %v", err)
	}
	welcome, _ := s.Welcome("7")
	queen := welcome.Snapshot.Units[0]
	_ = s.QueueGesture("7", colony.Gesture{Phase: colony.PhasePress, Point: queen.Position})
	_ = s.QueueGesture("7", colony.Gesture{Phase: colony.PhaseRelease, Point: queen.Position})
	s.Step(0.05)

	s.RemovePlayer("7", conn)
	if _, ok := store.saved["7"]; !ok {
		t.Fatalf("expected colony saved on leave")
	}
	if s.GetStatus().State != "waiting" {
		t.Fatalf("expected waiting session after last player left")
	}

	out := &fakeSender{}
	if err := s.AddPlayer(p, out); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	welcome, _ = s.Welcome("7")
	if !welcome.Snapshot.Units[0].Selected {
		t.Fatalf("expected restored queen selection")
	}
}

func TestSessionRejoinKeepsColony(t *testing.T) {
	store := &fakeStore{saved: make(map[string][]colony.Unit)}
	s := NewSession(testConfig(t, "session:\n  max_players: 1\n"), store)
	old := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), old); err != nil {
		t.Fatalf("add player: %v", err)
	}
	welcome, _ := s.Welcome("1")
	worker := welcome.Snapshot.Units[1].Position
	_ = s.QueueGesture("1", colony.Gesture{Phase: colony.PhasePress, Point: worker})
	_ = s.QueueGesture("1", colony.Gesture{Phase: colony.PhaseRelease, Point: worker})
	s.Step(0.05)

	// Reconnect before the old socket has timed out; a full session must not refuse it.
	current := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), current); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	welcome, _ = s.Welcome("1")
	if !welcome.Snapshot.Units[1].Selected {
		t.Fatalf("rejoin lost the live selection")
	}

	// The stale connection closing must not take the colony with it.
	s.RemovePlayer("1", old)
	if _, ok := s.GetPlayer("1"); !ok {
		t.Fatalf("player removed by the replaced connection")
	}
	if _, saved := store.saved["1"]; saved {
		t.Fatalf("replaced connection should not save the colony")
	}
	if err := s.QueueGesture("1", colony.Gesture{Phase: colony.PhasePress, Point: worker}); err != nil {
		t.Fatalf("gesture after stale leave: %v", err)
	}

	before := old.count()
	s.Step(0.05)
	if snap := current.lastSnapshot(t); !snap.Units[1].Selected {
		t.Fatalf("expected snapshot to the new connection with the selection kept")
	}
	if old.count() != before {
		t.Fatalf("replaced connection still receives snapshots")
	}

	s.RemovePlayer("1", current)
	if _, ok := s.GetPlayer("1"); ok {
		t.Fatalf("expected player gone after the live connection left")
	}
	if _, saved := store.saved["1"]; !saved {
		t.Fatalf("expected colony saved on leave")
	}
}

func TestSessionRun(t *testing.T) {
	s := NewSession(testConfig(t, "server:\n  tick_rate: 100\n"), nil)
	out := &fakeSender{}
	if err := s.AddPlayer(testPlayer("1"), out); err != nil {
		t.Fatalf("add player: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for out.count() < 3 {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("expected snapshots from the tick loop, got %d", out.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
