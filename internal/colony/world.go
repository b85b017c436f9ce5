package colony

import "github.com/gravitas-games/antcolony/pkg/hex"

// World is one colony together with its grid layout and gesture state.
// It is not safe for concurrent use; callers serialize access per tick.
type World struct {
	Layout    hex.Layout
	Tuning    Tuning
	Colony    *Colony
	Selection SelectionState

	tick int64
}

// NewWorld returns an empty world using t.
func NewWorld(t Tuning) *World {
	return &World{
		Layout: hex.NewLayout(t.HexScale),
		Tuning: t,
		Colony: NewColony(),
	}
}

// Spawn places the queen on the origin hex and the workers on the hexes
// spiralling out from it.
func (w *World) Spawn() {
	w.Colony.Spawn(KindQueen, w.Layout.HexToWorld(hex.Zero))

	rings := 1
	for hex.SpiralSize(rings)-1 < w.Tuning.WorkerCount {
		rings++
	}
	spots := hex.SpiralRange(hex.Zero, rings)[1:]
	for i := 0; i < w.Tuning.WorkerCount; i++ {
		w.Colony.Spawn(KindWorker, w.Layout.HexToWorld(spots[i]))
	}
}

// Tick runs one simulation step: gestures first, then movement.
func (w *World) Tick(dt float64, gestures []Gesture) []Intent {
	var intents []Intent
	for _, g := range gestures {
		if in := w.HandleGesture(g); in.Kind != IntentNone {
			intents = append(intents, in)
		}
	}
	if dt < 0 {
		dt = 0
	}
	w.Advance(dt)
	w.tick++
	return intents
}

// TickCount returns the number of completed ticks.
func (w *World) TickCount() int64 { return w.tick }

// UnitSnapshot is the read-only view of a unit handed to renderers.
type UnitSnapshot struct {
	Handle      Handle      `json:"handle"`
	Kind        string      `json:"kind"`
	Position    hex.Point   `json:"position"`
	Orientation float64     `json:"orientation"`
	Selected    bool        `json:"selected"`
	State       string      `json:"state"`
	Target      *hex.Point  `json:"target,omitempty"`
	Waypoints   []hex.Point `json:"waypoints"`
}

// Snapshot is the per-tick output of a world.
type Snapshot struct {
	Tick  int64          `json:"tick"`
	Units []UnitSnapshot `json:"units"`
	Drag  *Rect          `json:"drag,omitempty"`
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:  w.tick,
		Units: make([]UnitSnapshot, 0, w.Colony.Len()),
	}
	for _, u := range w.Colony.Units() {
		us := UnitSnapshot{
			Handle:      u.Handle,
			Kind:        u.Kind.String(),
			Position:    u.Position,
			Orientation: u.Orientation,
			Selected:    u.Selected,
			State:       u.State().String(),
			Waypoints:   append([]hex.Point{}, u.Waypoints...),
		}
		if u.Target != nil {
			t := *u.Target
			us.Target = &t
		}
		snap.Units = append(snap.Units, us)
	}
	if r, ok := w.Selection.Rect(); ok {
		snap.Drag = &r
	}
	return snap
}
