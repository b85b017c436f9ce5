// Package colony holds the per-player ant colony simulation: the unit arena,
// selection handling, move orders and the per-tick movement update.
package colony

import (
	"errors"

	"github.com/gravitas-games/antcolony/pkg/hex"
)

// ErrUnknownUnit is returned when a handle does not name a unit in the arena.
var ErrUnknownUnit = errors.New("unknown unit")

// Handle is a stable index into a Colony's unit arena.
type Handle int

// Kind distinguishes the queen from ordinary workers.
type Kind int

const (
	KindWorker Kind = iota
	KindQueen
)

func (k Kind) String() string {
	switch k {
	case KindQueen:
		return "queen"
	case KindWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// State is the movement state of a unit.
type State int

const (
	StateIdle State = iota
	StateSeeking
)

func (s State) String() string {
	if s == StateSeeking {
		return "seeking"
	}
	return "idle"
}

// Unit is a single ant.
type Unit struct {
	Handle      Handle
	Kind        Kind
	Position    hex.Point
	Orientation float64 // radians, direction of travel
	Waypoints   []hex.Point
	Target      *hex.Point
	Selected    bool
}

// Fixed reports whether the unit never moves. The queen is fixed.
func (u *Unit) Fixed() bool { return u.Kind == KindQueen }

// State reports Seeking while a target is set, Idle otherwise.
func (u *Unit) State() State {
	if u.Target != nil {
		return StateSeeking
	}
	return StateIdle
}

// Idle reports whether the unit has neither a target nor queued waypoints.
func (u *Unit) Idle() bool { return u.Target == nil && len(u.Waypoints) == 0 }

// popWaypoint makes the front of the queue the current target.
func (u *Unit) popWaypoint() bool {
	if len(u.Waypoints) == 0 {
		return false
	}
	next := u.Waypoints[0]
	u.Waypoints = u.Waypoints[1:]
	u.Target = &next
	return true
}

// Colony is an arena of units addressed by Handle. Handles are assigned in
// spawn order and never reused.
type Colony struct {
	units []*Unit
}

// NewColony returns an empty arena.
func NewColony() *Colony {
	return &Colony{}
}

// Spawn adds a unit at pos and returns its handle.
func (c *Colony) Spawn(kind Kind, pos hex.Point) Handle {
	h := Handle(len(c.units))
	c.units = append(c.units, &Unit{Handle: h, Kind: kind, Position: pos})
	return h
}

// Get returns the unit for h.
func (c *Colony) Get(h Handle) (*Unit, error) {
	if h < 0 || int(h) >= len(c.units) {
		return nil, ErrUnknownUnit
	}
	return c.units[h], nil
}

// Len returns the number of units.
func (c *Colony) Len() int { return len(c.units) }

// Units returns the units in handle order. The slice is shared with the arena.
func (c *Colony) Units() []*Unit { return c.units }

// Filter returns the units for which keep returns true, in handle order.
func (c *Colony) Filter(keep func(*Unit) bool) []*Unit {
	var out []*Unit
	for _, u := range c.units {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// Selected returns the handles of all selected units in handle order.
func (c *Colony) Selected() []Handle {
	var out []Handle
	for _, u := range c.Filter(func(u *Unit) bool { return u.Selected }) {
		out = append(out, u.Handle)
	}
	return out
}

// Restore replaces the arena contents with units. Handles are reassigned
// from slice order.
func (c *Colony) Restore(units []Unit) {
	c.units = make([]*Unit, 0, len(units))
	for i := range units {
		u := units[i]
		u.Handle = Handle(i)
		c.units = append(c.units, &u)
	}
}
