package colony

import (
	"fmt"

	"github.com/gravitas-games/antcolony/pkg/hex"
)

// Assignment pairs a unit with the hex it should walk to.
type Assignment struct {
	Unit Handle
	Dest hex.Axial
}

// Allocate hands out distinct destination hexes around target. The i-th
// unit gets the i-th hex of the spiral around the target hex; units beyond
// the spiral's capacity get nothing.
func Allocate(layout hex.Layout, target hex.Point, units []Handle, rings int) []Assignment {
	if len(units) == 0 {
		return nil
	}
	center := layout.WorldToHex(target)
	spiral := hex.SpiralRange(center, rings)

	n := len(units)
	if n > len(spiral) {
		n = len(spiral)
	}
	out := make([]Assignment, n)
	for i := 0; i < n; i++ {
		out[i] = Assignment{Unit: units[i], Dest: spiral[i]}
	}
	return out
}

// PlanPath returns the world-space waypoints from `from` to the center of
// dest along a hex line. The hex under `from` is never a waypoint.
func PlanPath(layout hex.Layout, from hex.Point, dest hex.Axial) []hex.Point {
	current := layout.WorldToHex(from)

	var waypoints []hex.Point
	for _, h := range hex.Line(current, dest) {
		if h == current {
			continue
		}
		waypoints = append(waypoints, layout.HexToWorld(h))
	}

	if len(waypoints) == 0 && current != dest {
		waypoints = append(waypoints, layout.HexToWorld(dest))
	}
	return waypoints
}

// Order sends units towards target. Each unit that receives a destination
// has its queue replaced and its current target dropped; fixed units use up
// a destination but are not given a path.
func (w *World) Order(target hex.Point, units []Handle) error {
	for _, h := range units {
		if _, err := w.Colony.Get(h); err != nil {
			return fmt.Errorf("order unit %d: %w", h, err)
		}
	}

	for _, a := range Allocate(w.Layout, target, units, w.Tuning.SpiralCap) {
		u, _ := w.Colony.Get(a.Unit)
		if u.Fixed() {
			continue
		}
		u.Waypoints = PlanPath(w.Layout, u.Position, a.Dest)
		u.Target = nil
	}
	return nil
}
