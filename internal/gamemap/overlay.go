package gamemap

import (
	"github.com/gravitas-games/antcolony/internal/colony"
	"github.com/gravitas-games/antcolony/pkg/hex"
)

// OutlineKind tells a renderer how to draw an outline.
type OutlineKind string

const (
	OutlineCurrent     OutlineKind = "current"     // solid, hex under a selected unit
	OutlineDestination OutlineKind = "destination" // dashed, end of a selected unit's path
)

// Outline is a hex boundary to draw for a unit.
type Outline struct {
	Unit    colony.Handle `json:"unit"`
	Kind    OutlineKind   `json:"kind"`
	Coord   hex.Axial     `json:"coord"`
	Corners [6]hex.Point  `json:"corners"`
}

// Polyline is the remaining route of a selected unit, starting at the
// unit's position.
type Polyline struct {
	Unit   colony.Handle `json:"unit"`
	Points []hex.Point   `json:"points"`
}

// Overlay is the selection feedback drawn on top of the map.
type Overlay struct {
	Drag     *colony.Rect `json:"drag,omitempty"`
	Outlines []Outline    `json:"outlines"`
	Paths    []Polyline   `json:"paths"`
}

// BuildOverlay derives the selection overlay from a snapshot.
func (gm *GameMap) BuildOverlay(snap colony.Snapshot) Overlay {
	ov := Overlay{
		Drag:     snap.Drag,
		Outlines: []Outline{},
		Paths:    []Polyline{},
	}

	for _, u := range snap.Units {
		if !u.Selected {
			continue
		}
		ov.Outlines = append(ov.Outlines, gm.outline(u.Handle, OutlineCurrent, gm.Layout.WorldToHex(u.Position)))

		route := make([]hex.Point, 0, len(u.Waypoints)+1)
		if u.Target != nil {
			route = append(route, *u.Target)
		}
		route = append(route, u.Waypoints...)
		if len(route) == 0 {
			continue
		}

		ov.Paths = append(ov.Paths, Polyline{
			Unit:   u.Handle,
			Points: append([]hex.Point{u.Position}, route...),
		})
		dest := gm.Layout.WorldToHex(route[len(route)-1])
		ov.Outlines = append(ov.Outlines, gm.outline(u.Handle, OutlineDestination, dest))
	}
	return ov
}

func (gm *GameMap) outline(h colony.Handle, kind OutlineKind, a hex.Axial) Outline {
	return Outline{Unit: h, Kind: kind, Coord: a, Corners: gm.Layout.Corners(a)}
}
