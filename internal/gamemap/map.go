package gamemap

import (
	"log"

	"github.com/gravitas-games/antcolony/pkg/hex"
)

// GameMap is the background hex grid drawn under a colony.
type GameMap struct {
	Layout hex.Layout
	Radius int // number of rings around the origin

	cells map[hex.Axial]*Cell
	order []hex.Axial
}

// Cell represents a single hex cell with its render geometry.
type Cell struct {
	Coord   hex.Axial    `json:"coord"`
	Center  hex.Point    `json:"center"`
	Corners [6]hex.Point `json:"corners"`
}

// New creates the grid of the given ring radius around the origin hex.
func New(layout hex.Layout, radius int) *GameMap {
	gm := &GameMap{
		Layout: layout,
		Radius: radius,
		cells:  make(map[hex.Axial]*Cell),
	}

	for _, a := range hex.SpiralRange(hex.Zero, radius) {
		gm.cells[a] = &Cell{
			Coord:   a,
			Center:  layout.HexToWorld(a),
			Corners: layout.Corners(a),
		}
		gm.order = append(gm.order, a)
	}

	log.Printf("Game map generated with %d cells (radius %d)", len(gm.order), radius)
	return gm
}

// GetCell retrieves the cell at the given hex.
func (gm *GameMap) GetCell(a hex.Axial) (*Cell, bool) {
	cell, exists := gm.cells[a]
	return cell, exists
}

// CellAt returns the cell under a world position.
func (gm *GameMap) CellAt(p hex.Point) (*Cell, bool) {
	return gm.GetCell(gm.Layout.WorldToHex(p))
}

// Contains reports whether a lies on the grid.
func (gm *GameMap) Contains(a hex.Axial) bool {
	_, ok := gm.cells[a]
	return ok
}

// Cells returns the cells in spiral order.
func (gm *GameMap) Cells() []*Cell {
	out := make([]*Cell, 0, len(gm.order))
	for _, a := range gm.order {
		out = append(out, gm.cells[a])
	}
	return out
}

// CellCount returns the number of cells on the grid.
func (gm *GameMap) CellCount() int {
	return len(gm.order)
}
