package colony

import "github.com/gravitas-games/antcolony/pkg/hex"

// Phase is the stage of a pointer or touch gesture.
type Phase string

const (
	PhasePress   Phase = "press"
	PhaseHold    Phase = "hold"
	PhaseRelease Phase = "release"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	return p == PhasePress || p == PhaseHold || p == PhaseRelease
}

// Gesture is one pointer event, already resolved to world space.
type Gesture struct {
	Phase Phase
	Point hex.Point
}

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	Min hex.Point `json:"min"`
	Max hex.Point `json:"max"`
}

// RectFromCorners returns the rectangle spanning a and b.
func RectFromCorners(a, b hex.Point) Rect {
	return Rect{
		Min: hex.Point{X: minf(a.X, b.X), Y: minf(a.Y, b.Y)},
		Max: hex.Point{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p hex.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// SelectionState tracks the gesture in progress. Start and current are set
// together on press and cleared together on release.
type SelectionState struct {
	drag *[2]hex.Point
}

// Active reports whether a gesture is in progress.
func (s *SelectionState) Active() bool { return s.drag != nil }

// Start returns the press point of the gesture in progress.
func (s *SelectionState) Start() (hex.Point, bool) {
	if s.drag == nil {
		return hex.Point{}, false
	}
	return s.drag[0], true
}

// Current returns the latest point of the gesture in progress.
func (s *SelectionState) Current() (hex.Point, bool) {
	if s.drag == nil {
		return hex.Point{}, false
	}
	return s.drag[1], true
}

// Rect returns the drag rectangle while a gesture is in progress.
func (s *SelectionState) Rect() (Rect, bool) {
	if s.drag == nil {
		return Rect{}, false
	}
	return RectFromCorners(s.drag[0], s.drag[1]), true
}

func (s *SelectionState) press(p hex.Point) {
	s.drag = &[2]hex.Point{p, p}
}

func (s *SelectionState) hold(p hex.Point) {
	if s.drag == nil {
		return
	}
	s.drag[1] = p
}

// release clears the gesture and returns its start point. A release
// without a press starts where it ends.
func (s *SelectionState) release(p hex.Point) hex.Point {
	start := p
	if s.drag != nil {
		start = s.drag[0]
	}
	s.drag = nil
	return start
}

// IntentKind classifies what a finished gesture asked for.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentToggle
	IntentBoxSelect
	IntentMove
)

func (k IntentKind) String() string {
	switch k {
	case IntentToggle:
		return "toggle"
	case IntentBoxSelect:
		return "box_select"
	case IntentMove:
		return "move"
	default:
		return "none"
	}
}

// Intent is the result of reducing a gesture.
type Intent struct {
	Kind   IntentKind
	Units  []Handle  // toggled, newly box-selected, or move participants
	Target hex.Point // move target
	Box    Rect      // box select bounds
}

// HandleGesture feeds one gesture into the selection state. Only a release
// produces an intent other than IntentNone.
func (w *World) HandleGesture(g Gesture) Intent {
	switch g.Phase {
	case PhasePress:
		w.Selection.press(g.Point)
	case PhaseHold:
		w.Selection.hold(g.Point)
	case PhaseRelease:
		start := w.Selection.release(g.Point)
		if start.DistanceTo(g.Point) < w.Tuning.ClickThreshold {
			return w.click(g.Point)
		}
		return w.boxSelect(start, g.Point)
	}
	return Intent{Kind: IntentNone}
}

// click toggles the unit under p, or orders the selection to p when no
// unit is hit.
func (w *World) click(p hex.Point) Intent {
	if u := w.hitTest(p); u != nil {
		u.Selected = !u.Selected
		return Intent{Kind: IntentToggle, Units: []Handle{u.Handle}}
	}

	selected := w.Colony.Selected()
	if len(selected) == 0 {
		return Intent{Kind: IntentNone}
	}
	// Handles come from the arena itself so Order cannot fail here.
	_ = w.Order(p, selected)
	return Intent{Kind: IntentMove, Units: selected, Target: p}
}

// hitTest returns the unit nearest p within the hit radius. Ties go to the
// lower handle.
func (w *World) hitTest(p hex.Point) *Unit {
	var best *Unit
	bestDist := w.Tuning.HitRadius
	for _, u := range w.Colony.Units() {
		if d := u.Position.DistanceTo(p); d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

// boxSelect marks every unit inside the rectangle as selected. Units
// outside keep their selection.
func (w *World) boxSelect(a, b hex.Point) Intent {
	box := RectFromCorners(a, b)
	var hit []Handle
	for _, u := range w.Colony.Units() {
		if box.Contains(u.Position) {
			u.Selected = true
			hit = append(hit, u.Handle)
		}
	}
	return Intent{Kind: IntentBoxSelect, Units: hit, Box: box}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
