package hex

import "math"

const sqrt3 = 1.7320508075688772935274463415059

// Point is a position in continuous world space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// DistanceTo returns the euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 { return q.Sub(p).Len() }

// Normalize returns p scaled to unit length, or the zero point when p has
// zero length.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Angle returns the heading of p in radians, measured from +X towards +Y.
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Layout maps between axial hexes and world space for a pointy-top grid.
// Size is the hex radius (center to corner); Origin is the world position
// of hex (0,0).
type Layout struct {
	Size   float64
	Origin Point
}

// NewLayout returns a pointy-top layout with the given size centered on the
// world origin.
func NewLayout(size float64) Layout {
	return Layout{Size: size}
}

// HexToWorld returns the world position of the center of h.
func (l Layout) HexToWorld(h Axial) Point {
	x, y := AxialToPixel(h, l.Size)
	return Point{X: x + l.Origin.X, Y: y + l.Origin.Y}
}

// WorldToFrac inverts HexToWorld without rounding.
func (l Layout) WorldToFrac(p Point) Frac {
	x := (p.X - l.Origin.X) / l.Size
	y := (p.Y - l.Origin.Y) / l.Size
	return Frac{
		Q: sqrt3/3*x - 1.0/3*y,
		R: 2.0 / 3 * y,
	}
}

// WorldToHex returns the hex containing p.
func (l Layout) WorldToHex(p Point) Axial {
	return l.WorldToFrac(p).Round()
}

// Corners returns the six boundary vertices of h, starting at the
// upper-right vertex (-30 degrees) and winding in increasing angle.
func (l Layout) Corners(h Axial) [6]Point {
	center := l.HexToWorld(h)
	var out [6]Point
	for i := 0; i < 6; i++ {
		angle := math.Pi / 180 * (60*float64(i) - 30)
		out[i] = Point{
			X: center.X + l.Size*math.Cos(angle),
			Y: center.Y + l.Size*math.Sin(angle),
		}
	}
	return out
}

// AxialToPixel converts axial to pixel coordinates for pointy-top layout.
// size is the hex radius (corner to center) in pixels.
func AxialToPixel(a Axial, size float64) (x, y float64) {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = size * sqrt3 * (float64(a.Q) + float64(a.R)/2.0)
	y = size * 1.5 * float64(a.R)
	return
}
