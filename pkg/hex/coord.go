package hex

import "math"

// Axial represents axial coordinates (q, r) for pointy-top orientation.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Zero is the origin hex.
var Zero = Axial{}

// Directions for axial neighbors in pointy-top orientation.
var Directions = []Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Sub returns a-b in axial space.
func (a Axial) Sub(b Axial) Axial { return Axial{a.Q - b.Q, a.R - b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// S returns the implicit third cube coordinate.
func (a Axial) S() int { return -a.Q - a.R }

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	x := a.Q
	z := a.R
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// Neighbor returns the adjacent hex in direction d (0..5).
func (a Axial) Neighbor(d int) Axial { return a.Add(Directions[((d%6)+6)%6]) }

// DistanceTo returns the number of steps between a and b.
func (a Axial) DistanceTo(b Axial) int { return DistanceAxial(a, b) }

// DistanceAxial returns hex distance between two axial coords.
func DistanceAxial(a, b Axial) int {
	return DistanceCube(a.ToCube(), b.ToCube())
}

// DistanceCube returns hex distance between two cube coords.
func DistanceCube(a, b Cube) int {
	dx := absInt(a.X - b.X)
	dy := absInt(a.Y - b.Y)
	dz := absInt(a.Z - b.Z)
	if dx > dy && dx > dz {
		return dx
	}
	if dy > dz {
		return dy
	}
	return dz
}

// Frac is a fractional axial coordinate produced by interpolation or by
// inverting a layout. Round snaps it to the containing hex.
type Frac struct {
	Q float64
	R float64
}

// Round returns the nearest hex using cube rounding: all three cube
// components are rounded and the one with the largest error is recomputed
// from the other two so the x+y+z=0 constraint holds.
func (f Frac) Round() Axial {
	x, z := f.Q, f.R
	y := -x - z

	rx := math.Round(x)
	ry := math.Round(y)
	rz := math.Round(z)

	dx := math.Abs(rx - x)
	dy := math.Abs(ry - y)
	dz := math.Abs(rz - z)

	if dx > dy && dx > dz {
		rx = -ry - rz
	} else if dy > dz {
		ry = -rx - rz
	} else {
		rz = -rx - ry
	}
	return Axial{Q: int(rx), R: int(rz)}
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func (f Frac) Lerp(b Frac, t float64) Frac {
	return Frac{
		Q: f.Q + (b.Q-f.Q)*t,
		R: f.R + (b.R-f.R)*t,
	}
}

// AsFrac widens an axial coordinate to its fractional form.
func (a Axial) AsFrac() Frac { return Frac{Q: float64(a.Q), R: float64(a.R)} }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
