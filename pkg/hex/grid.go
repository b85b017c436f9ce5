package hex

// Ring returns the axial coordinates at exact distance k from center c,
// starting from direction 4 (c + Directions[4]*k) and walking the six sides
// in Directions order. If k==0, returns [c]; a negative k yields nothing.
func Ring(c Axial, k int) []Axial {
	if k < 0 {
		return nil
	}
	if k == 0 {
		return []Axial{c}
	}
	res := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[4].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Neighbor(side)
		}
	}
	return res
}

// SpiralRange returns the rings 0 through n-1 around c, concatenated in
// radius order. Within a ring the order is the one produced by Ring, so the
// result is stable for a given center and n.
func SpiralRange(c Axial, n int) []Axial {
	if n <= 0 {
		return nil
	}
	res := make([]Axial, 0, SpiralSize(n))
	for k := 0; k < n; k++ {
		res = append(res, Ring(c, k)...)
	}
	return res
}

// SpiralSize is the number of hexes SpiralRange(c, n) yields.
func SpiralSize(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 + 3*(n-1)*n
}

// Disk returns all axial coordinates at distance <= r from center c,
// ordered by q then r.
func Disk(c Axial, r int) []Axial {
	if r < 0 {
		return nil
	}
	size := 1 + 3*r*(r+1)
	res := make([]Axial, 0, size)
	for q := -r; q <= r; q++ {
		for r2 := max(-r, -q-r); r2 <= min(r, -q+r); r2++ {
			res = append(res, c.Add(Axial{q, r2}))
		}
	}
	return res
}

// nudge breaks exact ties on hex edges so lines round consistently.
var nudge = Frac{Q: 1e-6, R: -2e-6}

// Line returns the hexes a straight line crosses from a to b, both
// endpoints included. Each step interpolates in fractional axial space and
// rounds to the nearest hex.
func Line(a, b Axial) []Axial {
	n := DistanceAxial(a, b)
	if n == 0 {
		return []Axial{a}
	}
	fa := Frac{Q: float64(a.Q) + nudge.Q, R: float64(a.R) + nudge.R}
	fb := Frac{Q: float64(b.Q) + nudge.Q, R: float64(b.R) + nudge.R}

	res := make([]Axial, 0, n+1)
	step := 1.0 / float64(n)
	for i := 0; i <= n; i++ {
		res = append(res, fa.Lerp(fb, step*float64(i)).Round())
	}
	return res
}
