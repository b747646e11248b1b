package hex

// Ring returns the coordinates at exact distance k from center c,
// starting from direction NorthWest and proceeding around the six sides.
// If k==0, returns [c]. A negative k yields nil.
func Ring(c Coord, k int) []Coord {
	if k < 0 {
		return nil
	}
	if k == 0 {
		return []Coord{c}
	}
	res := make([]Coord, 0, 6*k)
	cur := c.Add(directionOffsets[NorthWest].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Add(directionOffsets[side])
		}
	}
	return res
}

// Range returns all coordinates at distance <= r from center c, exactly
// 3r²+3r+1 of them. A negative r yields nil.
func Range(c Coord, r int) []Coord {
	if r < 0 {
		return nil
	}
	res := make([]Coord, 0, 1+3*r*(r+1))
	for dq := -r; dq <= r; dq++ {
		for dr := max(-r, -dq-r); dr <= min(r, -dq+r); dr++ {
			res = append(res, c.Add(Coord{dq, dr}))
		}
	}
	return res
}

// Line returns the coordinates on the straight line from a to b, inclusive,
// one per step: Distance(a, b)+1 entries starting at a and ending at b.
func Line(a, b Coord) []Coord {
	n := a.DistanceTo(b)
	if n == 0 {
		return []Coord{a}
	}
	// Nudge off exact edge midpoints so ties round the same way every step.
	aq, ar, as := float64(a.q)+1e-6, float64(a.r)+2e-6, float64(a.S())-3e-6
	bq, br, bs := float64(b.q)+1e-6, float64(b.r)+2e-6, float64(b.S())-3e-6

	res := make([]Coord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		res = append(res, roundCube(lerp(aq, bq, t), lerp(ar, br, t), lerp(as, bs, t)))
	}
	return res
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
