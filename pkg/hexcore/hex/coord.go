package hex

import (
	"fmt"
	"math"
)

// Coord is an axial hex coordinate (q, r) for pointy-top orientation.
// The third cube component s = -q-r is derived and never stored, so
// q+r+s == 0 holds for every value.
type Coord struct {
	q int
	r int
}

// New returns the coordinate (q, r).
func New(q, r int) Coord { return Coord{q: q, r: r} }

// Q returns the q component.
func (c Coord) Q() int { return c.q }

// R returns the r component.
func (c Coord) R() int { return c.r }

// S returns the derived cube component -q-r.
func (c Coord) S() int { return -c.q - c.r }

// Add returns a+b in axial space.
func (c Coord) Add(b Coord) Coord { return Coord{c.q + b.q, c.r + b.r} }

// Sub returns a-b in axial space.
func (c Coord) Sub(b Coord) Coord { return Coord{c.q - b.q, c.r - b.r} }

// Mul scales an axial vector by k.
func (c Coord) Mul(k int) Coord { return Coord{c.q * k, c.r * k} }

// Neighbor returns the adjacent coordinate in direction d. The second result
// is false when d is not one of the six valid directions, in which case c is
// returned unchanged.
func (c Coord) Neighbor(d Direction) (Coord, bool) {
	off, ok := d.Offset()
	if !ok {
		return c, false
	}
	return c.Add(off), true
}

// Neighbors returns the six adjacent coordinates in direction order:
// East, SouthEast, SouthWest, West, NorthWest, NorthEast.
func (c Coord) Neighbors() [6]Coord {
	var res [6]Coord
	for i, d := range directionOffsets {
		res[i] = c.Add(d)
	}
	return res
}

// Neighbor pairs an adjacent coordinate with the direction it lies in.
type Neighbor struct {
	Coord     Coord
	Direction Direction
}

func (n Neighbor) String() string { return fmt.Sprintf("%s in %s", n.Coord, n.Direction) }

// NeighborsWithDirection returns the same six coordinates as Neighbors,
// each tagged with its direction.
func (c Coord) NeighborsWithDirection() [6]Neighbor {
	var res [6]Neighbor
	for i, d := range directionOffsets {
		res[i] = Neighbor{Coord: c.Add(d), Direction: Direction(i)}
	}
	return res
}

// DistanceTo returns the number of steps between c and other.
func (c Coord) DistanceTo(other Coord) int {
	return (abs(c.q-other.q) + abs(c.r-other.r) + abs(c.S()-other.S())) / 2
}

// Distance returns hex distance between two coords.
func Distance(a, b Coord) int { return a.DistanceTo(b) }

func (c Coord) String() string { return fmt.Sprintf("(%d, %d, %d)", c.q, c.r, c.S()) }

// roundCube snaps fractional cube components to the nearest hex, resetting
// the component with the largest rounding error so q+r+s stays zero.
func roundCube(fq, fr, fs float64) Coord {
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return Coord{q: int(q), r: int(r)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
