package hex

import "math"

// MinHexSize is the smallest hex radius a GridSystem accepts.
const MinHexSize = 0.1

var sqrt3 = math.Sqrt(3)

// Point is a position in world space.
type Point struct {
	X float64
	Y float64
}

// Add returns p+o.
func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }

// Sub returns p-o.
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// GridSystem converts between world space and hex coordinates for a
// pointy-top layout. It is an immutable snapshot of (hex size, center);
// build a new one to change either.
type GridSystem struct {
	hexSize float64
	center  Point
}

// NewGridSystem returns a layout with the given hex radius (corner to
// center), clamped to MinHexSize, whose hex (0,0) sits at center.
func NewGridSystem(hexSize float64, center Point) GridSystem {
	if !(hexSize >= MinHexSize) {
		hexSize = MinHexSize
	}
	return GridSystem{hexSize: hexSize, center: center}
}

// DefaultGridSystem is a unit-size layout centered at the origin.
func DefaultGridSystem() GridSystem { return NewGridSystem(1, Point{}) }

// HexSize returns the hex radius.
func (g GridSystem) HexSize() float64 { return g.hexSize }

// Center returns the world position of hex (0,0).
func (g GridSystem) Center() Point { return g.center }

// WorldToHex returns the hex for world position p by projecting onto the
// q and r axes and rounding each independently, halves to even. Exact at
// hex centers; near corners it can pick a neighbor of the true nearest hex.
func (g GridSystem) WorldToHex(p Point) Coord {
	rel := p.Sub(g.center)
	fq := (rel.X*sqrt3/3 - rel.Y/3) / g.hexSize
	fr := (rel.Y * 2 / 3) / g.hexSize
	return Coord{q: int(math.RoundToEven(fq)), r: int(math.RoundToEven(fr))}
}

// HexToWorld returns the world position of the center of c.
func (g GridSystem) HexToWorld(c Coord) Point {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x := g.hexSize * (sqrt3*float64(c.q) + sqrt3/2*float64(c.r))
	y := g.hexSize * (1.5 * float64(c.r))
	return Point{X: x, Y: y}.Add(g.center)
}

// WorldToHexWithRelative returns the hex containing p together with the
// offset of p from that hex's center.
func (g GridSystem) WorldToHexWithRelative(p Point) (Coord, Point) {
	c := g.WorldToHex(p)
	return c, p.Sub(g.HexToWorld(c))
}

// NeighborInDirection returns the neighbor of from in direction d. For an
// invalid direction it returns (from, false).
func (g GridSystem) NeighborInDirection(from Coord, d Direction) (Coord, bool) {
	return from.Neighbor(d)
}

// DirectionBetween returns the direction from a to b, or Invalid when they
// are not adjacent.
func (g GridSystem) DirectionBetween(a, b Coord) Direction { return DirectionBetween(a, b) }

// OppositeDirection returns d.Opposite().
func (g GridSystem) OppositeDirection(d Direction) Direction { return d.Opposite() }

// Distance returns the hex distance between a and b.
func (g GridSystem) Distance(a, b Coord) int { return a.DistanceTo(b) }

// HexesInRange returns every coordinate within radius of center.
func (g GridSystem) HexesInRange(center Coord, radius int) []Coord { return Range(center, radius) }

// Line returns the coordinates on the line from a to b inclusive.
func (g GridSystem) Line(a, b Coord) []Coord { return Line(a, b) }

// Vertices returns the six corners of c, counter-clockwise from 30°.
func (g GridSystem) Vertices(c Coord) [6]Point {
	center := g.HexToWorld(c)
	var v [6]Point
	for i := 0; i < 6; i++ {
		angle := float64(30+60*i) * math.Pi / 180
		v[i] = Point{
			X: center.X + g.hexSize*math.Cos(angle),
			Y: center.Y + g.hexSize*math.Sin(angle),
		}
	}
	return v
}

// Bounds returns the bounding box of c: sqrt(3)*size wide, 2*size tall.
func (g GridSystem) Bounds(c Coord) Rect {
	center := g.HexToWorld(c)
	w := g.hexSize * sqrt3
	h := g.hexSize * 2
	return Rect{X: center.X - w/2, Y: center.Y - h/2, Width: w, Height: h}
}
