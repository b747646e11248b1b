package hex

// Direction names one of the six pointy-top neighbor directions.
type Direction int

const (
	East Direction = iota
	SouthEast
	SouthWest
	West
	NorthWest
	NorthEast
)

// Invalid is returned where no direction applies, e.g. between two
// coordinates that are not adjacent.
const Invalid Direction = -1

// directionOffsets is indexed by Direction.
var directionOffsets = [6]Coord{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Directions lists the six valid directions in index order.
var Directions = [6]Direction{East, SouthEast, SouthWest, West, NorthWest, NorthEast}

// Valid reports whether d is one of the six directions.
func (d Direction) Valid() bool { return d >= East && d <= NorthEast }

// Offset returns the unit vector for d. ok is false for Invalid or any
// out-of-range value.
func (d Direction) Offset() (off Coord, ok bool) {
	if !d.Valid() {
		return Coord{}, false
	}
	return directionOffsets[d], true
}

// Opposite returns the direction pointing the other way. Invalid maps to
// Invalid.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return Invalid
	}
	return (d + 3) % 6
}

// DirectionBetween returns the direction from a to b, or Invalid when b-a
// is not exactly one of the six unit vectors.
func DirectionBetween(a, b Coord) Direction {
	diff := b.Sub(a)
	for i, off := range directionOffsets {
		if diff == off {
			return Direction(i)
		}
	}
	return Invalid
}

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case East:
		return "East"
	case SouthEast:
		return "SouthEast"
	case SouthWest:
		return "SouthWest"
	case West:
		return "West"
	case NorthWest:
		return "NorthWest"
	case NorthEast:
		return "NorthEast"
	default:
		return "Invalid"
	}
}
