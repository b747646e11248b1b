package server

import (
	"github.com/Eggnisi/KingOfJumpChess/internal/network"
	"github.com/Eggnisi/KingOfJumpChess/internal/palette"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

func toCoord(c hex.Coord) network.Coord { return network.Coord{Q: c.Q(), R: c.R()} }

func fromCoord(c network.Coord) hex.Coord { return hex.New(c.Q, c.R) }

func toPoint(p hex.Point) network.Point { return network.Point{X: p.X, Y: p.Y} }

func fromPoint(p network.Point) hex.Point { return hex.Point{X: p.X, Y: p.Y} }

func toItem(it *hexcore.Item) *network.Item {
	if it == nil {
		return nil
	}
	return &network.Item{ID: it.ID(), Type: it.Type(), Tags: it.Tags()}
}

// Tile is the handle stored on every cell the server creates. Clients
// render cells from the template name.
type Tile struct {
	Template string
	World    hex.Point
}

// TileFactory builds Tile handles while a grid loads.
var TileFactory = hexcore.PresentationFactoryFunc(func(template string, at hex.Point) hexcore.Handle {
	return Tile{Template: template, World: at}
})

// cellView converts cells to their wire form using the grid's layout and
// the tag vocabulary.
type cellView struct {
	grid  *hexcore.Manager
	vocab *palette.Vocabulary
}

func (v cellView) cell(c *hexcore.Cell) *network.Cell {
	if c == nil {
		return nil
	}
	out := &network.Cell{
		Coord: toCoord(c.Coord()),
		World: toPoint(v.grid.GetWorldPosition(c.Coord())),
		Tags:  c.Tags(),
		Item:  toItem(c.Item()),
	}
	if t, ok := c.Handle().(Tile); ok {
		out.Template = t.Template
	}
	if v.vocab != nil {
		if col, ok := v.vocab.ColorFor(out.Tags); ok {
			out.Color = palette.Hex(col)
		}
	}
	return out
}

func (v cellView) cells(cells []*hexcore.Cell) []network.Cell {
	out := make([]network.Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, *v.cell(c))
	}
	return out
}

func toCoords(coords []hex.Coord) []network.Coord {
	out := make([]network.Coord, 0, len(coords))
	for _, c := range coords {
		out = append(out, toCoord(c))
	}
	return out
}

func eventName(t hexcore.EventType) string {
	switch t {
	case hexcore.EventGridLoaded:
		return network.EventGridLoaded
	case hexcore.EventCellCreated:
		return network.EventCellCreated
	case hexcore.EventCellRemoved:
		return network.EventCellRemoved
	case hexcore.EventItemPlaced:
		return network.EventItemPlaced
	case hexcore.EventItemRemoved:
		return network.EventItemRemoved
	default:
		return "unknown"
	}
}
