package hexcore

import (
	"fmt"
	"strings"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

// Handle is an opaque presentation object attached to a cell. The core
// stores and forwards it but never inspects it.
type Handle any

// Cell is one grid slot. Its coordinate is fixed at construction; it holds
// at most one item.
type Cell struct {
	coord  hex.Coord
	tags   TagSet
	item   *Item
	handle Handle
}

// NewCell creates an empty, untagged cell at coord.
func NewCell(coord hex.Coord, handle Handle) *Cell {
	return &Cell{coord: coord, handle: handle}
}

// Coord returns the cell's coordinate.
func (c *Cell) Coord() hex.Coord { return c.coord }

// Handle returns the presentation handle given at creation.
func (c *Cell) Handle() Handle { return c.handle }

// Item returns the placed item, or nil.
func (c *Cell) Item() *Item { return c.item }

// HasItem reports whether an item is placed in the cell.
func (c *Cell) HasItem() bool { return c.item != nil }

// PlaceItem stores item if the cell is empty. It returns false, leaving the
// cell untouched, when the cell is occupied or item is nil.
func (c *Cell) PlaceItem(item *Item) bool {
	if item == nil || c.item != nil {
		return false
	}
	c.item = item
	return true
}

// RemoveItem clears the cell and returns what it held; ok is false when
// the cell was already empty.
func (c *Cell) RemoveItem() (item *Item, ok bool) {
	item = c.item
	c.item = nil
	return item, item != nil
}

// Tags returns the cell's tags in insertion order.
func (c *Cell) Tags() []string { return c.tags.Slice() }

func (c *Cell) AddTag(tag string)              { c.tags.Add(tag) }
func (c *Cell) RemoveTag(tag string)           { c.tags.Remove(tag) }
func (c *Cell) HasTag(tag string) bool         { return c.tags.Has(tag) }
func (c *Cell) HasAnyTag(tags ...string) bool  { return c.tags.HasAny(tags...) }
func (c *Cell) HasAllTags(tags ...string) bool { return c.tags.HasAll(tags...) }

// ClearTags removes every tag from the cell.
func (c *Cell) ClearTags() { c.tags.Clear() }

func (c *Cell) String() string {
	item := "None"
	if c.item != nil {
		item = c.item.id
	}
	return fmt.Sprintf("Cell %s - Tags: %s - Item: %s", c.coord, strings.Join(c.tags.order, ", "), item)
}
