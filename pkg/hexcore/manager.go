package hexcore

import (
	"log"
	"slices"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

// Manager owns the coordinate -> cell registry and the active layout.
//
// Manager has no internal locking. Callers sharing one across goroutines
// must serialize every call themselves. Events are published synchronously
// from inside the mutating call that caused them.
type Manager struct {
	description *Description
	system      *hex.GridSystem

	cells map[hex.Coord]*Cell
	order []hex.Coord // creation order

	factory PresentationFactory
	events  EventBus
	logger  *log.Logger
}

// Option configures manager construction.
type Option func(*Manager)

// WithEventBus sets the bus events are published on.
func WithEventBus(bus EventBus) Option {
	return func(m *Manager) {
		if bus != nil {
			m.events = bus
		}
	}
}

// WithPresentationFactory sets the factory used to build cell handles on
// load.
func WithPresentationFactory(f PresentationFactory) Option {
	return func(m *Manager) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithLogger enables warnings, such as a CreateCell on a taken coordinate.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty, unloaded manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		cells:   make(map[hex.Coord]*Cell),
		factory: nullFactory{},
		events:  NewNullEventBus(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Events returns the bus the manager publishes on.
func (m *Manager) Events() EventBus { return m.events }

// LoadGridData replaces the active layout with desc's, discards every cell
// without per-cell removal events, and creates one cell per record. Each new
// cell emits EventCellCreated; EventGridLoaded follows once at the end.
//
// When two records share a coordinate the first creates the cell and the
// later one only replaces its tags. A nil desc unloads the grid.
func (m *Manager) LoadGridData(desc *Description) {
	if desc == nil {
		m.UnloadGridData()
		return
	}
	system := desc.GridSystem()
	m.description = desc
	m.system = &system
	m.reset()

	for _, rec := range desc.Cells {
		cell, ok := m.TryGetCell(rec.Coord)
		if !ok {
			handle := m.factory.Instantiate(rec.Template, system.HexToWorld(rec.Coord))
			cell = m.CreateCell(rec.Coord, handle)
		}
		cell.ClearTags()
		for _, tag := range rec.Tags {
			cell.AddTag(tag)
		}
	}

	m.events.Publish(Event{Type: EventGridLoaded, Description: desc})
}

// UnloadGridData clears the registry and forgets the active layout. No
// events are published.
func (m *Manager) UnloadGridData() {
	m.description = nil
	m.system = nil
	m.reset()
}

func (m *Manager) reset() {
	clear(m.cells)
	m.order = m.order[:0]
}

// Loaded reports whether a description is active.
func (m *Manager) Loaded() bool { return m.system != nil }

// CurrentDescription returns the active description, or nil.
func (m *Manager) CurrentDescription() *Description { return m.description }

// GridSystem returns the active layout, or the unit layout at the origin
// when nothing is loaded.
func (m *Manager) GridSystem() hex.GridSystem {
	if m.system == nil {
		return hex.DefaultGridSystem()
	}
	return *m.system
}

// CreateCell registers a new cell at coord. If a cell already exists there
// it is returned unchanged and nothing is published.
func (m *Manager) CreateCell(coord hex.Coord, handle Handle) *Cell {
	if existing, ok := m.cells[coord]; ok {
		if m.logger != nil {
			m.logger.Printf("Cell at %s already exists", coord)
		}
		return existing
	}
	cell := NewCell(coord, handle)
	m.cells[coord] = cell
	m.order = append(m.order, coord)

	m.events.Publish(Event{Type: EventCellCreated, Cell: cell})
	return cell
}

// RemoveCell drops the cell at coord and publishes EventCellRemoved. It
// returns false when no cell exists there.
func (m *Manager) RemoveCell(coord hex.Coord) bool {
	cell, ok := m.cells[coord]
	if !ok {
		return false
	}
	delete(m.cells, coord)
	if i := slices.Index(m.order, coord); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}

	m.events.Publish(Event{Type: EventCellRemoved, Cell: cell})
	return true
}

// GetCell returns the cell at coord, or nil.
func (m *Manager) GetCell(coord hex.Coord) *Cell { return m.cells[coord] }

// TryGetCell returns the cell at coord and whether it exists.
func (m *Manager) TryGetCell(coord hex.Coord) (*Cell, bool) {
	cell, ok := m.cells[coord]
	return cell, ok
}

// CellExists reports whether a cell exists at coord.
func (m *Manager) CellExists(coord hex.Coord) bool {
	_, ok := m.cells[coord]
	return ok
}

// CellCount returns the number of registered cells.
func (m *Manager) CellCount() int { return len(m.cells) }

// GetAllCells returns every cell in creation order.
func (m *Manager) GetAllCells() []*Cell {
	return m.filter(func(*Cell) bool { return true })
}

// GetCellsInRange returns the cells within radius of center. Coordinates
// in range with no cell are skipped. When the range holds more coordinates
// than the registry holds cells, the registry is scanned instead and the
// result comes back in creation order.
func (m *Manager) GetCellsInRange(center hex.Coord, radius int) []*Cell {
	if radius < 0 {
		return nil
	}
	if radius >= len(m.cells) || 1+3*radius*(radius+1) > len(m.cells) {
		return m.filter(func(c *Cell) bool { return c.coord.DistanceTo(center) <= radius })
	}
	return m.lookupAll(hex.Range(center, radius))
}

// GetCellsOnRing returns the cells at exactly radius from center, scanning
// the registry when the ring is larger than it.
func (m *Manager) GetCellsOnRing(center hex.Coord, radius int) []*Cell {
	if radius < 0 {
		return nil
	}
	if radius >= len(m.cells) || 6*radius > len(m.cells) {
		return m.filter(func(c *Cell) bool { return c.coord.DistanceTo(center) == radius })
	}
	return m.lookupAll(hex.Ring(center, radius))
}

// GetCellsOnLine returns the cells on the straight line from a to b.
func (m *Manager) GetCellsOnLine(a, b hex.Coord) []*Cell {
	return m.lookupAll(hex.Line(a, b))
}

// GetNeighbors returns the existing cells adjacent to coord, in direction
// order.
func (m *Manager) GetNeighbors(coord hex.Coord) []*Cell {
	n := coord.Neighbors()
	return m.lookupAll(n[:])
}

// FindCellsWithTags returns the cells carrying every one of tags.
func (m *Manager) FindCellsWithTags(tags ...string) []*Cell {
	return m.filter(func(c *Cell) bool { return c.HasAllTags(tags...) })
}

// FindCellsWithAnyTag returns the cells carrying at least one of tags.
func (m *Manager) FindCellsWithAnyTag(tags ...string) []*Cell {
	return m.filter(func(c *Cell) bool { return c.HasAnyTag(tags...) })
}

// FindCellsWithItemType returns the cells holding an item of itemType.
func (m *Manager) FindCellsWithItemType(itemType string) []*Cell {
	return m.filter(func(c *Cell) bool { return c.HasItem() && c.Item().Type() == itemType })
}

// FindNearestCellWithTag returns the tagged cell closest in hex distance to
// the hex containing worldPos. Among equally near cells the earliest created
// wins.
func (m *Manager) FindNearestCellWithTag(worldPos hex.Point, tag string) (*Cell, bool) {
	from := m.GetHexCoord(worldPos)
	var nearest *Cell
	best := 0
	for _, coord := range m.order {
		cell := m.cells[coord]
		if !cell.HasTag(tag) {
			continue
		}
		if d := from.DistanceTo(coord); nearest == nil || d < best {
			nearest, best = cell, d
		}
	}
	return nearest, nearest != nil
}

// PlaceItemAt places item into the cell at coord and publishes
// EventItemPlaced. It fails when the cell is missing or occupied.
func (m *Manager) PlaceItemAt(coord hex.Coord, item *Item) bool {
	cell, ok := m.cells[coord]
	if !ok || !cell.PlaceItem(item) {
		return false
	}
	m.events.Publish(Event{Type: EventItemPlaced, Cell: cell, Item: item})
	return true
}

// RemoveItemFrom takes the item out of the cell at coord and publishes
// EventItemRemoved.
func (m *Manager) RemoveItemFrom(coord hex.Coord) (*Item, bool) {
	cell, ok := m.cells[coord]
	if !ok {
		return nil, false
	}
	item, ok := cell.RemoveItem()
	if !ok {
		return nil, false
	}
	m.events.Publish(Event{Type: EventItemRemoved, Cell: cell, Item: item})
	return item, true
}

// MoveItem removes the item at from and places it at to.
//
// If placement at to fails (missing or occupied cell) the item is NOT put
// back: from stays empty and the item is left unplaced. Callers that need
// the item back must re-place it themselves.
func (m *Manager) MoveItem(from, to hex.Coord) bool {
	item, ok := m.RemoveItemFrom(from)
	if !ok {
		return false
	}
	return m.PlaceItemAt(to, item)
}

// ClearAllItems removes every placed item, publishing EventItemRemoved for
// each.
func (m *Manager) ClearAllItems() {
	for _, coord := range slices.Clone(m.order) {
		if cell, ok := m.cells[coord]; ok && cell.HasItem() {
			m.RemoveItemFrom(coord)
		}
	}
}

// GetWorldPosition returns the world center of coord under the active
// layout.
func (m *Manager) GetWorldPosition(coord hex.Coord) hex.Point {
	return m.GridSystem().HexToWorld(coord)
}

// GetHexCoord returns the hex containing worldPos under the active layout.
func (m *Manager) GetHexCoord(worldPos hex.Point) hex.Coord {
	return m.GridSystem().WorldToHex(worldPos)
}

// Summary describes the registry at a glance.
type Summary struct {
	Cells          int
	CellsWithItems int
	HexSize        float64
	Center         hex.Point
	Loaded         bool
}

// Summary returns counts and the active layout.
func (m *Manager) Summary() Summary {
	g := m.GridSystem()
	s := Summary{Cells: len(m.cells), HexSize: g.HexSize(), Center: g.Center(), Loaded: m.Loaded()}
	for _, cell := range m.cells {
		if cell.HasItem() {
			s.CellsWithItems++
		}
	}
	return s
}

func (m *Manager) lookupAll(coords []hex.Coord) []*Cell {
	var res []*Cell
	for _, coord := range coords {
		if cell, ok := m.cells[coord]; ok {
			res = append(res, cell)
		}
	}
	return res
}

func (m *Manager) filter(keep func(*Cell) bool) []*Cell {
	var res []*Cell
	for _, coord := range m.order {
		if cell := m.cells[coord]; keep(cell) {
			res = append(res, cell)
		}
	}
	return res
}
