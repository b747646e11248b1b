package hexcore

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

type recorder struct {
	events []Event
}

func (r *recorder) handle(e Event) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	res := make([]EventType, len(r.events))
	for i, e := range r.events {
		res[i] = e.Type
	}
	return res
}

func newTestManager(t *testing.T) (*Manager, *recorder) {
	t.Helper()
	bus := NewSimpleEventBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle)
	return NewManager(WithEventBus(bus)), rec
}

func coords(cells []*Cell) map[hex.Coord]bool {
	res := make(map[hex.Coord]bool, len(cells))
	for _, c := range cells {
		res[c.Coord()] = true
	}
	return res
}

func sampleDescription() *Description {
	return &Description{
		Name:    "sample",
		HexSize: 1,
		Cells: []CellRecord{
			{Coord: hex.New(0, 0), Template: "normal", Tags: []string{"start"}},
			{Coord: hex.New(1, 0), Template: "normal", Tags: []string{"path"}},
			{Coord: hex.New(0, 1), Template: "normal", Tags: []string{"path"}},
		},
	}
}

func TestLoadGridDataScenario(t *testing.T) {
	m, rec := newTestManager(t)
	m.LoadGridData(sampleDescription())

	if m.CellCount() != 3 || !m.Loaded() {
		t.Fatalf("expected 3 loaded cells, got %d", m.CellCount())
	}
	paths := coords(m.FindCellsWithTags("path"))
	if len(paths) != 2 || !paths[hex.New(1, 0)] || !paths[hex.New(0, 1)] {
		t.Fatalf("expected path cells at (1,0) and (0,1), got %v", paths)
	}
	neighbors := coords(m.GetNeighbors(hex.New(0, 0)))
	if len(neighbors) != 2 || !neighbors[hex.New(1, 0)] || !neighbors[hex.New(0, 1)] {
		t.Fatalf("expected neighbors (1,0) and (0,1), got %v", neighbors)
	}

	want := []EventType{EventCellCreated, EventCellCreated, EventCellCreated, EventGridLoaded}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
	if rec.events[3].Description == nil || rec.events[3].Description.Name != "sample" {
		t.Fatalf("expected grid loaded event to carry the description")
	}
}

func TestLoadGridDataPositionsHandles(t *testing.T) {
	type placed struct {
		template string
		at       hex.Point
	}
	factory := PresentationFactoryFunc(func(template string, at hex.Point) Handle {
		return &placed{template: template, at: at}
	})
	m := NewManager(WithPresentationFactory(factory))
	desc := sampleDescription()
	desc.HexSize = 2
	desc.Center = hex.Point{X: 10, Y: 20}
	m.LoadGridData(desc)

	for _, rec := range desc.Cells {
		cell := m.GetCell(rec.Coord)
		p, ok := cell.Handle().(*placed)
		if !ok {
			t.Fatalf("expected handle from factory on %s", rec.Coord)
		}
		if p.template != "normal" || p.at != m.GetWorldPosition(rec.Coord) {
			t.Fatalf("unexpected handle %+v for %s", p, rec.Coord)
		}
	}
	if m.GridSystem().HexSize() != 2 || m.GridSystem().Center() != desc.Center {
		t.Fatalf("expected layout from description")
	}
}

func TestLoadGridDataReplacesPreviousGrid(t *testing.T) {
	m, rec := newTestManager(t)
	m.LoadGridData(sampleDescription())
	rec.events = nil

	m.LoadGridData(&Description{HexSize: 1, Cells: []CellRecord{
		{Coord: hex.New(5, 5), Tags: []string{"a"}},
		{Coord: hex.New(5, 5), Tags: []string{"b", "c"}},
	}})
	if m.CellCount() != 1 || m.CellExists(hex.New(0, 0)) {
		t.Fatalf("expected previous cells discarded, got %d cells", m.CellCount())
	}
	cell := m.GetCell(hex.New(5, 5))
	if cell.HasTag("a") || !cell.HasAllTags("b", "c") {
		t.Fatalf("expected later duplicate record to replace tags, got %v", cell.Tags())
	}
	for _, e := range rec.events {
		if e.Type == EventCellRemoved {
			t.Fatalf("expected no per-cell removal events on reload")
		}
	}
	if rec.types()[len(rec.events)-1] != EventGridLoaded {
		t.Fatalf("expected grid loaded last")
	}
}

func TestUnloadGridData(t *testing.T) {
	m, rec := newTestManager(t)
	m.LoadGridData(sampleDescription())
	rec.events = nil

	m.UnloadGridData()
	if m.Loaded() || m.CellCount() != 0 || m.CurrentDescription() != nil {
		t.Fatalf("expected empty unloaded manager")
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no events on unload, got %v", rec.types())
	}
	if m.GridSystem() != hex.DefaultGridSystem() {
		t.Fatalf("expected default layout after unload")
	}

	m.LoadGridData(sampleDescription())
	m.LoadGridData(nil)
	if m.Loaded() || m.CellCount() != 0 {
		t.Fatalf("expected nil description to unload")
	}
}

func TestCreateCellDuplicateReturnsExisting(t *testing.T) {
	var buf bytes.Buffer
	bus := NewSimpleEventBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle)
	m := NewManager(WithEventBus(bus), WithLogger(log.New(&buf, "", 0)))

	first := m.CreateCell(hex.New(2, 2), "first")
	second := m.CreateCell(hex.New(2, 2), "second")
	if first != second {
		t.Fatalf("expected the original cell back")
	}
	if second.Handle() != "first" {
		t.Fatalf("expected existing cell unchanged")
	}
	if m.CellCount() != 1 || len(rec.events) != 1 {
		t.Fatalf("expected one cell and one event, got %d cells, %d events", m.CellCount(), len(rec.events))
	}
	if !strings.Contains(buf.String(), "already exists") {
		t.Fatalf("expected duplicate warning to be logged, got %q", buf.String())
	}
}

func TestRemoveCell(t *testing.T) {
	m, rec := newTestManager(t)
	cell := m.CreateCell(hex.New(0, 0), nil)
	rec.events = nil

	if m.RemoveCell(hex.New(9, 9)) {
		t.Fatalf("expected removal of missing cell to fail")
	}
	if len(rec.events) != 0 {
		t.Fatalf("expected no event for missing cell")
	}
	if !m.RemoveCell(hex.New(0, 0)) {
		t.Fatalf("expected removal to succeed")
	}
	if m.CellExists(hex.New(0, 0)) || m.GetCell(hex.New(0, 0)) != nil {
		t.Fatalf("expected cell gone")
	}
	if len(rec.events) != 1 || rec.events[0].Type != EventCellRemoved || rec.events[0].Cell != cell {
		t.Fatalf("expected one removal event carrying the cell")
	}
	if _, ok := m.TryGetCell(hex.New(0, 0)); ok {
		t.Fatalf("expected TryGetCell to miss")
	}
}

func TestRegistryKeysMatchCells(t *testing.T) {
	m := NewManager()
	for _, c := range hex.Range(hex.New(0, 0), 2) {
		m.CreateCell(c, nil)
	}
	m.RemoveCell(hex.New(1, 0))
	for _, cell := range m.GetAllCells() {
		if m.GetCell(cell.Coord()) != cell {
			t.Fatalf("registry key mismatch for %s", cell.Coord())
		}
	}
	if len(m.GetAllCells()) != 18 {
		t.Fatalf("expected 18 cells, got %d", len(m.GetAllCells()))
	}
}

func TestRangeRingAndLineQueries(t *testing.T) {
	m := NewManager()
	for _, c := range hex.Range(hex.New(0, 0), 1) {
		m.CreateCell(c, nil)
	}
	if got := m.GetCellsInRange(hex.New(0, 0), 3); len(got) != 7 {
		t.Fatalf("expected only the 7 backed cells, got %d", len(got))
	}
	if got := m.GetCellsInRange(hex.New(0, 0), 0); len(got) != 1 {
		t.Fatalf("expected center only, got %d", len(got))
	}
	if got := m.GetCellsOnRing(hex.New(0, 0), 1); len(got) != 6 {
		t.Fatalf("expected 6 ring cells, got %d", len(got))
	}
	if got := m.GetCellsOnLine(hex.New(-1, 0), hex.New(3, 0)); len(got) != 3 {
		t.Fatalf("expected 3 backed line cells, got %d", len(got))
	}
}

func TestFindCells(t *testing.T) {
	m := NewManager()
	a := m.CreateCell(hex.New(0, 0), nil)
	b := m.CreateCell(hex.New(1, 0), nil)
	c := m.CreateCell(hex.New(2, 0), nil)
	a.AddTag("red")
	a.AddTag("path")
	b.AddTag("path")
	c.AddTag("blue")

	if got := m.FindCellsWithTags("red", "path"); len(got) != 1 || got[0] != a {
		t.Fatalf("expected only a for AND query")
	}
	if got := m.FindCellsWithAnyTag("red", "blue"); len(got) != 2 {
		t.Fatalf("expected a and c for OR query, got %d", len(got))
	}
	if got := m.FindCellsWithAnyTag(); len(got) != 0 {
		t.Fatalf("expected empty OR query to match nothing")
	}
	if got := m.FindCellsWithTags(); len(got) != 3 {
		t.Fatalf("expected empty AND query to match everything")
	}

	m.PlaceItemAt(b.Coord(), NewItem("k", WithItemType("Knight")))
	m.PlaceItemAt(c.Coord(), NewItem("p"))
	if got := m.FindCellsWithItemType("Knight"); len(got) != 1 || got[0] != b {
		t.Fatalf("expected b for Knight")
	}
	if got := m.FindCellsWithItemType(DefaultItemType); len(got) != 1 || got[0] != c {
		t.Fatalf("expected c for default type")
	}
}

func TestFindNearestCellWithTag(t *testing.T) {
	m := NewManager()
	m.LoadGridData(&Description{HexSize: 1})
	far := m.CreateCell(hex.New(4, 0), nil)
	near := m.CreateCell(hex.New(-2, 0), nil)
	tie := m.CreateCell(hex.New(0, 2), nil)
	far.AddTag("goal")
	near.AddTag("goal")
	tie.AddTag("goal")

	got, ok := m.FindNearestCellWithTag(m.GetWorldPosition(hex.New(0, 0)), "goal")
	if !ok || got != near {
		t.Fatalf("expected earliest-created among nearest, got %v", got)
	}
	if _, ok := m.FindNearestCellWithTag(hex.Point{}, "none"); ok {
		t.Fatalf("expected no match for unknown tag")
	}
}

func TestPlaceAndRemoveItemEvents(t *testing.T) {
	m, rec := newTestManager(t)
	m.CreateCell(hex.New(0, 0), nil)
	rec.events = nil

	it := NewItem("a")
	if m.PlaceItemAt(hex.New(5, 5), it) {
		t.Fatalf("expected placement on missing cell to fail")
	}
	if !m.PlaceItemAt(hex.New(0, 0), it) {
		t.Fatalf("expected placement to succeed")
	}
	if m.PlaceItemAt(hex.New(0, 0), NewItem("b")) {
		t.Fatalf("expected placement on occupied cell to fail")
	}
	got, ok := m.RemoveItemFrom(hex.New(0, 0))
	if !ok || got != it {
		t.Fatalf("expected the placed item back")
	}
	if _, ok := m.RemoveItemFrom(hex.New(0, 0)); ok {
		t.Fatalf("expected nothing left to remove")
	}
	if _, ok := m.RemoveItemFrom(hex.New(7, 7)); ok {
		t.Fatalf("expected nothing from a missing cell")
	}
	types := rec.types()
	if len(types) != 2 || types[0] != EventItemPlaced || types[1] != EventItemRemoved {
		t.Fatalf("expected placed then removed, got %v", types)
	}
	if rec.events[0].Item != it || rec.events[1].Item != it {
		t.Fatalf("expected events to carry the item")
	}
}

func TestMoveItem(t *testing.T) {
	m := NewManager()
	m.CreateCell(hex.New(0, 0), nil)
	m.CreateCell(hex.New(1, 0), nil)
	it := NewItem("a")
	m.PlaceItemAt(hex.New(0, 0), it)

	if !m.MoveItem(hex.New(0, 0), hex.New(1, 0)) {
		t.Fatalf("expected move to succeed")
	}
	if m.GetCell(hex.New(0, 0)).HasItem() || m.GetCell(hex.New(1, 0)).Item() != it {
		t.Fatalf("expected item moved")
	}
	if m.MoveItem(hex.New(0, 0), hex.New(1, 0)) {
		t.Fatalf("expected move from empty cell to fail")
	}
}

func TestMoveItemToOccupiedLeavesSourceEmpty(t *testing.T) {
	m := NewManager()
	m.CreateCell(hex.New(0, 0), nil)
	m.CreateCell(hex.New(1, 0), nil)
	moving := NewItem("moving")
	blocker := NewItem("blocker")
	m.PlaceItemAt(hex.New(0, 0), moving)
	m.PlaceItemAt(hex.New(1, 0), blocker)

	if m.MoveItem(hex.New(0, 0), hex.New(1, 0)) {
		t.Fatalf("expected move onto occupied cell to fail")
	}
	if m.GetCell(hex.New(0, 0)).HasItem() {
		t.Fatalf("expected source to end up empty")
	}
	if m.GetCell(hex.New(1, 0)).Item() != blocker {
		t.Fatalf("expected destination untouched")
	}
}

func TestClearAllItems(t *testing.T) {
	m, rec := newTestManager(t)
	for i := 0; i < 4; i++ {
		m.CreateCell(hex.New(i, 0), nil)
	}
	m.PlaceItemAt(hex.New(0, 0), NewItem("a"))
	m.PlaceItemAt(hex.New(2, 0), NewItem("b"))
	rec.events = nil

	m.ClearAllItems()
	if got := m.Summary().CellsWithItems; got != 0 {
		t.Fatalf("expected no items left, got %d", got)
	}
	if len(rec.events) != 2 {
		t.Fatalf("expected one removal event per item, got %d", len(rec.events))
	}
}

func TestSummary(t *testing.T) {
	m := NewManager()
	desc := sampleDescription()
	desc.HexSize = 3
	m.LoadGridData(desc)
	m.PlaceItemAt(hex.New(0, 0), NewItem("a"))
	s := m.Summary()
	if s.Cells != 3 || s.CellsWithItems != 1 || s.HexSize != 3 || !s.Loaded {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestWorldPositionUsesActiveLayout(t *testing.T) {
	m, _ := newTestManager(t)
	if got := m.GetWorldPosition(hex.New(0, 0)); got != (hex.Point{}) {
		t.Fatalf("unloaded manager should use the default layout, got %v", got)
	}

	m.LoadGridData(&Description{HexSize: 2, Center: hex.Point{X: 10, Y: -5}})
	for _, c := range []hex.Coord{hex.New(0, 0), hex.New(3, -1), hex.New(-2, 4)} {
		world := m.GetWorldPosition(c)
		if world != m.GridSystem().HexToWorld(c) {
			t.Fatalf("expected layout position for %s, got %v", c, world)
		}
		if got := m.GetHexCoord(world); got != c {
			t.Fatalf("expected %s back from %v, got %s", c, world, got)
		}
	}
	if got := m.GetWorldPosition(hex.New(0, 0)); got != (hex.Point{X: 10, Y: -5}) {
		t.Fatalf("expected origin at center, got %v", got)
	}
}

func TestRangeQueriesLargerThanRegistry(t *testing.T) {
	m := NewManager()
	order := []hex.Coord{hex.New(2, 0), hex.New(0, 0), hex.New(-1, 1)}
	for _, c := range order {
		m.CreateCell(c, nil)
	}

	got := m.GetCellsInRange(hex.New(0, 0), 1<<40)
	if len(got) != len(order) {
		t.Fatalf("expected every cell for a huge radius, got %d", len(got))
	}
	for i, c := range got {
		if c.Coord() != order[i] {
			t.Fatalf("expected creation order %v, got %s at %d", order, c.Coord(), i)
		}
	}
	if got := m.GetCellsInRange(hex.New(0, 0), 1); len(got) != 2 {
		t.Fatalf("expected 2 cells within 1, got %d", len(got))
	}
	if got := m.GetCellsInRange(hex.New(0, 0), -1); got != nil {
		t.Fatalf("expected nil for negative radius, got %v", got)
	}

	ring := m.GetCellsOnRing(hex.New(0, 0), 2)
	if len(ring) != 1 || ring[0].Coord() != hex.New(2, 0) {
		t.Fatalf("expected (2, 0) alone on ring 2, got %v", ring)
	}
	if got := m.GetCellsOnRing(hex.New(0, 0), 1<<40); len(got) != 0 {
		t.Fatalf("expected empty huge ring, got %d", len(got))
	}
}
