package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Eggnisi/KingOfJumpChess/internal/config"
	"github.com/Eggnisi/KingOfJumpChess/internal/network"
	"github.com/Eggnisi/KingOfJumpChess/internal/palette"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
	"github.com/Eggnisi/KingOfJumpChess/pkg/models"
)

// ErrSessionFull is returned when a join would exceed the player limit
var ErrSessionFull = errors.New("session is full")

// Client receives messages from a session
type Client interface {
	SendMessage(msg *network.ServerMessage)
}

// Session shares one grid between connected players.
//
// The grid manager does no locking of its own, so every call into it goes
// through gridMu. Lock order is gridMu before mu: grid events are broadcast
// while gridMu is held.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Player management
	players map[string]*models.Player // playerID -> Player
	clients map[string]Client         // playerID -> Client
	mu      sync.RWMutex

	// Grid state
	grid   *hexcore.Manager
	view   cellView
	gridMu sync.Mutex
	sub    hexcore.SubscriptionID

	maxPlayers int
	maxRadius  int // cells_in_range limit
	maxLine    int // line length limit, in steps
}

// NewSession creates a session around grid and subscribes to its events
func NewSession(id string, cfg *config.Config, grid *hexcore.Manager, vocab *palette.Vocabulary) *Session {
	log.Printf("Creating session: %s", id)

	s := &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		players:    make(map[string]*models.Player),
		clients:    make(map[string]Client),
		grid:       grid,
		view:       cellView{grid: grid, vocab: vocab},
		maxPlayers: cfg.Session.MaxPlayers,
		maxRadius:  cfg.Grid.MaxQueryRadius,
		maxLine:    cfg.Grid.MaxLineLength,
	}
	if s.maxRadius <= 0 {
		s.maxRadius = config.DefaultQueryRadius
	}
	if s.maxLine <= 0 {
		s.maxLine = config.DefaultLineLength
	}
	s.sub = grid.Events().Subscribe(s.onGridEvent)

	log.Printf("Session %s created with %d cells", id, grid.CellCount())
	return s
}

// Close stops relaying grid events
func (s *Session) Close() {
	s.grid.Events().Unsubscribe(s.sub)
}

// AddPlayer adds a player to the session
func (s *Session) AddPlayer(player *models.Player, client Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[player.ID]; !exists && len(s.players) >= s.maxPlayers {
		return ErrSessionFull
	}
	s.players[player.ID] = player
	s.clients[player.ID] = client

	log.Printf("Player %s (%s) joined session %s", player.Username, player.ID, s.ID)
	return nil
}

// RemovePlayer removes a player from the session
func (s *Session) RemovePlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, exists := s.players[playerID]; exists {
		log.Printf("Player %s (%s) left session %s", player.Username, playerID, s.ID)
		delete(s.players, playerID)
		delete(s.clients, playerID)
	}
}

// BroadcastMessage sends a message to all joined players
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.BroadcastExcept(nil, msg)
}

// BroadcastExcept sends a message to all players except the specified client
func (s *Session) BroadcastExcept(exclude Client, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		if client != exclude {
			client.SendMessage(msg)
		}
	}
}

// GetStatus returns the current session status
func (s *Session) GetStatus() network.SessionStatus {
	s.gridMu.Lock()
	summary := s.grid.Summary()
	s.gridMu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	state := "empty"
	if summary.Loaded {
		state = "running"
	}
	return network.SessionStatus{
		State:       state,
		PlayerCount: len(s.players),
		MaxPlayers:  s.maxPlayers,
		CellCount:   summary.Cells,
		ItemCount:   summary.CellsWithItems,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
	}
}

// LoadGrid replaces the session's grid; clients get one grid_loaded event
func (s *Session) LoadGrid(desc *hexcore.Description) {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()
	s.grid.LoadGridData(desc)
}

// Snapshot returns the whole grid in wire form
func (s *Session) Snapshot() network.GridSnapshotPayload {
	s.gridMu.Lock()
	defer s.gridMu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() network.GridSnapshotPayload {
	g := s.grid.GridSystem()
	snap := network.GridSnapshotPayload{
		Loaded:  s.grid.Loaded(),
		HexSize: g.HexSize(),
		Center:  toPoint(g.Center()),
		Cells:   s.view.cells(s.grid.GetAllCells()),
	}
	if desc := s.grid.CurrentDescription(); desc != nil {
		snap.Name = desc.Name
	}
	return snap
}

// onGridEvent relays manager events to every joined client. It runs inside
// the mutating call, with gridMu held.
func (s *Session) onGridEvent(e hexcore.Event) {
	payload := network.GridEventPayload{
		Event: eventName(e.Type),
		Cell:  s.view.cell(e.Cell),
		Item:  toItem(e.Item),
	}
	if e.Description != nil {
		payload.Name = e.Description.Name
	}
	s.BroadcastMessage(&network.ServerMessage{Type: network.MsgTypeGridEvent, Payload: payload})
}

// broadcastTagged announces a tag edit; the manager publishes no event for
// those.
func (s *Session) broadcastTagged(cell *hexcore.Cell) {
	s.BroadcastMessage(&network.ServerMessage{
		Type:    network.MsgTypeGridEvent,
		Payload: network.GridEventPayload{Event: network.EventCellTagged, Cell: s.view.cell(cell)},
	})
}

// Handle answers a grid query or applies a grid mutation for player. The
// reply goes to the caller only; resulting grid events are broadcast.
func (s *Session) Handle(player *models.Player, msg *network.ClientMessage) *network.ServerMessage {
	if perm, ok := requiredPermission[msg.Type]; ok && !player.Can(perm) {
		return errorMessage("forbidden", "Missing permission for "+msg.Type)
	}

	s.gridMu.Lock()
	defer s.gridMu.Unlock()

	switch msg.Type {
	case network.MsgTypeSnapshot:
		return &network.ServerMessage{Type: network.MsgTypeGridSnapshot, Payload: s.snapshotLocked()}

	case network.MsgTypeGetCell:
		var p network.CoordPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		cell, ok := s.grid.TryGetCell(fromCoord(p.Coord))
		return &network.ServerMessage{Type: network.MsgTypeCell, Payload: network.CellPayload{Found: ok, Cell: s.view.cell(cell)}}

	case network.MsgTypeCellsInRange:
		var p network.RangePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		if p.Radius < 0 || p.Radius > s.maxRadius {
			return invalidPayload(msg.Type, fmt.Errorf("radius %d outside 0..%d", p.Radius, s.maxRadius))
		}
		return s.cellsReply(msg.Type, s.grid.GetCellsInRange(fromCoord(p.Center), p.Radius))

	case network.MsgTypeNeighbors:
		var p network.CoordPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		return s.cellsReply(msg.Type, s.grid.GetNeighbors(fromCoord(p.Coord)))

	case network.MsgTypeFindCells:
		var p network.FindCellsPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		switch {
		case p.ItemType != "":
			return s.cellsReply(msg.Type, s.grid.FindCellsWithItemType(p.ItemType))
		case p.Any:
			return s.cellsReply(msg.Type, s.grid.FindCellsWithAnyTag(p.Tags...))
		default:
			return s.cellsReply(msg.Type, s.grid.FindCellsWithTags(p.Tags...))
		}

	case network.MsgTypeNearest:
		var p network.NearestPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		cell, ok := s.grid.FindNearestCellWithTag(fromPoint(p.Position), p.Tag)
		return &network.ServerMessage{Type: network.MsgTypeCell, Payload: network.CellPayload{Found: ok, Cell: s.view.cell(cell)}}

	case network.MsgTypeLine:
		var p network.LinePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		from, to := fromCoord(p.From), fromCoord(p.To)
		if !withinSteps(from, to, s.maxLine) {
			return invalidPayload(msg.Type, fmt.Errorf("line longer than %d steps", s.maxLine))
		}
		line := s.grid.GridSystem().Line(from, to)
		return &network.ServerMessage{Type: network.MsgTypeCoords, Payload: network.CoordsPayload{Query: msg.Type, Coords: toCoords(line)}}

	case network.MsgTypeLocate:
		var p network.LocatePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		g := s.grid.GridSystem()
		coord, offset := g.WorldToHexWithRelative(fromPoint(p.Position))
		return locationReply(coord, g.HexToWorld(coord), offset)

	case network.MsgTypePosition:
		var p network.CoordPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		coord := fromCoord(p.Coord)
		return locationReply(coord, s.grid.GetWorldPosition(coord), hex.Point{})

	case network.MsgTypeCreateCell:
		var p network.CreateCellPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		coord := fromCoord(p.Coord)
		if s.grid.CellExists(coord) {
			return resultReply(msg.Type, false, s.view.cell(s.grid.GetCell(coord)), nil)
		}
		handle := TileFactory.Instantiate(p.Template, s.grid.GetWorldPosition(coord))
		cell := s.grid.CreateCell(coord, handle)
		if len(p.Tags) > 0 {
			for _, tag := range p.Tags {
				cell.AddTag(tag)
			}
			s.broadcastTagged(cell)
		}
		return resultReply(msg.Type, true, s.view.cell(cell), nil)

	case network.MsgTypeRemoveCell:
		var p network.CoordPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		return resultReply(msg.Type, s.grid.RemoveCell(fromCoord(p.Coord)), nil, nil)

	case network.MsgTypeTagCell:
		var p network.TagCellPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		cell, ok := s.grid.TryGetCell(fromCoord(p.Coord))
		if !ok {
			return resultReply(msg.Type, false, nil, nil)
		}
		for _, tag := range p.Add {
			cell.AddTag(tag)
		}
		for _, tag := range p.Remove {
			cell.RemoveTag(tag)
		}
		s.broadcastTagged(cell)
		return resultReply(msg.Type, true, s.view.cell(cell), nil)

	case network.MsgTypePlaceItem:
		var p network.PlaceItemPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		id := p.ItemID
		if id == "" {
			id = uuid.NewString()
		}
		item := hexcore.NewItem(id, hexcore.WithItemType(p.ItemType), hexcore.WithItemTags(p.Tags...))
		coord := fromCoord(p.Coord)
		ok := s.grid.PlaceItemAt(coord, item)
		return resultReply(msg.Type, ok, s.view.cell(s.grid.GetCell(coord)), toItem(item))

	case network.MsgTypeRemoveItem:
		var p network.CoordPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		coord := fromCoord(p.Coord)
		item, ok := s.grid.RemoveItemFrom(coord)
		return resultReply(msg.Type, ok, s.view.cell(s.grid.GetCell(coord)), toItem(item))

	case network.MsgTypeMoveItem:
		var p network.MoveItemPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return invalidPayload(msg.Type, err)
		}
		ok := s.grid.MoveItem(fromCoord(p.From), fromCoord(p.To))
		return resultReply(msg.Type, ok, s.view.cell(s.grid.GetCell(fromCoord(p.To))), nil)

	case network.MsgTypeClearItems:
		s.grid.ClearAllItems()
		return resultReply(msg.Type, true, nil, nil)

	default:
		return errorMessage("unknown_message_type", "Unknown message type")
	}
}

// requiredPermission lists the mutations and the flag each needs
var requiredPermission = map[string]int64{
	network.MsgTypeCreateCell: models.PermEditGrid,
	network.MsgTypeRemoveCell: models.PermEditGrid,
	network.MsgTypeTagCell:    models.PermEditGrid,
	network.MsgTypePlaceItem:  models.PermMoveItems,
	network.MsgTypeRemoveItem: models.PermMoveItems,
	network.MsgTypeMoveItem:   models.PermMoveItems,
	network.MsgTypeClearItems: models.PermMoveItems,
}

func (s *Session) cellsReply(query string, cells []*hexcore.Cell) *network.ServerMessage {
	return &network.ServerMessage{Type: network.MsgTypeCells, Payload: network.CellsPayload{Query: query, Cells: s.view.cells(cells)}}
}

func locationReply(c hex.Coord, world, offset hex.Point) *network.ServerMessage {
	return &network.ServerMessage{
		Type: network.MsgTypeLocation,
		Payload: network.LocationPayload{
			Coord:  toCoord(c),
			World:  toPoint(world),
			Offset: toPoint(offset),
		},
	}
}

func resultReply(op string, ok bool, cell *network.Cell, item *network.Item) *network.ServerMessage {
	return &network.ServerMessage{
		Type:    network.MsgTypeResult,
		Payload: network.ResultPayload{Op: op, OK: ok, Cell: cell, Item: item},
	}
}

func errorMessage(code, message string) *network.ServerMessage {
	return &network.ServerMessage{
		Type:    network.MsgTypeError,
		Payload: network.ErrorPayload{Code: code, Message: message},
	}
}

func invalidPayload(op string, err error) *network.ServerMessage {
	log.Printf("Invalid %s payload: %v", op, err)
	return errorMessage("invalid_payload", "Invalid "+op+" payload")
}

// withinSteps reports whether b is at most n steps from a. Each axis is
// checked first so coordinates near the int limits cannot overflow the
// distance sum.
func withinSteps(a, b hex.Coord, n int) bool {
	for _, d := range [...][2]int{{a.Q(), b.Q()}, {a.R(), b.R()}, {a.S(), b.S()}} {
		if d[0] > d[1]+n || d[1] > d[0]+n {
			return false
		}
	}
	return a.DistanceTo(b) <= n
}
