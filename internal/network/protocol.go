package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeJoin  = "join"
	MsgTypeLeave = "leave"
	MsgTypePing  = "ping"

	// Queries
	MsgTypeSnapshot     = "snapshot"
	MsgTypeGetCell      = "get_cell"
	MsgTypeCellsInRange = "cells_in_range"
	MsgTypeNeighbors    = "neighbors"
	MsgTypeFindCells    = "find_cells"
	MsgTypeNearest      = "nearest"
	MsgTypeLine         = "line"
	MsgTypeLocate       = "locate"
	MsgTypePosition     = "position"

	// Mutations
	MsgTypeCreateCell = "create_cell"
	MsgTypeRemoveCell = "remove_cell"
	MsgTypeTagCell    = "tag_cell"
	MsgTypePlaceItem  = "place_item"
	MsgTypeRemoveItem = "remove_item"
	MsgTypeMoveItem   = "move_item"
	MsgTypeClearItems = "clear_items"
)

// Message types - Server → Client
const (
	MsgTypeWelcome       = "welcome"
	MsgTypePlayerJoined  = "player_joined"
	MsgTypePlayerLeft    = "player_left"
	MsgTypeSessionStatus = "session_status"
	MsgTypeGridSnapshot  = "grid_snapshot"
	MsgTypeCell          = "cell"
	MsgTypeCells         = "cells"
	MsgTypeCoords        = "coords"
	MsgTypeLocation      = "location"
	MsgTypeResult        = "result"
	MsgTypeGridEvent     = "grid_event"
	MsgTypeError         = "error"
	MsgTypePong          = "pong"
)

// Grid event names carried in GridEventPayload.Event
const (
	EventGridLoaded  = "grid_loaded"
	EventCellCreated = "cell_created"
	EventCellRemoved = "cell_removed"
	EventItemPlaced  = "item_placed"
	EventItemRemoved = "item_removed"
	EventCellTagged  = "cell_tagged" // sent by the session after a tag edit
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Shared shapes ---

// Coord is an axial hex coordinate
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Point is a world-space position
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Item describes an item placed in a cell
type Item struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Tags []string `json:"tags"`
}

// Cell describes one grid cell as seen by clients
type Cell struct {
	Coord    Coord    `json:"coord"`
	World    Point    `json:"world"`
	Template string   `json:"template,omitempty"`
	Tags     []string `json:"tags"`
	Color    string   `json:"color,omitempty"` // #rrggbb from the tag vocabulary
	Item     *Item    `json:"item,omitempty"`
}

// --- Client Message Payloads ---

// CoordPayload addresses a single cell
type CoordPayload struct {
	Coord
}

// RangePayload asks for cells within Radius of a center
type RangePayload struct {
	Center Coord `json:"center"`
	Radius int   `json:"radius"`
}

// FindCellsPayload filters cells by tags or item type. With Any set, a cell
// matches when it has at least one of Tags; otherwise it needs all of them.
// A non-empty ItemType takes precedence over Tags.
type FindCellsPayload struct {
	Tags     []string `json:"tags"`
	Any      bool     `json:"any"`
	ItemType string   `json:"item_type,omitempty"`
}

// NearestPayload asks for the closest cell with Tag to a world position
type NearestPayload struct {
	Position Point  `json:"position"`
	Tag      string `json:"tag"`
}

// LinePayload asks for the coordinates between two cells
type LinePayload struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

// LocatePayload converts a world position to a coordinate
type LocatePayload struct {
	Position Point `json:"position"`
}

// CreateCellPayload adds a cell
type CreateCellPayload struct {
	Coord    Coord    `json:"coord"`
	Template string   `json:"template,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// TagCellPayload edits a cell's tags
type TagCellPayload struct {
	Coord  Coord    `json:"coord"`
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// PlaceItemPayload places a new item. An empty ItemID gets a generated one.
type PlaceItemPayload struct {
	Coord    Coord    `json:"coord"`
	ItemID   string   `json:"item_id,omitempty"`
	ItemType string   `json:"item_type,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// MoveItemPayload moves an item between cells
type MoveItemPayload struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after joining the session
type WelcomePayload struct {
	PlayerID      string        `json:"player_id"`
	Username      string        `json:"username"`
	SessionID     string        `json:"session_id"`
	SessionStatus SessionStatus `json:"session_status"`
}

// PlayerJoinedPayload notifies clients when a player joins
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// PlayerLeftPayload notifies clients when a player leaves
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// GridSnapshotPayload carries the whole grid
type GridSnapshotPayload struct {
	Name    string  `json:"name"`
	Loaded  bool    `json:"loaded"`
	HexSize float64 `json:"hex_size"`
	Center  Point   `json:"center"`
	Cells   []Cell  `json:"cells"`
}

// CellPayload answers a single-cell query
type CellPayload struct {
	Found bool  `json:"found"`
	Cell  *Cell `json:"cell,omitempty"`
}

// CellsPayload answers a multi-cell query
type CellsPayload struct {
	Query string `json:"query"`
	Cells []Cell `json:"cells"`
}

// CoordsPayload answers a coordinate query such as line
type CoordsPayload struct {
	Query  string  `json:"query"`
	Coords []Coord `json:"coords"`
}

// LocationPayload answers locate and position
type LocationPayload struct {
	Coord  Coord `json:"coord"`
	World  Point `json:"world"`
	Offset Point `json:"offset"`
}

// ResultPayload reports the outcome of a mutation
type ResultPayload struct {
	Op   string `json:"op"`
	OK   bool   `json:"ok"`
	Cell *Cell  `json:"cell,omitempty"`
	Item *Item  `json:"item,omitempty"`
}

// GridEventPayload is broadcast whenever the grid changes
type GridEventPayload struct {
	Event string `json:"event"`
	Cell  *Cell  `json:"cell,omitempty"`
	Item  *Item  `json:"item,omitempty"`
	Name  string `json:"name,omitempty"` // grid name for grid_loaded
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State       string `json:"state"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	CellCount   int    `json:"cell_count"`
	ItemCount   int    `json:"item_count"`
	Uptime      int64  `json:"uptime"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
