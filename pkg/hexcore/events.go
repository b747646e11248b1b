package hexcore

import "sync"

// EventType represents the kind of grid change being reported.
type EventType int

const (
	// EventGridLoaded is emitted once after a whole description is loaded.
	EventGridLoaded EventType = iota
	// EventCellCreated is emitted when a new cell enters the registry.
	EventCellCreated
	// EventCellRemoved is emitted when RemoveCell drops a cell.
	EventCellRemoved
	// EventItemPlaced is emitted when an item is placed into a cell.
	EventItemPlaced
	// EventItemRemoved is emitted when an item is taken out of a cell.
	EventItemRemoved
)

// String returns a human-readable representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventGridLoaded:
		return "GridLoaded"
	case EventCellCreated:
		return "CellCreated"
	case EventCellRemoved:
		return "CellRemoved"
	case EventItemPlaced:
		return "ItemPlaced"
	case EventItemRemoved:
		return "ItemRemoved"
	default:
		return "Unknown"
	}
}

// Event describes one grid change. Cell is set for cell and item events,
// Item for item events, Description for EventGridLoaded.
type Event struct {
	Type        EventType
	Cell        *Cell
	Item        *Item
	Description *Description
}

// SubscriptionID identifies a registered handler.
type SubscriptionID uint64

// EventBus manages event subscriptions and delivery.
type EventBus interface {
	// Subscribe registers a handler and returns its id.
	Subscribe(handler func(Event)) SubscriptionID

	// Unsubscribe removes a handler. Unknown ids are ignored.
	Unsubscribe(id SubscriptionID)

	// Publish delivers an event to every handler before returning.
	Publish(event Event)
}

type subscription struct {
	id      SubscriptionID
	handler func(Event)
}

// SimpleEventBus delivers events synchronously, on the publishing
// goroutine, to handlers in subscription order.
type SimpleEventBus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID SubscriptionID
}

// NewSimpleEventBus creates an empty bus.
func NewSimpleEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe registers a handler. A nil handler is ignored and gets id 0.
func (bus *SimpleEventBus) Subscribe(handler func(Event)) SubscriptionID {
	if handler == nil {
		return 0
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.nextID++
	bus.subs = append(bus.subs, subscription{id: bus.nextID, handler: handler})
	return bus.nextID
}

// Unsubscribe removes the handler registered under id.
func (bus *SimpleEventBus) Unsubscribe(id SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.subs {
		if s.id == id {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler in turn. Handlers may subscribe or
// unsubscribe while being called; changes apply from the next event.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := bus.subs
	bus.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// NullEventBus drops every event.
type NullEventBus struct{}

// NewNullEventBus creates a new null event bus.
func NewNullEventBus() *NullEventBus {
	return &NullEventBus{}
}

// Subscribe does nothing.
func (bus *NullEventBus) Subscribe(handler func(Event)) SubscriptionID { return 0 }

// Unsubscribe does nothing.
func (bus *NullEventBus) Unsubscribe(id SubscriptionID) {}

// Publish does nothing.
func (bus *NullEventBus) Publish(event Event) {}
