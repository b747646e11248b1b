package hexcore

import (
	"fmt"
	"strings"
)

// DefaultItemType is the type of an item built without WithItemType.
const DefaultItemType = "Default"

// Item is a taggable entity that can occupy at most one cell. It holds no
// reference to the cell it is placed in.
type Item struct {
	id       string
	itemType string
	tags     TagSet
}

// ItemOption configures item construction.
type ItemOption func(*Item)

// WithItemType sets the item type. An empty type keeps DefaultItemType.
func WithItemType(itemType string) ItemOption {
	return func(it *Item) {
		if itemType != "" {
			it.itemType = itemType
		}
	}
}

// WithItemTags seeds the item's tags.
func WithItemTags(tags ...string) ItemOption {
	return func(it *Item) {
		for _, tag := range tags {
			it.tags.Add(tag)
		}
	}
}

// NewItem creates an item with a fixed identity.
func NewItem(id string, opts ...ItemOption) *Item {
	it := &Item{id: id, itemType: DefaultItemType}
	for _, opt := range opts {
		if opt != nil {
			opt(it)
		}
	}
	return it
}

// ID returns the item's identity.
func (it *Item) ID() string { return it.id }

// Type returns the item type.
func (it *Item) Type() string { return it.itemType }

// Tags returns the item's tags in insertion order.
func (it *Item) Tags() []string { return it.tags.Slice() }

func (it *Item) AddTag(tag string)              { it.tags.Add(tag) }
func (it *Item) RemoveTag(tag string)           { it.tags.Remove(tag) }
func (it *Item) HasTag(tag string) bool         { return it.tags.Has(tag) }
func (it *Item) HasAnyTag(tags ...string) bool  { return it.tags.HasAny(tags...) }
func (it *Item) HasAllTags(tags ...string) bool { return it.tags.HasAll(tags...) }

func (it *Item) String() string {
	return fmt.Sprintf("Item %s (%s) - Tags: %s", it.id, it.itemType, strings.Join(it.tags.order, ", "))
}
