package hexcore

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// TagSet is a set of string tags that remembers insertion order for
// iteration. The zero value is an empty set ready to use.
type TagSet struct {
	order   []string
	members mapset.Set[string]
}

// NewTagSet returns a set holding tags, duplicates dropped.
func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{}
	for _, tag := range tags {
		ts.Add(tag)
	}
	return ts
}

// Add inserts tag. Adding a tag already present is a no-op.
func (ts *TagSet) Add(tag string) {
	if len(ts.order) == 0 {
		ts.members = mapset.New[string]()
	}
	if ts.members.Has(tag) {
		return
	}
	ts.members.Put(tag)
	ts.order = append(ts.order, tag)
}

// Remove deletes tag. Removing an absent tag is a no-op.
func (ts *TagSet) Remove(tag string) {
	if !ts.Has(tag) {
		return
	}
	ts.members.Remove(tag)
	if i := slices.Index(ts.order, tag); i >= 0 {
		ts.order = slices.Delete(ts.order, i, i+1)
	}
}

// Has reports whether tag is in the set.
func (ts *TagSet) Has(tag string) bool {
	return len(ts.order) > 0 && ts.members.Has(tag)
}

// HasAny reports whether at least one of tags is present. It is false for
// an empty argument list.
func (ts *TagSet) HasAny(tags ...string) bool {
	for _, tag := range tags {
		if ts.Has(tag) {
			return true
		}
	}
	return false
}

// HasAll reports whether every one of tags is present. It is true for an
// empty argument list.
func (ts *TagSet) HasAll(tags ...string) bool {
	for _, tag := range tags {
		if !ts.Has(tag) {
			return false
		}
	}
	return true
}

// Len returns the number of tags.
func (ts *TagSet) Len() int { return len(ts.order) }

// Slice returns a copy of the tags in insertion order.
func (ts *TagSet) Slice() []string { return slices.Clone(ts.order) }

// Clear removes every tag.
func (ts *TagSet) Clear() {
	ts.order = nil
	ts.members = mapset.Set[string]{}
}
