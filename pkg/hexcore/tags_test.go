package hexcore

import (
	"slices"
	"testing"
)

func TestTagSetIdempotentAndOrdered(t *testing.T) {
	var ts TagSet
	if ts.Has("a") || ts.Len() != 0 {
		t.Fatalf("expected zero value to be empty")
	}
	ts.Add("b")
	ts.Add("a")
	ts.Add("b")
	ts.Add("c")
	if got := ts.Slice(); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Fatalf("expected [b a c], got %v", got)
	}
	ts.Remove("a")
	ts.Remove("missing")
	if got := ts.Slice(); !slices.Equal(got, []string{"b", "c"}) {
		t.Fatalf("expected [b c] after remove, got %v", got)
	}
	ts.Clear()
	if ts.Len() != 0 || ts.Has("b") {
		t.Fatalf("expected empty set after clear")
	}
	ts.Add("d")
	if !ts.Has("d") || ts.Len() != 1 {
		t.Fatalf("expected set usable after clear")
	}
}

func TestTagSetAnyAll(t *testing.T) {
	ts := NewTagSet("red", "path", "red")
	if ts.Len() != 2 {
		t.Fatalf("expected duplicates dropped, got %d tags", ts.Len())
	}
	if !ts.HasAll("red", "path") || ts.HasAll("red", "start") {
		t.Fatalf("unexpected HasAll result")
	}
	if !ts.HasAny("start", "path") || ts.HasAny("start", "blue") {
		t.Fatalf("unexpected HasAny result")
	}
	if !ts.HasAll() {
		t.Fatalf("expected HasAll with no tags to be true")
	}
	if ts.HasAny() {
		t.Fatalf("expected HasAny with no tags to be false")
	}
}

func TestTagSetSliceIsCopy(t *testing.T) {
	ts := NewTagSet("x", "y")
	s := ts.Slice()
	s[0] = "z"
	if ts.Has("z") || !ts.Has("x") {
		t.Fatalf("mutating the returned slice changed the set")
	}
}
