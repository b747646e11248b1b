package gamemap

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

const sampleGrid = `
name: demo
hex_size: 1.5
center: {x: 2, y: -1}
templates:
  - name: normal
    tags: [plains]
  - name: lava
    tags: [red, hazard]
cells:
  - {q: 0, r: 0, template: normal, tags: [start]}
  - {q: 1, r: 0, template: normal, tags: [path]}
  - {q: 0, r: 1, template: lava}
`

func TestParse(t *testing.T) {
	desc, err := Parse([]byte(sampleGrid))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if desc.Name != "demo" || desc.HexSize != 1.5 || desc.Center != (hex.Point{X: 2, Y: -1}) {
		t.Fatalf("unexpected header %+v", desc)
	}
	if desc.Len() != 3 {
		t.Fatalf("expected 3 cells, got %d", desc.Len())
	}
	start, _ := desc.Record(hex.New(0, 0))
	if !slices.Equal(start.Tags, []string{"plains", "start"}) {
		t.Fatalf("expected template tags first, got %v", start.Tags)
	}
	lava, _ := desc.Record(hex.New(0, 1))
	if lava.Template != "lava" || !slices.Equal(lava.Tags, []string{"red", "hazard"}) {
		t.Fatalf("unexpected lava record %+v", lava)
	}
}

func TestParseErrors(t *testing.T) {
	dup := "cells:\n  - {q: 1, r: 1}\n  - {q: 1, r: 1}\n"
	if _, err := Parse([]byte(dup)); !errors.Is(err, ErrDuplicateCell) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	unknown := "templates:\n  - name: a\ncells:\n  - {q: 0, r: 0, template: b}\n"
	if _, err := Parse([]byte(unknown)); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected unknown template error, got %v", err)
	}
	if _, err := Parse([]byte("cells: [")); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestParseDefaults(t *testing.T) {
	desc, err := Parse([]byte("cells:\n  - {q: 2, r: -1, template: prefab}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.HexSize != 1 {
		t.Fatalf("expected default hex size 1, got %v", desc.HexSize)
	}
	if rec, ok := desc.Record(hex.New(2, -1)); !ok || rec.Template != "prefab" {
		t.Fatalf("expected undeclared template to pass through")
	}
}

func TestFileProviderAndMarshal(t *testing.T) {
	generated := Generate(GenConfig{Name: "roundtrip", Radius: 2, Seed: 3, HexSize: 1.25})
	data, err := Marshal(generated)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "grid.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}

	desc, err := FileProvider{Path: path}.Description()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if desc.Len() != generated.Len() || desc.HexSize != 1.25 || desc.Name != "roundtrip" {
		t.Fatalf("unexpected description after reload: %+v", desc)
	}
	for i, rec := range generated.Cells {
		if desc.Cells[i].Coord != rec.Coord || !slices.Equal(desc.Cells[i].Tags, rec.Tags) {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, desc.Cells[i], rec)
		}
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
