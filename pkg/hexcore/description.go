package hexcore

import (
	"slices"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

// CellRecord seeds one cell when a description is loaded.
type CellRecord struct {
	Coord    hex.Coord
	Template string
	Tags     []string
}

// Description is a declarative grid: layout config plus an ordered list of
// cell records. The manager reads it during load and does not keep the
// records afterwards.
type Description struct {
	Name    string
	HexSize float64
	Center  hex.Point
	Cells   []CellRecord
}

// DescriptionProvider supplies grid descriptions to load.
type DescriptionProvider interface {
	Description() (*Description, error)
}

// GridSystem returns the layout described by d.
func (d *Description) GridSystem() hex.GridSystem {
	return hex.NewGridSystem(d.HexSize, d.Center)
}

// AddCell appends rec unless a record already exists at its coordinate.
func (d *Description) AddCell(rec CellRecord) bool {
	if _, ok := d.Record(rec.Coord); ok {
		return false
	}
	d.Cells = append(d.Cells, rec)
	return true
}

// RemoveCell drops the record at coord.
func (d *Description) RemoveCell(coord hex.Coord) bool {
	i := d.index(coord)
	if i < 0 {
		return false
	}
	d.Cells = slices.Delete(d.Cells, i, i+1)
	return true
}

// Record returns the record at coord.
func (d *Description) Record(coord hex.Coord) (CellRecord, bool) {
	i := d.index(coord)
	if i < 0 {
		return CellRecord{}, false
	}
	return d.Cells[i], true
}

// RecordsInRange returns records within radius of center, in record order.
func (d *Description) RecordsInRange(center hex.Coord, radius int) []CellRecord {
	var res []CellRecord
	for _, rec := range d.Cells {
		if center.DistanceTo(rec.Coord) <= radius {
			res = append(res, rec)
		}
	}
	return res
}

// RecordsWithTags returns records carrying every one of tags.
func (d *Description) RecordsWithTags(tags ...string) []CellRecord {
	var res []CellRecord
	for _, rec := range d.Cells {
		if NewTagSet(rec.Tags...).HasAll(tags...) {
			res = append(res, rec)
		}
	}
	return res
}

// Len returns the number of records.
func (d *Description) Len() int { return len(d.Cells) }

func (d *Description) index(coord hex.Coord) int {
	return slices.IndexFunc(d.Cells, func(rec CellRecord) bool { return rec.Coord == coord })
}
