// Package palette maps cell tags to display colors. The core treats tags as
// opaque strings; this vocabulary is what presentation clients use to turn
// them into colors.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// Vocabulary resolves tag strings to colors.
type Vocabulary struct {
	colors map[string]color.RGBA
}

// terrainColors covers tags the grid generator emits that are not SVG
// color names.
var terrainColors = map[string]color.RGBA{
	"water":    colornames.Steelblue,
	"plains":   colornames.Yellowgreen,
	"forest":   colornames.Forestgreen,
	"mountain": colornames.Slategray,
	"start":    colornames.Gold,
}

// Default returns a vocabulary knowing every SVG 1.1 color name plus the
// generator's terrain tags.
func Default() *Vocabulary {
	v := &Vocabulary{colors: make(map[string]color.RGBA, len(colornames.Map)+len(terrainColors))}
	for name, c := range colornames.Map {
		v.colors[name] = c
	}
	for name, c := range terrainColors {
		v.colors[name] = c
	}
	return v
}

// Set binds tag to c, replacing any previous binding.
func (v *Vocabulary) Set(tag string, c color.RGBA) {
	v.colors[strings.ToLower(tag)] = c
}

// Lookup returns the color bound to tag. Matching ignores case.
func (v *Vocabulary) Lookup(tag string) (color.RGBA, bool) {
	c, ok := v.colors[strings.ToLower(tag)]
	return c, ok
}

// ColorFor returns the color of the last tag in tags that has one.
func (v *Vocabulary) ColorFor(tags []string) (color.RGBA, bool) {
	var res color.RGBA
	found := false
	for _, tag := range tags {
		if c, ok := v.Lookup(tag); ok {
			res, found = c, true
		}
	}
	return res, found
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
