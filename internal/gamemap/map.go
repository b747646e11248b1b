package gamemap

import (
	"log"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

// Terrain tags assigned by the generator.
const (
	TagWater    = "water"
	TagPlains   = "plains"
	TagForest   = "forest"
	TagMountain = "mountain"
	TagStart    = "start"
)

// DefaultTemplate is the presentation template generated cells use.
const DefaultTemplate = "normal"

// GenConfig controls procedural grid generation.
type GenConfig struct {
	Name     string
	Radius   int // hexes from the origin
	Seed     int64
	HexSize  float64
	Center   hex.Point
	Template string
}

// Generator is a DescriptionProvider producing a hexagon-shaped grid with
// terrain tags sampled from simplex noise.
type Generator struct {
	Config GenConfig
}

// Description implements hexcore.DescriptionProvider.
func (g Generator) Description() (*hexcore.Description, error) {
	return Generate(g.Config), nil
}

// Generate builds a description with one record per hex within cfg.Radius
// of the origin. The same seed always yields the same description.
func Generate(cfg GenConfig) *hexcore.Description {
	log.Printf("Generating grid with radius %d (seed %d)", cfg.Radius, cfg.Seed)

	template := cfg.Template
	if template == "" {
		template = DefaultTemplate
	}
	noise := opensimplex.NewNormalized(cfg.Seed)

	coords := hex.Range(hex.New(0, 0), cfg.Radius)
	desc := &hexcore.Description{
		Name:    cfg.Name,
		HexSize: cfg.HexSize,
		Center:  cfg.Center,
		Cells:   make([]hexcore.CellRecord, 0, len(coords)),
	}
	// Range never repeats a coordinate, so records skip AddCell's duplicate scan
	for _, coord := range coords {
		// Sample in unit-size layout space so the terrain does not depend on
		// the configured hex size.
		x := float64(coord.Q()) + float64(coord.R())*0.5
		y := float64(coord.R()) * math.Sqrt(3) / 2

		tags := []string{terrainFor(octaveNoise(noise, x, y, 3, 0.12, 0.5))}
		if coord == hex.New(0, 0) {
			tags = append(tags, TagStart)
		}
		desc.Cells = append(desc.Cells, hexcore.CellRecord{Coord: coord, Template: template, Tags: tags})
	}

	log.Printf("Generated %d cells", desc.Len())
	return desc
}

func terrainFor(v float64) string {
	switch {
	case v < 0.3:
		return TagWater
	case v < 0.55:
		return TagPlains
	case v < 0.7:
		return TagForest
	default:
		return TagMountain
	}
}

// octaveNoise layers several frequencies of noise into one value in [0,1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
