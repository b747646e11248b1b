// Command gridgen writes a generated grid description as YAML, ready to be
// served with grid.description_path.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/Eggnisi/KingOfJumpChess/internal/gamemap"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

func main() {
	var (
		name     = flag.String("name", "generated", "grid name")
		radius   = flag.Int("radius", 5, "hexes from the origin")
		seed     = flag.Int64("seed", 1, "noise seed")
		size     = flag.Float64("size", 1, "hex size in world units")
		centerX  = flag.Float64("cx", 0, "world x of hex (0, 0)")
		centerY  = flag.Float64("cy", 0, "world y of hex (0, 0)")
		template = flag.String("template", gamemap.DefaultTemplate, "cell template")
		out      = flag.String("o", "", "output file (default stdout)")
	)
	flag.Parse()

	desc := gamemap.Generate(gamemap.GenConfig{
		Name:     *name,
		Radius:   *radius,
		Seed:     *seed,
		HexSize:  *size,
		Center:   hex.Point{X: *centerX, Y: *centerY},
		Template: *template,
	})

	data, err := gamemap.Marshal(desc)
	if err != nil {
		log.Fatalf("Failed to encode grid: %v", err)
	}

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %d cells to %s", desc.Len(), *out)
}
