package gamemap

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore"
	"github.com/Eggnisi/KingOfJumpChess/pkg/hexcore/hex"
)

var (
	// ErrDuplicateCell is returned when two records in a file share a
	// coordinate.
	ErrDuplicateCell = errors.New("duplicate cell coordinate")
	// ErrUnknownTemplate is returned when a record names a template the file
	// does not declare.
	ErrUnknownTemplate = errors.New("unknown cell template")
)

// fileFormat is the on-disk YAML layout of a grid description.
type fileFormat struct {
	Name      string         `yaml:"name"`
	HexSize   float64        `yaml:"hex_size"`
	Center    pointRecord    `yaml:"center"`
	Templates []templateSpec `yaml:"templates"`
	Cells     []cellSpec     `yaml:"cells"`
}

type pointRecord struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// templateSpec declares default tags shared by every cell using it.
type templateSpec struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
}

type cellSpec struct {
	Q        int      `yaml:"q"`
	R        int      `yaml:"r"`
	Template string   `yaml:"template"`
	Tags     []string `yaml:"tags"`
}

// FileProvider is a DescriptionProvider reading a YAML file.
type FileProvider struct {
	Path string
}

// Description implements hexcore.DescriptionProvider.
func (p FileProvider) Description() (*hexcore.Description, error) {
	return LoadFile(p.Path)
}

// LoadFile reads a grid description from a YAML file.
func LoadFile(path string) (*hexcore.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}
	desc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid file %s: %w", path, err)
	}
	return desc, nil
}

// Parse decodes a YAML grid description. A record's tags are its
// template's tags followed by its own. Template names are only checked when
// the file declares templates; otherwise they pass through as presentation
// names. A missing hex_size defaults to 1.
func Parse(data []byte) (*hexcore.Description, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.HexSize == 0 {
		f.HexSize = 1
	}

	templates := make(map[string][]string, len(f.Templates))
	for _, t := range f.Templates {
		templates[t.Name] = t.Tags
	}

	desc := &hexcore.Description{
		Name:    f.Name,
		HexSize: f.HexSize,
		Center:  hex.Point{X: f.Center.X, Y: f.Center.Y},
		Cells:   make([]hexcore.CellRecord, 0, len(f.Cells)),
	}
	for _, c := range f.Cells {
		coord := hex.New(c.Q, c.R)
		var tags []string
		if c.Template != "" {
			base, ok := templates[c.Template]
			if !ok && len(templates) > 0 {
				return nil, fmt.Errorf("%w: %q at %s", ErrUnknownTemplate, c.Template, coord)
			}
			tags = append(tags, base...)
		}
		tags = append(tags, c.Tags...)
		if !desc.AddCell(hexcore.CellRecord{Coord: coord, Template: c.Template, Tags: tags}) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCell, coord)
		}
	}
	return desc, nil
}

// Marshal encodes desc in the file format read by Parse.
func Marshal(desc *hexcore.Description) ([]byte, error) {
	f := fileFormat{
		Name:    desc.Name,
		HexSize: desc.HexSize,
		Center:  pointRecord{X: desc.Center.X, Y: desc.Center.Y},
		Cells:   make([]cellSpec, 0, len(desc.Cells)),
	}
	for _, rec := range desc.Cells {
		f.Cells = append(f.Cells, cellSpec{Q: rec.Coord.Q(), R: rec.Coord.R(), Template: rec.Template, Tags: rec.Tags})
	}
	return yaml.Marshal(f)
}
