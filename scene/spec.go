// Package scene describes planning scenes in YAML: grid geometry, static
// obstacle shapes, tile maps, an optional obstacle script and the follower and
// target positions.
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/milk9111/gridpath/common"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownShape = errors.New("scene: unknown shape kind")
	ErrUnknownLayer = errors.New("scene: unknown layer")
)

const (
	DefaultObstacleLayer = "obstacle"
	DefaultIgnoreLayer   = "ignore"
	DefaultCellRadius    = 0.5
)

// Spec is the YAML description of a planning scene.
type Spec struct {
	Name     string         `yaml:"name"`
	Grid     GridSpec       `yaml:"grid"`
	Layers   []string       `yaml:"layers"`
	Bias     common.Vector3 `yaml:"bias"`
	Follower common.Vector3 `yaml:"follower"`
	Target   common.Vector3 `yaml:"target"`
	Excluded []CoordSpec    `yaml:"excluded"`
	Shapes   []ShapeSpec    `yaml:"shapes"`
	Tiles    *TilesSpec     `yaml:"tiles"`
	Script   string         `yaml:"script"`

	// Path and Dir locate the spec on disk; Script resolves against Dir.
	// Both are empty for embedded scenes.
	Path string `yaml:"-"`
	Dir  string `yaml:"-"`
}

type GridSpec struct {
	Center          common.Vector3 `yaml:"center"`
	SizeX           int            `yaml:"size_x"`
	SizeZ           int            `yaml:"size_z"`
	CellRadius      float64        `yaml:"cell_radius"`
	ExpandObstacles bool           `yaml:"expand_obstacles"`
	ObstacleLayers  []string       `yaml:"obstacle_layers"`
	IgnoreLayers    []string       `yaml:"ignore_layers"`
}

type CoordSpec struct {
	X int `yaml:"x"`
	Z int `yaml:"z"`
}

// ShapeSpec is one static obstacle. Which fields apply depends on Kind:
// box uses Center and Size, circle uses Center and Radius, segment uses From,
// To and Radius, polygon uses Points.
type ShapeSpec struct {
	Kind   string           `yaml:"kind"`
	Layer  string           `yaml:"layer"`
	Center common.Vector3   `yaml:"center"`
	Size   common.Vector3   `yaml:"size"`
	Radius float64          `yaml:"radius"`
	From   common.Vector3   `yaml:"from"`
	To     common.Vector3   `yaml:"to"`
	Points []common.Vector3 `yaml:"points"`
	Color  *YAMLColor       `yaml:"color"`
}

// TilesSpec is a character map of obstacles; row 0 is the lowest Z.
type TilesSpec struct {
	Origin common.Vector3    `yaml:"origin"`
	Size   float64           `yaml:"size"`
	Legend map[string]string `yaml:"legend"`
	Rows   []string          `yaml:"rows"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scene: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadFile reads a scene from disk, falling back to the embedded scenes, and
// fills in defaults.
func LoadFile(filename string) (*Spec, error) {
	spec, err := LoadSpec[Spec](filename)
	if err != nil {
		return nil, err
	}
	if onDisk(filename) {
		spec.Path = filename
		spec.Dir = filepath.Dir(filename)
	}
	spec.applyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %s: %w", filename, err)
	}
	return &spec, nil
}

func (s *Spec) applyDefaults() {
	if s.Grid.CellRadius == 0 {
		s.Grid.CellRadius = DefaultCellRadius
	}
	if len(s.Layers) == 0 {
		s.Layers = []string{DefaultObstacleLayer, DefaultIgnoreLayer}
	}
	if len(s.Grid.ObstacleLayers) == 0 {
		s.Grid.ObstacleLayers = []string{DefaultObstacleLayer}
	}
	if len(s.Grid.IgnoreLayers) == 0 {
		s.Grid.IgnoreLayers = []string{DefaultIgnoreLayer}
	}
	for i := range s.Shapes {
		if s.Shapes[i].Layer == "" {
			s.Shapes[i].Layer = DefaultObstacleLayer
		}
	}
}

// Validate checks shape kinds and layer names. Grid geometry is checked by
// grid.New.
func (s *Spec) Validate() error {
	if _, err := s.LayerMask(s.Grid.ObstacleLayers...); err != nil {
		return err
	}
	if _, err := s.LayerMask(s.Grid.IgnoreLayers...); err != nil {
		return err
	}
	for i, sh := range s.Shapes {
		switch sh.Kind {
		case "box", "circle", "segment", "polygon":
		default:
			return fmt.Errorf("%w %q (shape %d)", ErrUnknownShape, sh.Kind, i)
		}
		if _, err := s.LayerMask(sh.Layer); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	if s.Tiles != nil {
		for ch, name := range s.Tiles.Legend {
			if len([]rune(ch)) != 1 {
				return fmt.Errorf("tiles: legend key %q must be a single character", ch)
			}
			if _, err := s.LayerMask(name); err != nil {
				return fmt.Errorf("tiles: %w", err)
			}
		}
	}
	return nil
}

// YAMLColor accepts an SVG color name ("tomato") or hex RGB/RGBA
// ("#ff6347", "#ff634780").
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
