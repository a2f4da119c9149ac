package scene

import (
	"fmt"
	"path/filepath"

	"github.com/milk9111/gridpath/agent"
	"github.com/milk9111/gridpath/grid"
	"github.com/milk9111/gridpath/physics"
	"github.com/milk9111/gridpath/script"
	"go.uber.org/zap"
)

// LayerMask ORs together the bits of the named layers. Layer i of Spec.Layers
// is bit i.
func (s *Spec) LayerMask(names ...string) (grid.Layer, error) {
	var mask grid.Layer
	for _, name := range names {
		found := false
		for i, l := range s.Layers {
			if l == name {
				mask |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w %q", ErrUnknownLayer, name)
		}
	}
	return mask, nil
}

// GridConfig converts the grid section into a grid.Config.
func (s *Spec) GridConfig() (grid.Config, error) {
	obstacle, err := s.LayerMask(s.Grid.ObstacleLayers...)
	if err != nil {
		return grid.Config{}, err
	}
	ignore, err := s.LayerMask(s.Grid.IgnoreLayers...)
	if err != nil {
		return grid.Config{}, err
	}
	return grid.Config{
		Center:          s.Grid.Center,
		SizeX:           s.Grid.SizeX,
		SizeZ:           s.Grid.SizeZ,
		CellRadius:      s.Grid.CellRadius,
		ObstacleLayer:   obstacle,
		IgnoreLayer:     ignore,
		ExpandObstacles: s.Grid.ExpandObstacles,
	}, nil
}

// Scene is a Spec turned into live collaborators.
type Scene struct {
	Spec   *Spec
	World  *physics.World
	Script *script.Classifier // nil when the spec names no script
	Grid   grid.Config
}

// Build creates the physics world from the shapes and tiles and compiles the
// script, if any.
func Build(spec *Spec, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := spec.GridConfig()
	if err != nil {
		return nil, err
	}

	world := physics.NewWorld(physics.WithLogger(log))
	for i, sh := range spec.Shapes {
		layer, err := spec.LayerMask(sh.Layer)
		if err != nil {
			return nil, fmt.Errorf("scene: shape %d: %w", i, err)
		}
		switch sh.Kind {
		case "box":
			world.AddBox(sh.Center, sh.Size.X, sh.Size.Z, layer)
		case "circle":
			world.AddCircle(sh.Center, sh.Radius, layer)
		case "segment":
			world.AddSegment(sh.From, sh.To, sh.Radius, layer)
		case "polygon":
			world.AddPolygon(sh.Points, layer)
		default:
			return nil, fmt.Errorf("%w %q (shape %d)", ErrUnknownShape, sh.Kind, i)
		}
	}

	if t := spec.Tiles; t != nil {
		legend := make(map[rune]grid.Layer, len(t.Legend))
		for ch, name := range t.Legend {
			layer, err := spec.LayerMask(name)
			if err != nil {
				return nil, fmt.Errorf("scene: tiles: %w", err)
			}
			legend[[]rune(ch)[0]] = layer
		}
		size := t.Size
		if size == 0 {
			size = spec.Grid.CellRadius * 2
		}
		world.AddTiles(physics.TileMap{
			Rows:   t.Rows,
			Origin: t.Origin,
			Size:   size,
			Legend: legend,
		})
	}

	sc := &Scene{Spec: spec, World: world, Grid: cfg}

	if spec.Script != "" {
		path := spec.ScriptPath()
		src, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("scene: load script %s: %w", path, err)
		}
		cls, err := script.New(src, script.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("scene: compile script %s: %w", path, err)
		}
		sc.Script = cls
	}

	log.Debug("scene built",
		zap.String("name", spec.Name),
		zap.Int("shapes", len(world.Shapes())),
		zap.Bool("script", sc.Script != nil),
	)
	return sc, nil
}

// Open loads the named scene from disk or the embedded scenes and builds it.
func Open(name string, log *zap.Logger) (*Scene, error) {
	spec, err := LoadFile(name)
	if err != nil {
		return nil, err
	}
	return Build(spec, log)
}

// ScriptPath resolves Script against the spec's directory.
func (s *Spec) ScriptPath() string {
	if s.Script == "" || s.Dir == "" || filepath.IsAbs(s.Script) {
		return s.Script
	}
	return filepath.Join(s.Dir, s.Script)
}

// Classifier returns the physics world, combined with the script when the
// scene has one.
func (sc *Scene) Classifier() grid.Classifier {
	if sc.Script == nil {
		return sc.World
	}
	return grid.Classifiers{sc.World, sc.Script}
}

// NewGrid builds a grid for the scene and applies its excluded cells.
func (sc *Scene) NewGrid(opts ...grid.Option) (*grid.Grid, error) {
	g, err := grid.New(sc.Grid, sc.Classifier(), opts...)
	if err != nil {
		return nil, err
	}
	sc.ApplyExcluded(g)
	return g, nil
}

// ApplyExcluded marks the scene's excluded cells on g. Rebuilding a grid drops
// exclusions, so call this again afterwards.
func (sc *Scene) ApplyExcluded(g *grid.Grid) {
	for _, c := range sc.Spec.Excluded {
		g.SetExcluded(grid.Coord{X: c.X, Z: c.Z}, true)
	}
}

// NewAgent builds a fresh grid for the scene and an agent planning on it with
// the scene's bias.
func (sc *Scene) NewAgent(follower, target agent.PositionSource, log *zap.Logger) (*agent.Agent, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g, err := sc.NewGrid(grid.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return agent.New(g, follower, target,
		agent.WithBias(sc.Spec.Bias),
		agent.WithLogger(log),
	)
}

// WatchFiles lists the on-disk files the scene was built from. Embedded scenes
// have none.
func (sc *Scene) WatchFiles() []string {
	if sc.Spec.Path == "" {
		return nil
	}
	files := []string{sc.Spec.Path}
	if sc.Spec.Script != "" {
		files = append(files, sc.Spec.ScriptPath())
	}
	return files
}
