// Package grid maps continuous world positions onto a regular grid of cells
// and tracks which cells are obstacles.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/gridpath/common"
	"go.uber.org/zap"
)

var (
	ErrInvalidSize   = errors.New("grid: size must be positive")
	ErrInvalidRadius = errors.New("grid: cell radius must be positive and finite")
	ErrInvalidCenter = errors.New("grid: center must be finite")
)

// Config holds everything that defines a grid's geometry and classification.
type Config struct {
	Center          common.Vector3
	SizeX           int
	SizeZ           int
	CellRadius      float64
	ObstacleLayer   Layer
	IgnoreLayer     Layer
	ExpandObstacles bool
}

func (c Config) validate() error {
	if c.SizeX <= 0 || c.SizeZ <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.SizeX, c.SizeZ)
	}
	if !(c.CellRadius > 0) || math.IsInf(c.CellRadius, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, c.CellRadius)
	}
	if !c.Center.IsFinite() {
		return fmt.Errorf("%w: %v", ErrInvalidCenter, c.Center)
	}
	return nil
}

// Grid owns a SizeX × SizeZ arena of cells, stored row by row (index z*SizeX+x).
// It has no internal locking: callers must not query or search while Configure,
// Rebuild, Classify or MoveCell run.
type Grid struct {
	cfg        Config
	classifier Classifier
	cells      []Cell
	generation uint64

	obstacles []Coord
	ignored   []Coord

	log *zap.Logger
}

type Option func(*Grid)

func WithLogger(log *zap.Logger) Option {
	return func(g *Grid) {
		if log != nil {
			g.log = log
		}
	}
}

// New builds the grid, classifies every cell and, when cfg.ExpandObstacles is
// set, grows the obstacles by one ring. classifier may be nil.
func New(cfg Config, classifier Classifier, opts ...Option) (*Grid, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		cfg:        cfg,
		classifier: classifier,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.Rebuild()
	return g, nil
}

// Configure replaces the geometry and classification inputs and rebuilds.
// On error the grid is left untouched.
func (g *Grid) Configure(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	g.cfg = cfg
	g.Rebuild()
	return nil
}

// SetClassifier swaps the classification collaborator. It does not rebuild;
// call Rebuild or Classify afterwards.
func (g *Grid) SetClassifier(c Classifier) {
	g.classifier = c
}

// Rebuild discards every cell and recreates them from the current config.
// Each call advances Generation.
func (g *Grid) Rebuild() {
	cfg := g.cfg
	r := cfg.CellRadius
	d := r * 2
	bottomLeft := cfg.Center.
		Sub(common.Right.Scale(float64(cfg.SizeX) / 2)).
		Sub(common.Forward.Scale(float64(cfg.SizeZ) / 2))

	surface, _ := g.classifier.(Surface)

	g.cells = make([]Cell, cfg.SizeX*cfg.SizeZ)
	g.generation++
	for z := 0; z < cfg.SizeZ; z++ {
		for x := 0; x < cfg.SizeX; x++ {
			world := bottomLeft.
				Add(common.Right.Scale(float64(x)*d + r)).
				Add(common.Forward.Scale(float64(z)*d + r))
			if surface != nil {
				if h, ok := surface.SurfaceHeight(world.X, world.Z); ok {
					world.Y = h
				}
			}
			g.cells[z*cfg.SizeX+x] = Cell{
				Coord:  Coord{X: x, Z: z},
				GridY:  world.Y,
				World:  world,
				Radius: r,
			}
		}
	}

	g.Classify()
	if cfg.ExpandObstacles {
		g.ExpandObstaclesToNeighbors()
	}

	g.log.Debug("grid rebuilt",
		zap.Int("size_x", cfg.SizeX),
		zap.Int("size_z", cfg.SizeZ),
		zap.Float64("cell_radius", r),
		zap.Int("obstacles", len(g.obstacles)),
		zap.Int("ignored", len(g.ignored)),
		zap.Uint64("generation", g.generation),
	)
}

func (g *Grid) Config() Config         { return g.cfg }
func (g *Grid) SizeX() int             { return g.cfg.SizeX }
func (g *Grid) SizeZ() int             { return g.cfg.SizeZ }
func (g *Grid) Center() common.Vector3 { return g.cfg.Center }
func (g *Grid) CellRadius() float64    { return g.cfg.CellRadius }
func (g *Grid) CellDiameter() float64  { return g.cfg.CellRadius * 2 }
func (g *Grid) Len() int               { return len(g.cells) }

// Generation counts rebuilds. Cell pointers and indices taken under one
// generation must not be used under another.
func (g *Grid) Generation() uint64 {
	return g.generation
}

// Cells exposes the backing arena. Entries may be modified in place but the
// slice must not be resized.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// InBounds reports whether c addresses a cell of this grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.cfg.SizeX && c.Z >= 0 && c.Z < g.cfg.SizeZ
}

// Index returns the flat arena index of c, or -1 when out of bounds.
func (g *Grid) Index(c Coord) int {
	if !g.InBounds(c) {
		return -1
	}
	return c.Z*g.cfg.SizeX + c.X
}

// At returns the cell at flat index i.
func (g *Grid) At(i int) *Cell {
	return &g.cells[i]
}

func (g *Grid) Cell(c Coord) (*Cell, bool) {
	i := g.Index(c)
	if i < 0 {
		return nil, false
	}
	return &g.cells[i], true
}

// IndexOf returns the arena index of a cell owned by this grid.
func (g *Grid) IndexOf(c *Cell) int {
	return g.Index(c.Coord)
}
