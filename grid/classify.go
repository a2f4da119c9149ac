package grid

import "github.com/milk9111/gridpath/common"

// Layer is a bitmask of classification categories. The zero Layer matches
// nothing.
type Layer uint

// Classifier answers whether a sphere at pos overlaps anything on layer.
type Classifier interface {
	Overlaps(pos common.Vector3, radius float64, layer Layer) bool
}

type ClassifierFunc func(pos common.Vector3, radius float64, layer Layer) bool

func (f ClassifierFunc) Overlaps(pos common.Vector3, radius float64, layer Layer) bool {
	return f(pos, radius, layer)
}

// Surface is implemented by classifiers that also know the ground height. When
// the grid's classifier is a Surface, cells take their y from it.
type Surface interface {
	SurfaceHeight(x, z float64) (float64, bool)
}

// Classifiers overlaps when any member does. The first member reporting a
// height wins.
type Classifiers []Classifier

func (cs Classifiers) Overlaps(pos common.Vector3, radius float64, layer Layer) bool {
	for _, c := range cs {
		if c != nil && c.Overlaps(pos, radius, layer) {
			return true
		}
	}
	return false
}

func (cs Classifiers) SurfaceHeight(x, z float64) (float64, bool) {
	for _, c := range cs {
		if s, ok := c.(Surface); ok {
			if h, ok := s.SurfaceHeight(x, z); ok {
				return h, true
			}
		}
	}
	return 0, false
}

// Classify re-evaluates every cell against the obstacle and ignore layers,
// replacing the previous flags and cell lists.
func (g *Grid) Classify() {
	g.obstacles = g.obstacles[:0]
	g.ignored = g.ignored[:0]

	for i := range g.cells {
		c := &g.cells[i]
		c.Obstacle = g.overlaps(c, g.cfg.ObstacleLayer)
		c.Ignorable = g.overlaps(c, g.cfg.IgnoreLayer)
		if c.Obstacle {
			g.obstacles = append(g.obstacles, c.Coord)
		}
		if c.Ignorable {
			g.ignored = append(g.ignored, c.Coord)
		}
	}
}

// Reclassify changes the classification layers and expansion flag, then
// classifies again. Cell positions, moved cells and exclusions are kept.
func (g *Grid) Reclassify(obstacle, ignore Layer, expand bool) {
	g.cfg.ObstacleLayer = obstacle
	g.cfg.IgnoreLayer = ignore
	g.cfg.ExpandObstacles = expand
	g.Classify()
	if expand {
		g.ExpandObstaclesToNeighbors()
	}
}

func (g *Grid) overlaps(c *Cell, layer Layer) bool {
	if g.classifier == nil || layer == 0 {
		return false
	}
	return g.classifier.Overlaps(c.World, c.Radius, layer)
}

// ExpandObstaclesToNeighbors marks the 4-neighbours of every current obstacle
// as obstacles. Only cells that were obstacles before the call seed the
// expansion, so the footprint grows by exactly one ring. It returns the
// number of newly marked cells.
func (g *Grid) ExpandObstaclesToNeighbors() int {
	seeds := len(g.obstacles)
	var buf [4]int
	for i := 0; i < seeds; i++ {
		for _, n := range g.NeighborIndices(g.Index(g.obstacles[i]), buf[:0]) {
			c := &g.cells[n]
			if c.Obstacle {
				continue
			}
			c.Obstacle = true
			g.obstacles = append(g.obstacles, c.Coord)
		}
	}
	return len(g.obstacles) - seeds
}

// ObstacleCells returns the coordinates of every obstacle cell, in
// classification order followed by expansion order.
func (g *Grid) ObstacleCells() []Coord {
	return append([]Coord(nil), g.obstacles...)
}

func (g *Grid) IgnoredCells() []Coord {
	return append([]Coord(nil), g.ignored...)
}

// SetExcluded marks a cell as never part of a path, independent of its
// obstacle flag. It reports false if c is out of bounds.
func (g *Grid) SetExcluded(c Coord, excluded bool) bool {
	cell, ok := g.Cell(c)
	if !ok {
		return false
	}
	cell.Excluded = excluded
	return true
}

// SetObstacle forces the obstacle flag of a single cell, keeping the obstacle
// list in sync.
func (g *Grid) SetObstacle(c Coord, obstacle bool) bool {
	cell, ok := g.Cell(c)
	if !ok {
		return false
	}
	if cell.Obstacle == obstacle {
		return true
	}
	cell.Obstacle = obstacle
	if obstacle {
		g.obstacles = append(g.obstacles, c)
		return true
	}
	for i, o := range g.obstacles {
		if o == c {
			g.obstacles = append(g.obstacles[:i], g.obstacles[i+1:]...)
			break
		}
	}
	return true
}
