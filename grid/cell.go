package grid

import "github.com/milk9111/gridpath/common"

// Coord addresses a cell by its horizontal grid indices.
type Coord struct {
	X int
	Z int
}

// Cell is one grid square. Coord is fixed once the grid is built; World and
// GridY change only through Grid.MoveCell.
type Cell struct {
	Coord  Coord
	GridY  float64
	World  common.Vector3
	Radius float64

	Obstacle  bool
	Ignorable bool
	Excluded  bool
}

// Traversable reports whether a path may enter the cell. Ignorable does not
// affect traversability.
func (c *Cell) Traversable() bool {
	return !c.Obstacle && !c.Excluded
}

// GridPosition returns (x index, current world y, z index).
func (c *Cell) GridPosition() common.Vector3 {
	return common.Vector3{X: float64(c.Coord.X), Y: c.GridY, Z: float64(c.Coord.Z)}
}
