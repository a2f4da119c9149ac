package grid

import "github.com/milk9111/gridpath/common"

// CellAt returns the cell containing pos. Positions outside the grid clamp to
// the nearest edge cell.
func (g *Grid) CellAt(pos common.Vector3) *Cell {
	return &g.cells[g.Index(g.CoordAt(pos))]
}

// CoordAt maps pos to grid indices using the fraction of the grid extent the
// position lies at, clamped to [0,1] and rounded half to even.
func (g *Grid) CoordAt(pos common.Vector3) Coord {
	sx := float64(g.cfg.SizeX)
	sz := float64(g.cfg.SizeZ)
	fx := common.Clamp01((pos.X-g.cfg.Center.X)/sx + 0.5)
	fz := common.Clamp01((pos.Z-g.cfg.Center.Z)/sz + 0.5)
	return Coord{
		X: common.RoundToInt((sx - 1) * fx),
		Z: common.RoundToInt((sz - 1) * fz),
	}
}

// MoveCell moves a single cell to a new world position without rebuilding.
// Its grid y follows the new world y; horizontal indices never change.
func (g *Grid) MoveCell(c *Cell, to common.Vector3) {
	c.World = to
	c.GridY = to.Y
}

// MoveCellAt moves the cell containing from.
func (g *Grid) MoveCellAt(from, to common.Vector3) *Cell {
	c := g.CellAt(from)
	g.MoveCell(c, to)
	return c
}

// Closest returns the cell nearest to pos. Ties go to the earliest cell in
// cells. It returns nil for an empty slice.
func Closest(cells []*Cell, pos common.Vector3) *Cell {
	i := closestIndex(cells, pos)
	if i < 0 {
		return nil
	}
	return cells[i]
}

// ClosestNext returns the cell after the closest one, or the closest itself
// when it is last.
func ClosestNext(cells []*Cell, pos common.Vector3) *Cell {
	i := closestIndex(cells, pos)
	if i < 0 {
		return nil
	}
	if i+1 < len(cells) {
		return cells[i+1]
	}
	return cells[i]
}

func closestIndex(cells []*Cell, pos common.Vector3) int {
	best := -1
	bestDist := 0.0
	for i, c := range cells {
		d := common.Distance(c.World, pos)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
