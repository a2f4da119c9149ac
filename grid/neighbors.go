package grid

import "github.com/milk9111/gridpath/common"

// Direction is one of the four axis-aligned neighbour directions.
type Direction int

const (
	DirRight Direction = iota
	DirLeft
	DirForward
	DirBack
)

// neighbourOrder is the order Neighbors reports cells in. The search breaks
// ties by discovery order, so this must stay fixed.
var neighbourOrder = [4]Direction{DirRight, DirLeft, DirForward, DirBack}

var directionOffsets = [4]Coord{
	DirRight:   {X: 1},
	DirLeft:    {X: -1},
	DirForward: {Z: 1},
	DirBack:    {Z: -1},
}

func (d Direction) Offset() Coord {
	return directionOffsets[d]
}

func (d Direction) Opposite() Direction {
	switch d {
	case DirRight:
		return DirLeft
	case DirLeft:
		return DirRight
	case DirForward:
		return DirBack
	default:
		return DirForward
	}
}

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "right"
	case DirLeft:
		return "left"
	case DirForward:
		return "forward"
	case DirBack:
		return "back"
	}
	return "unknown"
}

// DirectionFromVector maps an axis vector to a Direction. The vertical axis
// of a 2D input (Y) is read as Z, so Up means forward and Down means back.
func DirectionFromVector(v common.Vector3) (Direction, bool) {
	x := int(v.X)
	z := int(v.Z)
	if z == 0 {
		z = int(v.Y)
	}
	switch {
	case x == 1 && z == 0:
		return DirRight, true
	case x == -1 && z == 0:
		return DirLeft, true
	case x == 0 && z == 1:
		return DirForward, true
	case x == 0 && z == -1:
		return DirBack, true
	}
	return 0, false
}

// Neighbor returns the cell next to c in direction d, or nil at the edge.
func (g *Grid) Neighbor(c *Cell, d Direction) *Cell {
	off := d.Offset()
	n, ok := g.Cell(Coord{X: c.Coord.X + off.X, Z: c.Coord.Z + off.Z})
	if !ok {
		return nil
	}
	return n
}

// Neighbors returns the in-bounds neighbours of c in the order right, left,
// forward, back.
func (g *Grid) Neighbors(c *Cell) []*Cell {
	out := make([]*Cell, 0, 4)
	for _, d := range neighbourOrder {
		if n := g.Neighbor(c, d); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NeighborIndices appends the arena indices of i's neighbours to buf, in the
// same order as Neighbors.
func (g *Grid) NeighborIndices(i int, buf []int) []int {
	x := i % g.cfg.SizeX
	z := i / g.cfg.SizeX
	for _, d := range neighbourOrder {
		off := d.Offset()
		if j := g.Index(Coord{X: x + off.X, Z: z + off.Z}); j >= 0 {
			buf = append(buf, j)
		}
	}
	return buf
}
