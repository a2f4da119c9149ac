package pathfind

import (
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
)

// ClosestPoint returns the grid-snapped position of the path cell nearest to
// pos, or pos itself when there is no path to follow.
func (f *Finder) ClosestPoint(pos common.Vector3) common.Vector3 {
	path := f.Path()
	if len(path) == 0 {
		return pos
	}
	closest := grid.Closest(path, pos)
	return f.grid.CellAt(closest.World).World
}

// NextWaypoint returns the position of the path cell after the one nearest to
// pos. When there is no path, or the agent already stands on that waypoint,
// pos is returned unchanged.
func (f *Finder) NextWaypoint(pos common.Vector3) common.Vector3 {
	path := f.Path()
	if len(path) == 0 {
		return pos
	}
	next := grid.ClosestNext(path, pos)
	if next.World.Equals(pos) {
		return pos
	}
	return next.World
}

// Remaining returns the waypoints from the one NextWaypoint would pick to the
// end of the path.
func (f *Finder) Remaining(pos common.Vector3) []common.Vector3 {
	path := f.Path()
	if len(path) == 0 {
		return nil
	}
	next := grid.ClosestNext(path, pos)
	out := make([]common.Vector3, 0, len(path))
	seen := false
	for _, c := range path {
		if c == next {
			seen = true
		}
		if seen {
			out = append(out, c.World)
		}
	}
	return out
}
