// Package pathfind runs an A*-style search over a grid.Grid and answers
// "where next" queries against the most recent path.
package pathfind

import (
	"errors"
	"fmt"

	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"go.uber.org/zap"
)

var (
	ErrNilGrid     = errors.New("pathfind: grid is nil")
	ErrInvalidBias = errors.New("pathfind: extra cost bias must be finite")
)

// Finder searches one grid and keeps the last successful path. A Finder is not
// safe for concurrent use, but several Finders may search the same grid at
// once: per-search costs live in a side table, never on the cells.
//
// The retained path is held as arena indices tagged with the grid generation
// it was found under. Once the grid is rebuilt the path reads as absent.
type Finder struct {
	grid *grid.Grid
	bias common.Vector3
	log  *zap.Logger

	path    []int
	forward []common.Vector3
	gen     uint64
	found   bool
	stats   Stats
}

// Stats describes the last Search call.
type Stats struct {
	Start    grid.Coord
	Target   grid.Coord
	Expanded int
	Found    bool
	Length   int
}

type Option func(*Finder)

// WithBias sets the constant vector added to every step offset before it is
// squared into the heuristic. It skews the search toward or away from
// directions.
func WithBias(bias common.Vector3) Option {
	return func(f *Finder) {
		f.bias = bias
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(f *Finder) {
		if log != nil {
			f.log = log
		}
	}
}

func NewFinder(g *grid.Grid, opts ...Option) (*Finder, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	f := &Finder{grid: g, log: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	if !f.bias.IsFinite() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBias, f.bias)
	}
	return f, nil
}

func (f *Finder) Grid() *grid.Grid     { return f.grid }
func (f *Finder) Bias() common.Vector3 { return f.bias }
func (f *Finder) Stats() Stats         { return f.stats }

// node is the per-search bookkeeping for one cell.
type node struct {
	g      float64
	h      float64
	parent int
	open   bool
	closed bool
}

func (n *node) f() float64 {
	return n.g + n.h
}

// Search finds a path from the cell containing start to the cell containing
// target. On success the path (start excluded, target included) replaces the
// retained one and Search returns true. On failure the retained path is
// cleared.
//
// The open list is scanned linearly, so a search is O(N²) in the number of
// cells.
func (f *Finder) Search(start, target common.Vector3) bool {
	g := f.grid
	startIdx := g.IndexOf(g.CellAt(start))
	targetIdx := g.IndexOf(g.CellAt(target))
	targetWorld := g.At(targetIdx).World

	nodes := make([]node, g.Len())
	for i := range nodes {
		nodes[i].parent = -1
	}

	open := make([]int, 0, 64)
	open = append(open, startIdx)
	nodes[startIdx].open = true

	f.stats = Stats{Start: g.At(startIdx).Coord, Target: g.At(targetIdx).Coord}

	var buf [4]int
	for len(open) > 0 {
		// lowest total cost, ties to the strictly lower heuristic
		best := 0
		for i := 1; i < len(open); i++ {
			n, b := &nodes[open[i]], &nodes[open[best]]
			if n.f() < b.f() || (n.f() == b.f() && n.h < b.h) {
				best = i
			}
		}
		cur := open[best]
		open = append(open[:best], open[best+1:]...)
		nodes[cur].open = false
		nodes[cur].closed = true
		f.stats.Expanded++

		if cur == targetIdx {
			f.reconstruct(nodes, startIdx, targetIdx)
			f.gen = g.Generation()
			f.found = true
			f.stats.Found = true
			f.stats.Length = len(f.path)
			f.log.Debug("path found",
				zap.Int("start_x", f.stats.Start.X), zap.Int("start_z", f.stats.Start.Z),
				zap.Int("target_x", f.stats.Target.X), zap.Int("target_z", f.stats.Target.Z),
				zap.Int("length", f.stats.Length),
				zap.Int("expanded", f.stats.Expanded),
			)
			return true
		}

		curWorld := g.At(cur).World
		for _, nb := range g.NeighborIndices(cur, buf[:0]) {
			cell := g.At(nb)
			if nodes[nb].closed || !cell.Traversable() {
				continue
			}

			cs, ns := &nodes[cur], &nodes[nb]
			cs.g = curWorld.Sub(target).Sum()
			cs.h = ns.h + curWorld.Sub(cell.World).Add(f.bias).SqrMagnitude()

			if !ns.open || cs.f() < ns.f() {
				ns.g = cell.World.Sub(target).Sum()
				ns.h = nodes[targetIdx].h + cell.World.Sub(targetWorld).Add(f.bias).SqrMagnitude()
				ns.parent = cur
				if !ns.open {
					ns.open = true
					open = append(open, nb)
				}
			}
		}
	}

	f.Clear()
	f.log.Debug("no path",
		zap.Int("start_x", f.stats.Start.X), zap.Int("start_z", f.stats.Start.Z),
		zap.Int("target_x", f.stats.Target.X), zap.Int("target_z", f.stats.Target.Z),
		zap.Int("expanded", f.stats.Expanded),
	)
	return false
}

// reconstruct walks parent links from target back to start. Parents are always
// closed before their children, so the walk cannot cycle. Each step also
// records the unit vector pointing back at its parent.
func (f *Finder) reconstruct(nodes []node, startIdx, targetIdx int) {
	path := f.path[:0]
	forward := f.forward[:0]
	for i := targetIdx; i != startIdx; i = nodes[i].parent {
		parent := f.grid.At(nodes[i].parent).World
		path = append(path, i)
		forward = append(forward, parent.Sub(f.grid.At(i).World).Normalized())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
		forward[i], forward[j] = forward[j], forward[i]
	}
	f.path = path
	f.forward = forward
}

// Clear drops the retained path.
func (f *Finder) Clear() {
	f.path = f.path[:0]
	f.forward = f.forward[:0]
	f.found = false
}

// HasPath reports whether the last search succeeded and the grid has not been
// rebuilt since. A search whose start and target share a cell succeeds with an
// empty path.
func (f *Finder) HasPath() bool {
	return f.found && f.gen == f.grid.Generation()
}

// Path returns the retained path, start excluded and target included. It is
// empty when HasPath is false.
func (f *Finder) Path() []*grid.Cell {
	if !f.HasPath() {
		return nil
	}
	out := make([]*grid.Cell, len(f.path))
	for i, idx := range f.path {
		out[i] = f.grid.At(idx)
	}
	return out
}

// Waypoints returns the world positions along the retained path.
func (f *Finder) Waypoints() []common.Vector3 {
	if !f.HasPath() {
		return nil
	}
	out := make([]common.Vector3, 0, len(f.path))
	for _, idx := range f.path {
		out = append(out, f.grid.At(idx).World)
	}
	return out
}

// Directions returns, for every path step, the unit vector from that cell
// back toward the cell it was reached from, as measured when the path was
// found. A step between two cells at the same position yields the zero vector.
func (f *Finder) Directions() []common.Vector3 {
	if !f.HasPath() {
		return nil
	}
	out := make([]common.Vector3, len(f.forward))
	copy(out, f.forward)
	return out
}
