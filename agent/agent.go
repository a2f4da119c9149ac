// Package agent binds a grid and a path finder to a follower and a target and
// replans when either moves to another cell.
package agent

import (
	"errors"

	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"github.com/milk9111/gridpath/pathfind"
	"go.uber.org/zap"
)

var ErrNoEndpoints = errors.New("agent: follower and target are required")

// PositionSource reports where something currently is.
type PositionSource interface {
	Position() common.Vector3
}

// StaticPosition is a fixed position.
type StaticPosition common.Vector3

func (p StaticPosition) Position() common.Vector3 {
	return common.Vector3(p)
}

type PositionFunc func() common.Vector3

func (f PositionFunc) Position() common.Vector3 {
	return f()
}

// Options are the classification settings of the agent's grid.
type Options struct {
	ObstacleLayer   grid.Layer
	IgnoreLayer     grid.Layer
	ExpandObstacles bool
}

type Agent struct {
	grid   *grid.Grid
	finder *pathfind.Finder
	log    *zap.Logger

	follower PositionSource
	target   PositionSource

	planned    bool
	dirty      bool
	lastStart  grid.Coord
	lastTarget grid.Coord
	lastGen    uint64
	searches   int
}

type Option func(*config)

type config struct {
	log  *zap.Logger
	bias common.Vector3
}

func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithBias sets the search's extra cost bias.
func WithBias(bias common.Vector3) Option {
	return func(c *config) {
		c.bias = bias
	}
}

// New creates an agent and plans once.
func New(g *grid.Grid, follower, target PositionSource, opts ...Option) (*Agent, error) {
	if follower == nil || target == nil {
		return nil, ErrNoEndpoints
	}
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	finder, err := pathfind.NewFinder(g,
		pathfind.WithBias(cfg.bias),
		pathfind.WithLogger(cfg.log),
	)
	if err != nil {
		return nil, err
	}
	a := &Agent{
		grid:     g,
		finder:   finder,
		log:      cfg.log,
		follower: follower,
		target:   target,
	}
	a.Replan()
	return a, nil
}

func (a *Agent) Grid() *grid.Grid            { return a.grid }
func (a *Agent) Finder() *pathfind.Finder    { return a.finder }
func (a *Agent) Follower() PositionSource    { return a.follower }
func (a *Agent) Target() PositionSource      { return a.target }
func (a *Agent) Path() []*grid.Cell          { return a.finder.Path() }
func (a *Agent) HasPath() bool               { return a.finder.HasPath() }
func (a *Agent) Waypoints() []common.Vector3 { return a.finder.Waypoints() }

// Directions returns, per path step, the unit vector back toward the previous
// cell. See pathfind.Finder.Directions.
func (a *Agent) Directions() []common.Vector3 { return a.finder.Directions() }

// Searches returns how many searches the agent has run.
func (a *Agent) Searches() int { return a.searches }

// Configure reclassifies the grid with new layers and expansion, keeping
// moved and excluded cells, then replans.
func (a *Agent) Configure(o Options) {
	a.grid.Reclassify(o.ObstacleLayer, o.IgnoreLayer, o.ExpandObstacles)
	a.log.Debug("agent reconfigured",
		zap.Uint("obstacle_layer", uint(o.ObstacleLayer)),
		zap.Uint("ignore_layer", uint(o.IgnoreLayer)),
		zap.Bool("expand", o.ExpandObstacles),
		zap.Int("obstacles", len(a.grid.ObstacleCells())),
	)
	a.Replan()
}

// Options returns the grid's current classification settings.
func (a *Agent) Options() Options {
	cfg := a.grid.Config()
	return Options{
		ObstacleLayer:   cfg.ObstacleLayer,
		IgnoreLayer:     cfg.IgnoreLayer,
		ExpandObstacles: cfg.ExpandObstacles,
	}
}

// SetFollower swaps the follower. The next Update searches again.
func (a *Agent) SetFollower(p PositionSource) {
	if p == nil {
		return
	}
	a.follower = p
	a.dirty = true
}

// SetTarget swaps the target. The next Update searches again.
func (a *Agent) SetTarget(p PositionSource) {
	if p == nil {
		return
	}
	a.target = p
	a.dirty = true
}

// Invalidate forces the next Update to search.
func (a *Agent) Invalidate() {
	a.dirty = true
}

// Update searches again when the follower or target moved to another cell
// since the last search, after the grid was rebuilt, or after Invalidate. It
// reports whether a search ran.
func (a *Agent) Update() bool {
	start := a.grid.CoordAt(a.follower.Position())
	target := a.grid.CoordAt(a.target.Position())
	rebuilt := a.grid.Generation() != a.lastGen
	if a.planned && !a.dirty && !rebuilt && start == a.lastStart && target == a.lastTarget {
		return false
	}
	a.search()
	return true
}

// Replan searches unconditionally and reports whether a path was found.
func (a *Agent) Replan() bool {
	return a.search()
}

func (a *Agent) search() bool {
	from := a.follower.Position()
	to := a.target.Position()
	found := a.finder.Search(from, to)

	a.planned = true
	a.dirty = false
	a.lastStart = a.grid.CoordAt(from)
	a.lastTarget = a.grid.CoordAt(to)
	a.lastGen = a.grid.Generation()
	a.searches++

	st := a.finder.Stats()
	a.log.Debug("agent replanned",
		zap.Bool("found", found),
		zap.Int("length", st.Length),
		zap.Int("expanded", st.Expanded),
	)
	return found
}

// Advance moves pos at most maxStep toward the next waypoint.
func (a *Agent) Advance(pos common.Vector3, maxStep float64) common.Vector3 {
	return common.MoveTowards(pos, a.finder.NextWaypoint(pos), maxStep)
}

// MoveCell moves the cell containing from to the world position to. The next
// Update searches again.
func (a *Agent) MoveCell(from, to common.Vector3) *grid.Cell {
	c := a.grid.MoveCellAt(from, to)
	a.dirty = true
	return c
}

func (a *Agent) CellAt(pos common.Vector3) *grid.Cell {
	return a.grid.CellAt(pos)
}

func (a *Agent) Neighbors(c *grid.Cell) []*grid.Cell {
	return a.grid.Neighbors(c)
}

// Neighbor returns the cell next to c along the axis vector dir, or nil when
// dir is not an axis direction or points off the grid.
func (a *Agent) Neighbor(c *grid.Cell, dir common.Vector3) *grid.Cell {
	d, ok := grid.DirectionFromVector(dir)
	if !ok {
		return nil
	}
	return a.grid.Neighbor(c, d)
}

func (a *Agent) ClosestPoint(pos common.Vector3) common.Vector3 {
	return a.finder.ClosestPoint(pos)
}

func (a *Agent) NextWaypoint(pos common.Vector3) common.Vector3 {
	return a.finder.NextWaypoint(pos)
}

// Remaining returns the waypoints still ahead of pos.
func (a *Agent) Remaining(pos common.Vector3) []common.Vector3 {
	return a.finder.Remaining(pos)
}

func (a *Agent) Closest(cells []*grid.Cell, pos common.Vector3) *grid.Cell {
	return grid.Closest(cells, pos)
}

func (a *Agent) ClosestNext(cells []*grid.Cell, pos common.Vector3) *grid.Cell {
	return grid.ClosestNext(cells, pos)
}

func (a *Agent) ObstacleCells() []grid.Coord {
	return a.grid.ObstacleCells()
}

func (a *Agent) IgnoredCells() []grid.Coord {
	return a.grid.IgnoredCells()
}
