package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/gridpath/common"
)

func newTestGrid(t *testing.T, cfg Config, c Classifier) *Grid {
	t.Helper()
	g, err := New(cfg, c)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return g
}

func fiveByFive() Config {
	return Config{SizeX: 5, SizeZ: 5, CellRadius: 0.5}
}

func TestNewRejectsDegenerateConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero_x", Config{SizeX: 0, SizeZ: 3, CellRadius: 0.5}, ErrInvalidSize},
		{"negative_z", Config{SizeX: 3, SizeZ: -1, CellRadius: 0.5}, ErrInvalidSize},
		{"zero_radius", Config{SizeX: 3, SizeZ: 3}, ErrInvalidRadius},
		{"nan_radius", Config{SizeX: 3, SizeZ: 3, CellRadius: math.NaN()}, ErrInvalidRadius},
		{"inf_radius", Config{SizeX: 3, SizeZ: 3, CellRadius: math.Inf(1)}, ErrInvalidRadius},
		{"inf_center", Config{SizeX: 3, SizeZ: 3, CellRadius: 1, Center: common.Vec3(math.Inf(-1), 0, 0)}, ErrInvalidCenter},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g, err := New(c.cfg, nil)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if g != nil {
				t.Fatalf("expected nil grid on error")
			}
		})
	}
}

func TestCellWorldPositions(t *testing.T) {
	cases := []struct {
		name   string
		cfg    Config
		coord  Coord
		expect common.Vector3
	}{
		{"origin_bottom_left", fiveByFive(), Coord{0, 0}, common.Vec3(-2, 0, -2)},
		{"origin_top_right", fiveByFive(), Coord{4, 4}, common.Vec3(2, 0, 2)},
		{"origin_middle", fiveByFive(), Coord{2, 2}, common.Vec3(0, 0, 0)},
		{"offset_bottom_left", Config{Center: common.Vec3(10, 1, -3), SizeX: 4, SizeZ: 6, CellRadius: 0.5}, Coord{0, 0}, common.Vec3(8.5, 1, -5.5)},
		{"offset_top_right", Config{Center: common.Vec3(10, 1, -3), SizeX: 4, SizeZ: 6, CellRadius: 0.5}, Coord{3, 5}, common.Vec3(11.5, 1, -0.5)},
		{"wide_cells", Config{SizeX: 4, SizeZ: 4, CellRadius: 1}, Coord{3, 3}, common.Vec3(5, 0, 5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := newTestGrid(t, c.cfg, nil)
			cell, ok := g.Cell(c.coord)
			if !ok {
				t.Fatalf("cell %v out of bounds", c.coord)
			}
			if !cell.World.Equals(c.expect) {
				t.Fatalf("cell %v at %v, want %v", c.coord, cell.World, c.expect)
			}
			if cell.Coord != c.coord {
				t.Fatalf("cell coord %v, want %v", cell.Coord, c.coord)
			}
			if cell.GridY != cell.World.Y {
				t.Fatalf("grid y %v should follow world y %v", cell.GridY, cell.World.Y)
			}
		})
	}
}

func TestCellAtRoundTrip(t *testing.T) {
	cfgs := []Config{
		fiveByFive(),
		{Center: common.Vec3(10, 1, -3), SizeX: 4, SizeZ: 6, CellRadius: 0.5},
	}
	for _, cfg := range cfgs {
		g := newTestGrid(t, cfg, nil)
		for i := range g.Cells() {
			c := g.At(i)
			if got := g.CellAt(c.World); got != c {
				t.Fatalf("CellAt(%v) = %v, want %v", c.World, got.Coord, c.Coord)
			}
		}
	}
}

func TestCellAtClamps(t *testing.T) {
	g := newTestGrid(t, fiveByFive(), nil)
	cases := []struct {
		name string
		pos  common.Vector3
		want Coord
	}{
		{"far_left_back", common.Vec3(-1e6, 0, -1e6), Coord{0, 0}},
		{"far_right_forward", common.Vec3(1e6, 50, 1e6), Coord{4, 4}},
		{"far_right_back", common.Vec3(1e6, 0, -1e6), Coord{4, 0}},
		{"far_left_inside_z", common.Vec3(-1e6, 0, 0), Coord{0, 2}},
		{"infinite", common.Vec3(math.Inf(1), 0, math.Inf(-1)), Coord{4, 0}},
		{"nan", common.Vec3(math.NaN(), 0, math.NaN()), Coord{0, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := g.CellAt(c.pos)
			if got == nil {
				t.Fatalf("CellAt returned nil")
			}
			if got.Coord != c.want {
				t.Fatalf("CellAt(%v) = %v, want %v", c.pos, got.Coord, c.want)
			}
		})
	}
}

func TestCellAtRoundsHalfToEven(t *testing.T) {
	g := newTestGrid(t, fiveByFive(), nil)
	// 4 * (0.625/5 + 0.5) = 2.5 and 4 * (-0.625/5 + 0.5) = 1.5
	if got := g.CoordAt(common.Vec3(0.625, 0, 0)); got.X != 2 {
		t.Fatalf("expected x=2 for tie at 2.5, got %d", got.X)
	}
	if got := g.CoordAt(common.Vec3(-0.625, 0, 0)); got.X != 2 {
		t.Fatalf("expected x=2 for tie at 1.5, got %d", got.X)
	}
}

func TestNeighbors(t *testing.T) {
	g := newTestGrid(t, Config{SizeX: 5, SizeZ: 4, CellRadius: 0.5}, nil)

	t.Run("order", func(t *testing.T) {
		c, _ := g.Cell(Coord{2, 2})
		got := g.Neighbors(c)
		want := []Coord{{3, 2}, {1, 2}, {2, 3}, {2, 1}}
		if len(got) != len(want) {
			t.Fatalf("expected %d neighbours, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i].Coord != want[i] {
				t.Fatalf("neighbour %d = %v, want %v", i, got[i].Coord, want[i])
			}
		}
	})

	t.Run("edges_omit_out_of_bounds", func(t *testing.T) {
		counts := map[Coord]int{{0, 0}: 2, {4, 3}: 2, {2, 0}: 3, {0, 2}: 3, {2, 2}: 4}
		for coord, want := range counts {
			c, _ := g.Cell(coord)
			got := g.Neighbors(c)
			if len(got) != want {
				t.Fatalf("cell %v: expected %d neighbours, got %d", coord, want, len(got))
			}
			for _, n := range got {
				if n == nil {
					t.Fatalf("cell %v: nil neighbour", coord)
				}
			}
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		for i := range g.Cells() {
			a := g.At(i)
			for _, d := range []Direction{DirRight, DirLeft, DirForward, DirBack} {
				b := g.Neighbor(a, d)
				if b == nil {
					continue
				}
				if back := g.Neighbor(b, d.Opposite()); back != a {
					t.Fatalf("%v -%s-> %v but back is %v", a.Coord, d, b.Coord, back)
				}
			}
		}
	})

	t.Run("indices_match_cells", func(t *testing.T) {
		c, _ := g.Cell(Coord{0, 3})
		cells := g.Neighbors(c)
		idx := g.NeighborIndices(g.IndexOf(c), nil)
		if len(cells) != len(idx) {
			t.Fatalf("expected %d indices, got %d", len(cells), len(idx))
		}
		for i := range idx {
			if g.At(idx[i]) != cells[i] {
				t.Fatalf("index %d does not match neighbour %v", idx[i], cells[i].Coord)
			}
		}
	})
}

func TestDirectionFromVector(t *testing.T) {
	cases := []struct {
		v    common.Vector3
		want Direction
		ok   bool
	}{
		{common.Right, DirRight, true},
		{common.Left, DirLeft, true},
		{common.Forward, DirForward, true},
		{common.Back, DirBack, true},
		{common.Up, DirForward, true},
		{common.Down, DirBack, true},
		{common.Vec3(1, 0, 1), 0, false},
	}
	for _, c := range cases {
		got, ok := DirectionFromVector(c.v)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("DirectionFromVector(%v) = %v,%v want %v,%v", c.v, got, ok, c.want, c.ok)
		}
	}
}

func TestMoveCell(t *testing.T) {
	g := newTestGrid(t, fiveByFive(), nil)
	from := common.Vec3(1, 0, -1)
	to := common.Vec3(1.2, 3.5, -0.9)

	c := g.MoveCellAt(from, to)
	if c.Coord != (Coord{3, 1}) {
		t.Fatalf("moved the wrong cell: %v", c.Coord)
	}
	if c.World != to {
		t.Fatalf("world position %v, want %v", c.World, to)
	}
	if c.GridY != 3.5 {
		t.Fatalf("grid y %v, want 3.5", c.GridY)
	}
	if gp := c.GridPosition(); gp != common.Vec3(3, 3.5, 1) {
		t.Fatalf("grid position %v", gp)
	}
	if g.CellAt(from) != c {
		t.Fatalf("moving a cell must not change the world to cell mapping")
	}
}

func TestClosest(t *testing.T) {
	g := newTestGrid(t, fiveByFive(), nil)
	cell := func(x, z int) *Cell {
		c, _ := g.Cell(Coord{x, z})
		return c
	}
	cells := []*Cell{cell(0, 0), cell(1, 0), cell(2, 0), cell(2, 1)}

	t.Run("nearest", func(t *testing.T) {
		if got := Closest(cells, common.Vec3(-0.9, 0, -2.2)); got != cell(1, 0) {
			t.Fatalf("expected (1,0), got %v", got.Coord)
		}
	})
	t.Run("tie_prefers_first", func(t *testing.T) {
		// equidistant from (0,0) and (1,0)
		if got := Closest(cells, common.Vec3(-1.5, 0, -2)); got != cell(0, 0) {
			t.Fatalf("expected (0,0), got %v", got.Coord)
		}
	})
	t.Run("next", func(t *testing.T) {
		if got := ClosestNext(cells, common.Vec3(-1, 0, -2)); got != cell(2, 0) {
			t.Fatalf("expected (2,0), got %v", got.Coord)
		}
	})
	t.Run("next_of_last_is_last", func(t *testing.T) {
		if got := ClosestNext(cells, common.Vec3(0, 0, -1)); got != cell(2, 1) {
			t.Fatalf("expected (2,1), got %v", got.Coord)
		}
	})
	t.Run("empty", func(t *testing.T) {
		if Closest(nil, common.Zero) != nil || ClosestNext(nil, common.Zero) != nil {
			t.Fatalf("expected nil for empty input")
		}
	})
}

func TestConfigure(t *testing.T) {
	g := newTestGrid(t, fiveByFive(), nil)
	gen := g.Generation()

	if err := g.Configure(Config{SizeX: 0, SizeZ: 2, CellRadius: 1}); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if g.SizeX() != 5 || g.Len() != 25 || g.Generation() != gen {
		t.Fatalf("failed Configure must leave the grid untouched")
	}

	if err := g.Configure(Config{SizeX: 3, SizeZ: 2, CellRadius: 1}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if g.Len() != 6 || g.SizeX() != 3 || g.SizeZ() != 2 {
		t.Fatalf("expected 3x2 grid, got %dx%d (%d cells)", g.SizeX(), g.SizeZ(), g.Len())
	}
	if g.CellDiameter() != 2 {
		t.Fatalf("expected diameter 2, got %v", g.CellDiameter())
	}
	if g.Generation() != gen+1 {
		t.Fatalf("Configure should advance the generation from %d, got %d", gen, g.Generation())
	}
}

func TestSetClassifierAndRebuild(t *testing.T) {
	g := newTestGrid(t, layered(fiveByFive()), nil)
	g.SetExcluded(Coord{1, 1}, true)

	g.SetClassifier(cellsAt(testObstacle, Coord{2, 2}))
	if len(g.ObstacleCells()) != 0 {
		t.Fatalf("SetClassifier must not rebuild, got %v", g.ObstacleCells())
	}

	gen := g.Generation()
	g.Rebuild()
	if g.Generation() != gen+1 {
		t.Fatalf("Rebuild should advance the generation")
	}
	if got := g.ObstacleCells(); len(got) != 1 || got[0] != (Coord{2, 2}) {
		t.Fatalf("expected [(2,2)] after rebuild, got %v", got)
	}
	if c, _ := g.Cell(Coord{1, 1}); c.Excluded {
		t.Fatalf("rebuild should discard exclusions")
	}
}
