package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
)

const columnScript = `
math := import("math")

overlaps := func(layer, x, y, z, r) {
	if layer == 1 {
		return math.abs(x) < 0.5 && z < 1.5
	}
	if layer == 2 {
		return x > 1.5 && z > 1.5
	}
	return false
}

height := func(x, z) {
	if x < 0 {
		return undefined
	}
	return x * 0.5
}
`

func TestOverlaps(t *testing.T) {
	c, err := New([]byte(columnScript))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cases := []struct {
		name  string
		pos   common.Vector3
		layer grid.Layer
		want  bool
	}{
		{"wall", common.Vec3(0, 0, -2), 1, true},
		{"wall_gap", common.Vec3(0, 0, 2), 1, false},
		{"beside_wall", common.Vec3(1, 0, 0), 1, false},
		{"ignore_corner", common.Vec3(2, 0, 2), 2, true},
		{"unknown_layer", common.Vec3(0, 0, 0), 4, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.Overlaps(tc.pos, 0.5, tc.layer); got != tc.want {
				t.Fatalf("Overlaps(%v, %d) = %v, want %v", tc.pos, tc.layer, got, tc.want)
			}
		})
	}
	if err := c.Err(); err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
}

func TestSurfaceHeight(t *testing.T) {
	c, err := New([]byte(columnScript))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.HasHeight() {
		t.Fatalf("expected height to be detected")
	}
	if h, ok := c.SurfaceHeight(2, 0); !ok || h != 1 {
		t.Fatalf("SurfaceHeight(2, 0) = %v,%v want 1,true", h, ok)
	}
	if _, ok := c.SurfaceHeight(-1, 0); ok {
		t.Fatalf("undefined height should report false")
	}
}

func TestWithoutHeight(t *testing.T) {
	c, err := New([]byte(`overlaps := func(layer, x, y, z, r) { return false }`))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.HasHeight() {
		t.Fatalf("height should not be detected")
	}
	if _, ok := c.SurfaceHeight(0, 0); ok {
		t.Fatalf("expected no surface")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New([]byte(`x := 1`)); !errors.Is(err, ErrMissingOverlaps) {
		t.Fatalf("expected ErrMissingOverlaps, got %v", err)
	}
	if _, err := New([]byte(`overlaps := func(`)); err == nil {
		t.Fatalf("expected a compile error")
	}
}

func TestRuntimeErrorIsKept(t *testing.T) {
	c, err := New([]byte(`overlaps := func(layer, x, y, z, r) { return [x]["a"] }`))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Overlaps(common.Vec3(1, 0, 0), 0.5, 1) {
		t.Fatalf("failed call should not overlap")
	}
	if c.Err() == nil {
		t.Fatalf("expected the runtime error to be kept")
	}
}

func TestLoadAndClassifyGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "column.tengo")
	if err := os.WriteFile(path, []byte(columnScript), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Path() != path {
		t.Fatalf("expected path %s, got %s", path, c.Path())
	}

	g, err := grid.New(grid.Config{
		SizeX:         5,
		SizeZ:         5,
		CellRadius:    0.5,
		ObstacleLayer: 1,
		IgnoreLayer:   2,
	}, c)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	if got := len(g.ObstacleCells()); got != 4 {
		t.Fatalf("expected the 4-cell column, got %v", g.ObstacleCells())
	}
	if got := g.IgnoredCells(); len(got) != 1 || got[0] != (grid.Coord{X: 4, Z: 4}) {
		t.Fatalf("expected [(4,4)] ignored, got %v", got)
	}
	cell, _ := g.Cell(grid.Coord{X: 4, Z: 0})
	if cell.World.Y != 1 {
		t.Fatalf("expected scripted height 1, got %v", cell.World.Y)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.tengo")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
