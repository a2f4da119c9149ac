package physics

import (
	"testing"

	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
)

const (
	layerWall grid.Layer = 1 << iota
	layerWater
)

func TestOverlaps(t *testing.T) {
	w := NewWorld()
	w.AddBox(common.Vec3(0, 0, 0), 2, 2, layerWall)
	w.AddCircle(common.Vec3(5, 0, 0), 1, layerWater)
	w.AddSegment(common.Vec3(-5, 0, -5), common.Vec3(-5, 0, 5), 0.1, layerWall)

	cases := []struct {
		name   string
		pos    common.Vector3
		radius float64
		layer  grid.Layer
		want   bool
	}{
		{"inside_box", common.Vec3(0.5, 0, 0.5), 0.1, layerWall, true},
		{"inside_box_other_layer", common.Vec3(0.5, 0, 0.5), 0.1, layerWater, false},
		{"near_box_edge", common.Vec3(1.3, 0, 0), 0.5, layerWall, true},
		{"clear_of_box", common.Vec3(2, 0, 0), 0.5, layerWall, false},
		{"inside_circle", common.Vec3(5, 0, 0.5), 0.1, layerWater, true},
		{"both_layers", common.Vec3(5, 0, 0), 0.1, layerWall | layerWater, true},
		{"touching_segment", common.Vec3(-4.5, 0, 0), 0.5, layerWall, true},
		{"height_ignored", common.Vec3(0, 100, 0), 0.1, layerWall, true},
		{"zero_layer", common.Vec3(0, 0, 0), 1, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.Overlaps(c.pos, c.radius, c.layer); got != c.want {
				t.Fatalf("Overlaps(%v, %v, %v) = %v, want %v", c.pos, c.radius, c.layer, got, c.want)
			}
		})
	}
}

func TestPolygon(t *testing.T) {
	w := NewWorld()
	w.AddPolygon([]common.Vector3{
		common.Vec3(0, 0, 0),
		common.Vec3(4, 0, 0),
		common.Vec3(2, 0, 3),
		common.Vec3(2, 0, 1), // interior, dropped by the hull
	}, layerWall)

	if !w.Overlaps(common.Vec3(2, 0, 1), 0.01, layerWall) {
		t.Fatalf("expected overlap inside the triangle")
	}
	if w.Overlaps(common.Vec3(0, 0, 3), 0.1, layerWall) {
		t.Fatalf("unexpected overlap outside the triangle")
	}
}

func TestRemove(t *testing.T) {
	w := NewWorld()
	w.AddBox(common.Vec3(0, 0, 0), 1, 1, layerWall)
	w.AddBox(common.Vec3(3, 0, 0), 1, 1, layerWater)

	if n := w.Remove(layerWall); n != 1 {
		t.Fatalf("expected 1 removed shape, got %d", n)
	}
	if len(w.Shapes()) != 1 {
		t.Fatalf("expected 1 remaining shape, got %d", len(w.Shapes()))
	}
	if w.Overlaps(common.Vec3(0, 0, 0), 0.1, layerWall) {
		t.Fatalf("removed shape still overlaps")
	}
	if !w.Overlaps(common.Vec3(3, 0, 0), 0.1, layerWater) {
		t.Fatalf("kept shape no longer overlaps")
	}
}

func TestAddTilesMergesRuns(t *testing.T) {
	w := NewWorld()
	n := w.AddTiles(TileMap{
		Rows: []string{
			"##..",
			"##.~",
			"....",
		},
		Origin: common.Vec3(-2, 0, -1.5),
		Size:   1,
		Legend: map[rune]grid.Layer{'#': layerWall, '~': layerWater},
	})
	if n != 2 {
		t.Fatalf("expected the 2x2 block and the single water tile, got %d boxes", n)
	}

	for _, s := range w.Shapes() {
		if ShapeLayer(s) == layerWall {
			bb := s.BB()
			if bb.L != -2 || bb.R != 0 || bb.B != -1.5 || bb.T != 0.5 {
				t.Fatalf("unexpected merged box %+v", bb)
			}
		}
	}
	if !w.Overlaps(common.Vec3(1.5, 0, 0), 0.1, layerWater) {
		t.Fatalf("expected water tile at (1.5, 0)")
	}
	if w.Overlaps(common.Vec3(0.5, 0, -1), 0.1, layerWall|layerWater) {
		t.Fatalf("unexpected overlap on an empty tile")
	}
}

func TestClassifiesGrid(t *testing.T) {
	w := NewWorld()
	// wall covering column x=2 of a 5x5 grid of unit cells, leaving z=4 open
	w.AddBox(common.Vec3(0, 0, -0.5), 0.8, 3.8, layerWall)

	g, err := grid.New(grid.Config{
		SizeX:         5,
		SizeZ:         5,
		CellRadius:    0.5,
		ObstacleLayer: layerWall,
	}, w)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}

	want := map[grid.Coord]bool{{X: 2, Z: 0}: true, {X: 2, Z: 1}: true, {X: 2, Z: 2}: true, {X: 2, Z: 3}: true}
	got := g.ObstacleCells()
	if len(got) != len(want) {
		t.Fatalf("expected %d obstacles, got %v", len(want), got)
	}
	for _, c := range got {
		if !want[c] {
			t.Fatalf("unexpected obstacle %v", c)
		}
	}
}
