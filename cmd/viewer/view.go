package main

import (
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
)

// view maps the grid's ground plane to screen pixels. World +Z points up the
// screen.
type view struct {
	originX float64 // world X of the grid's left edge
	top     float64 // world Z of the grid's far edge
	scale   float64 // pixels per world unit
	width   int
	height  int
}

func newView(g *grid.Grid, cellPixels int) view {
	d := g.CellDiameter()
	c := g.Center()
	originX := c.X - float64(g.SizeX())/2
	originZ := c.Z - float64(g.SizeZ())/2
	return view{
		originX: originX,
		top:     originZ + float64(g.SizeZ())*d,
		scale:   float64(cellPixels) / d,
		width:   g.SizeX() * cellPixels,
		height:  g.SizeZ() * cellPixels,
	}
}

func (v view) toScreen(x, z float64) (float64, float64) {
	return (x - v.originX) * v.scale, (v.top - z) * v.scale
}

func (v view) toWorld(px, py int) common.Vector3 {
	return common.Vec3(
		v.originX+float64(px)/v.scale,
		0,
		v.top-float64(py)/v.scale,
	)
}

func (v view) contains(px, py int) bool {
	return px >= 0 && py >= 0 && px < v.width && py < v.height
}

// cellRect returns the top-left corner and side of c in pixels.
func (v view) cellRect(c *grid.Cell) (x, y, side float64) {
	x, y = v.toScreen(c.World.X-c.Radius, c.World.Z+c.Radius)
	return x, y, c.Radius * 2 * v.scale
}
