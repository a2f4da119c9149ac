package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"golang.org/x/image/colornames"
)

const (
	shapeCircleSegments = 24
	shapeDotSize        = 4
	markerSize          = 0.6 // fraction of a cell
	headingSize         = 0.4 // fraction of a cell
)

var (
	colorBackground = colornames.Black
	colorFree       = colornames.Darkslategray
	colorObstacle   = colornames.Firebrick
	colorIgnored    = colornames.Olivedrab
	colorExcluded   = colornames.Dimgray
	colorPath       = colornames.Gold
	colorHeading    = colornames.Khaki
	colorFollower   = colornames.Deepskyblue
	colorTarget     = colornames.Orangered
	colorShape      = colornames.Lightgrey
)

func cellColor(c *grid.Cell) color.Color {
	switch {
	case c.Obstacle:
		return colorObstacle
	case c.Excluded:
		return colorExcluded
	case c.Ignorable:
		return colorIgnored
	}
	return colorFree
}

func drawCells(screen *ebiten.Image, v view, g *grid.Grid) {
	for i := 0; i < g.Len(); i++ {
		c := g.At(i)
		x, y, side := v.cellRect(c)
		vector.FillRect(screen, float32(x+1), float32(y+1), float32(side-2), float32(side-2), cellColor(c), false)
	}
}

// drawPath draws the line from the follower through every waypoint.
func drawPath(screen *ebiten.Image, v view, from common.Vector3, waypoints []common.Vector3) {
	px, py := v.toScreen(from.X, from.Z)
	for _, w := range waypoints {
		x, y := v.toScreen(w.X, w.Z)
		vector.StrokeLine(screen, float32(px), float32(py), float32(x), float32(y), 3, colorPath, true)
		px, py = x, y
	}
}

// drawHeadings ticks every path cell toward the cell it was reached from.
func drawHeadings(screen *ebiten.Image, v view, waypoints, directions []common.Vector3, cellPixels int) {
	length := float64(cellPixels) * headingSize / v.scale
	for i := 0; i < len(waypoints) && i < len(directions); i++ {
		x1, y1, x2, y2, ok := headingTick(v, waypoints[i], directions[i], length)
		if !ok {
			continue
		}
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 2, colorHeading, true)
	}
}

// headingTick returns the screen segment from at along dir for length world
// units. ok is false for a zero direction.
func headingTick(v view, at, dir common.Vector3, length float64) (x1, y1, x2, y2 float64, ok bool) {
	if dir.Equals(common.Zero) {
		return 0, 0, 0, 0, false
	}
	end := at.Add(dir.Scale(length))
	x1, y1 = v.toScreen(at.X, at.Z)
	x2, y2 = v.toScreen(end.X, end.Z)
	return x1, y1, x2, y2, true
}

func drawMarker(screen *ebiten.Image, v view, pos common.Vector3, cellPixels int, clr color.Color) {
	x, y := v.toScreen(pos.X, pos.Z)
	side := float64(cellPixels) * markerSize
	vector.FillRect(screen, float32(x-side/2), float32(y-side/2), float32(side), float32(side), clr, false)
	vector.StrokeRect(screen, float32(x-side/2), float32(y-side/2), float32(side), float32(side), 1, colornames.White, false)
}

// drawShapes outlines the physics shapes. Shapes without an entry in colors
// use the default outline color.
func drawShapes(screen *ebiten.Image, v view, space *cp.Space, colors map[*cp.Shape]color.Color) {
	cp.DrawSpace(space, &shapeDrawer{screen: screen, view: v, colors: colors})
}

// shapeDrawer renders a cp space on the ground plane. cp's X,Y are world X,Z.
type shapeDrawer struct {
	screen *ebiten.Image
	view   view
	colors map[*cp.Shape]color.Color
}

func (d *shapeDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, fill)
}

func (d *shapeDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *shapeDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
	if radius > 0 {
		d.drawCircle(a, radius, fill)
		d.drawCircle(b, radius, fill)
	}
}

func (d *shapeDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], fill)
}

func (d *shapeDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = shapeDotSize
	}
	x, y := d.view.toScreen(pos.X, pos.Y)
	vector.FillRect(d.screen, float32(x-size/2), float32(y-size/2), float32(size), float32(size), toNRGBA(fill), false)
}

func (d *shapeDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *shapeDrawer) OutlineColor() cp.FColor {
	return toFColor(colorShape)
}

func (d *shapeDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if c, ok := d.colors[shape]; ok {
		return toFColor(c)
	}
	return toFColor(colorShape)
}

func (d *shapeDrawer) ConstraintColor() cp.FColor {
	return toFColor(colorShape)
}

func (d *shapeDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colorShape)
}

func (d *shapeDrawer) Data() interface{} {
	return nil
}

func (d *shapeDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 2, toNRGBA(c), true)
}

func (d *shapeDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *shapeDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, shapeCircleSegments)
	for i := 0; i < shapeCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(shapeCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(common.Clamp01(float64(c.R)) * 255),
		G: uint8(common.Clamp01(float64(c.G)) * 255),
		B: uint8(common.Clamp01(float64(c.B)) * 255),
		A: uint8(common.Clamp01(float64(c.A)) * 255),
	}
}

func toFColor(c color.Color) cp.FColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return cp.FColor{
		R: float32(n.R) / 255,
		G: float32(n.G) / 255,
		B: float32(n.B) / 255,
		A: float32(n.A) / 255,
	}
}
