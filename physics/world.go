// Package physics keeps static obstacle geometry in a Chipmunk space and
// answers the sphere overlap queries used to classify grid cells.
//
// The world is planar: a position's X and Z map to the space's X and Y, and
// height is ignored.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/gridpath/common"
	"github.com/milk9111/gridpath/grid"
	"go.uber.org/zap"
)

// World owns a cp.Space holding only static shapes. Each shape belongs to the
// layers given when it was added.
type World struct {
	space  *cp.Space
	shapes []*cp.Shape
	log    *zap.Logger
}

type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		space: cp.NewSpace(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Shapes returns every shape added so far, in insertion order.
func (w *World) Shapes() []*cp.Shape {
	return w.shapes
}

func planar(v common.Vector3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

// ShapeLayer returns the layers a shape was added on.
func ShapeLayer(shape *cp.Shape) grid.Layer {
	return grid.Layer(shape.Filter.Categories)
}

func (w *World) add(shape *cp.Shape, layer grid.Layer) *cp.Shape {
	shape.SetFilter(cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: uint(layer),
		Mask:       cp.ALL_CATEGORIES,
	})
	w.space.AddShape(shape)
	w.shapes = append(w.shapes, shape)
	return shape
}

// AddBox adds an axis-aligned box centered on center with the given extent
// along X (width) and Z (depth).
func (w *World) AddBox(center common.Vector3, width, depth float64, layer grid.Layer) *cp.Shape {
	bb := cp.BB{
		L: center.X - width/2,
		B: center.Z - depth/2,
		R: center.X + width/2,
		T: center.Z + depth/2,
	}
	return w.add(cp.NewBox2(w.space.StaticBody, bb, 0), layer)
}

func (w *World) AddCircle(center common.Vector3, radius float64, layer grid.Layer) *cp.Shape {
	return w.add(cp.NewCircle(w.space.StaticBody, radius, planar(center)), layer)
}

// AddSegment adds a capsule from a to b with the given radius.
func (w *World) AddSegment(a, b common.Vector3, radius float64, layer grid.Layer) *cp.Shape {
	return w.add(cp.NewSegment(w.space.StaticBody, planar(a), planar(b), radius), layer)
}

// AddPolygon adds the convex hull of points.
func (w *World) AddPolygon(points []common.Vector3, layer grid.Layer) *cp.Shape {
	verts := make([]cp.Vector, len(points))
	for i, p := range points {
		verts[i] = planar(p)
	}
	shape := cp.NewPolyShape(w.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
	return w.add(shape, layer)
}

// Overlaps reports whether a sphere of the given radius at pos overlaps any
// shape on layer. Shapes that only touch the sphere, within common.Epsilon,
// do not count, so tiles aligned with the grid leave their neighbours free.
// Sensors never count.
func (w *World) Overlaps(pos common.Vector3, radius float64, layer grid.Layer) bool {
	if w == nil || layer == 0 {
		return false
	}
	filter := cp.ShapeFilter{
		Group:      cp.NO_GROUP,
		Categories: cp.ALL_CATEGORIES,
		Mask:       uint(layer),
	}
	info := w.space.PointQueryNearest(planar(pos), math.Max(radius-common.Epsilon, 0), filter)
	return info.Shape != nil
}

// Remove drops every shape on layer and returns how many were removed.
func (w *World) Remove(layer grid.Layer) int {
	kept := w.shapes[:0]
	removed := 0
	for _, s := range w.shapes {
		if ShapeLayer(s)&layer != 0 {
			w.space.RemoveShape(s)
			removed++
			continue
		}
		kept = append(kept, s)
	}
	w.shapes = kept
	return removed
}
