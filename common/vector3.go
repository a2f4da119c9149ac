package common

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Equals and Normalized.
const Epsilon = 1e-5

// Vector3 is a 3D vector in world space. Y is up, X is right, Z is forward.
type Vector3 struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
}

var (
	Zero    = Vector3{}
	Right   = Vector3{X: 1}
	Left    = Vector3{X: -1}
	Up      = Vector3{Y: 1}
	Down    = Vector3{Y: -1}
	Forward = Vector3{Z: 1}
	Back    = Vector3{Z: -1}
)

func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

// Sum returns X+Y+Z.
func (v Vector3) Sum() float64 {
	return v.X + v.Y + v.Z
}

func (v Vector3) SqrMagnitude() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.SqrMagnitude())
}

// Normalized returns the unit vector in the direction of v, or the zero vector
// when v is shorter than Epsilon.
func (v Vector3) Normalized() Vector3 {
	mag := v.Magnitude()
	if mag > Epsilon {
		return v.Div(mag)
	}
	return Zero
}

// Equals reports whether v and o are within Epsilon of each other. NaN
// components never compare equal.
func (v Vector3) Equals(o Vector3) bool {
	return v.Sub(o).SqrMagnitude() < Epsilon*Epsilon
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Distance returns |a-b|.
func Distance(a, b Vector3) float64 {
	return a.Sub(b).Magnitude()
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target Vector3, maxDelta float64) Vector3 {
	delta := target.Sub(current)
	dist := delta.Magnitude()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(delta.Div(dist).Scale(maxDelta))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
