// Package geometry provides the scene-space primitives shared by placement,
// hosts and the lesson: points, sizes, axis-aligned rectangles and obstacles.
//
// All coordinates are scene units (virtual pixels) with the
// origin at the top-left corner and y growing downwards.
package geometry

import "math"

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// DistSq returns the squared euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.DistSq(q))
}

// Size is the extent of a scene.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// RectOf returns the rectangle covering the whole of size s.
func RectOf(s Size) Rect {
	return Rect{W: s.Width, H: s.Height}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Inflate grows r by margin on every side. A negative margin shrinks it.
func (r Rect) Inflate(margin float64) Rect {
	return Rect{
		X: r.X - margin,
		Y: r.Y - margin,
		W: r.W + margin*2,
		H: r.H + margin*2,
	}
}

// Intersects reports whether r and o overlap.
// Rectangles are disjoint iff one lies entirely to the left, right, above or
// below the other; shared edges do not count as overlap.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right() <= o.X || o.Right() <= r.X || r.Bottom() <= o.Y || o.Bottom() <= r.Y)
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// SplitVertical returns the left and right halves of r.
func (r Rect) SplitVertical() (left, right Rect) {
	half := r.W / 2
	left = Rect{X: r.X, Y: r.Y, W: half, H: r.H}
	right = Rect{X: r.X + half, Y: r.Y, W: r.W - half, H: r.H}
	return left, right
}

// SquareAround returns the d×d square whose center is c.
func SquareAround(c Point, d float64) Rect {
	return Rect{X: c.X - d/2, Y: c.Y - d/2, W: d, H: d}
}
