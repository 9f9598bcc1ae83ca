package jigsaw

import "math"

// Tolerance is the default absolute tolerance used by the approximate
// comparisons in this package. Four successive quarter turns of a segment
// accumulate errors several orders of magnitude below it.
const Tolerance = 1e-9

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Abs returns the point with both components made non-negative.
func (p Point) Abs() Point {
	return Point{X: math.Abs(p.X), Y: math.Abs(p.Y)}
}

// ApproxEqual reports whether both components of p and q differ by at most tol.
func (p Point) ApproxEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Size is a width and height pair in points.
type Size struct {
	Width, Height float64
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}
