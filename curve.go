package jigsaw

import "math"

// Rect represents an axis-aligned rectangle.
// Min is the top-left corner (minimum coordinates).
// Max is the bottom-right corner (maximum coordinates).
type Rect struct {
	Min, Max Point
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, other.Min.X), Y: math.Min(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, other.Max.X), Y: math.Max(r.Max.Y, other.Max.Y)},
	}
}

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Point) Rect {
	return r.Union(Rect{Min: p, Max: p})
}

// Curve is one cubic Bezier piece of a segment. The start point is implied by
// the end point of the previous curve (or the segment origin for the first one).
type Curve struct {
	End      Point
	Control1 Point
	Control2 Point
}

// apply returns the curve with f applied to all three points.
func (c Curve) apply(f func(Point) Point) Curve {
	return Curve{
		End:      f(c.End),
		Control1: f(c.Control1),
		Control2: f(c.Control2),
	}
}

// points returns the three points in a fixed order.
func (c Curve) points() [3]Point {
	return [3]Point{c.End, c.Control1, c.Control2}
}
