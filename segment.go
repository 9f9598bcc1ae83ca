package jigsaw

// Segment is one side of a puzzle piece: four cubic curves traversed from the
// local origin. Segments are values; every transform returns a new one and two
// segments are equal (==) exactly when their curves are.
type Segment [4]Curve

// Pattern returns the canonical tab silhouette spanning x in [0, 1] and
// y in [0, 1/3]. Every edge of every piece is derived from it.
func Pattern() Segment {
	return Segment{
		{End: Pt(0.4, 0), Control1: Pt(1.0/9, 0), Control2: Pt(2.0/9, 0)},
		{End: Pt(0.5, 1.0/3), Control1: Pt(0.4, 0), Control2: Pt(1.0/5, 1.0/3)},
		{End: Pt(0.6, 0), Control1: Pt(0.8, 1.0/3), Control2: Pt(0.6, 0)},
		{End: Pt(1.0, 0), Control1: Pt(7.0/9, 0), Control2: Pt(8.0/9, 0)},
	}
}

// apply maps f over every point of every curve.
func (s Segment) apply(f func(Point) Point) Segment {
	var out Segment
	for i, c := range s {
		out[i] = c.apply(f)
	}
	return out
}

// Flatten returns the segment with every y component set to zero.
func (s Segment) Flatten() Segment {
	return s.apply(func(p Point) Point { return Point{X: p.X} })
}

// Mirror returns the segment with every y component negated, turning an
// outward tab into an inward one and vice versa.
func (s Segment) Mirror() Segment {
	return s.apply(func(p Point) Point { return Point{X: p.X, Y: -p.Y} })
}

// Scale returns the segment with x components multiplied by sx and y
// components by sy.
func (s Segment) Scale(sx, sy float64) Segment {
	return s.apply(func(p Point) Point { return Point{X: p.X * sx, Y: p.Y * sy} })
}

// Rotate returns the segment moved by one quarter turn, see QuarterTurn.
// Four rotations with the same ty give back the original segment within
// Tolerance.
func (s Segment) Rotate(ty float64) Segment {
	return s.Transform(QuarterTurn(ty))
}

// Transform returns the segment with m applied to every point.
func (s Segment) Transform(m Matrix) Segment {
	return s.apply(m.TransformPoint)
}

// Start returns the point the segment is traversed from.
func (s Segment) Start() Point {
	return Point{}
}

// End returns the end point of the last curve.
func (s Segment) End() Point {
	return s[len(s)-1].End
}

// Path returns the segment as an open path starting at the origin.
func (s Segment) Path() *Path {
	p := NewPath()
	p.MoveTo(s.Start())
	p.AddCurves(s[:]...)
	return p
}

// OuterHeight returns how far an outward tab reaches beyond the baseline.
// Flat segments and inward tabs (any point below the baseline) report zero.
func (s Segment) OuterHeight() float64 {
	b := s.Path().Bounds()
	if b.Min.Y < 0 || b.Height() == 0 {
		return 0
	}
	return b.Height()
}

// ApproxEqual reports whether every point of s is within tol of the
// corresponding point of other.
func (s Segment) ApproxEqual(other Segment, tol float64) bool {
	return s.compare(other, func(a, b Point) bool { return a.ApproxEqual(b, tol) })
}

// SameMagnitude reports whether every coordinate of s has the same absolute
// value as the corresponding coordinate of other, within tol. Mirrored
// segments have the same magnitude.
func (s Segment) SameMagnitude(other Segment, tol float64) bool {
	return s.compare(other, func(a, b Point) bool { return a.Abs().ApproxEqual(b.Abs(), tol) })
}

// IsFlat reports whether every y component is zero.
func (s Segment) IsFlat() bool {
	for _, c := range s {
		for _, p := range c.points() {
			if p.Y != 0 {
				return false
			}
		}
	}
	return true
}

func (s Segment) compare(other Segment, eq func(a, b Point) bool) bool {
	for i := range s {
		a, b := s[i].points(), other[i].points()
		for j := range a {
			if !eq(a[j], b[j]) {
				return false
			}
		}
	}
	return true
}
