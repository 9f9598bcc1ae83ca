package jigsaw

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point without drawing.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Path is a sequence of cubic curves. Puzzle outlines are a single closed
// subpath; segment paths stay open.
type Path struct {
	elements []PathElement
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 18),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(pt Point) {
	p.elements = append(p.elements, MoveTo{Point: pt})
}

// CubicTo draws a cubic Bezier curve from the current point.
func (p *Path) CubicTo(ctrl1, ctrl2, pt Point) {
	p.elements = append(p.elements, CubicTo{
		Control1: ctrl1,
		Control2: ctrl2,
		Point:    pt,
	})
}

// AddCurves appends every curve in order, starting at the current point.
func (p *Path) AddCurves(curves ...Curve) {
	for _, c := range curves {
		p.CubicTo(c.Control1, c.Control2, c.End)
	}
}

// Close closes the current subpath by drawing a line to the start point.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// IsClosed reports whether the last element closes the path.
func (p *Path) IsClosed() bool {
	if len(p.elements) == 0 {
		return false
	}
	_, ok := p.elements[len(p.elements)-1].(Close)
	return ok
}

// Bounds returns the bounding box of every point of the path, control points
// included. An empty path has zero bounds.
func (p *Path) Bounds() Rect {
	var (
		r     Rect
		first = true
	)
	add := func(pt Point) {
		if first {
			r = Rect{Min: pt, Max: pt}
			first = false
			return
		}
		r = r.Extend(pt)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	return r
}

// Transform applies a transformation matrix to all points in the path.
// The result never shares storage with p.
func (p *Path) Transform(m Matrix) *Path {
	if m.IsIdentity() {
		return p.Clone()
	}
	result := NewPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			result.MoveTo(m.TransformPoint(e.Point))
		case CubicTo:
			result.CubicTo(
				m.TransformPoint(e.Control1),
				m.TransformPoint(e.Control2),
				m.TransformPoint(e.Point),
			)
		case Close:
			result.Close()
		}
	}
	return result
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	return result
}
