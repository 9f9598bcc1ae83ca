package jigsaw

import "fmt"

// Unit is the geometry of one puzzle piece.
//
// The four segments are kept in their unrotated orientation so a neighbor can
// mirror them directly. Outline is the closed path built from the rotated
// segments (top, right, bottom, left) and translated so its bounding box
// starts at the origin. The outline uses a y-up coordinate space: outward tabs
// have positive local y on every side.
type Unit struct {
	Top    Segment
	Right  Segment
	Bottom Segment
	Left   Segment

	Outline *Path
}

// Bounds returns the size of the outline, tabs included.
func (u *Unit) Bounds() Size {
	return u.Outline.Bounds().Size()
}

// NewUnit builds a unit for a cell of the given size. Sizes are not validated;
// a degenerate size produces a degenerate outline. Every side of edges must be
// set; NewUnit panics on a nil Edge.
func NewUnit(size Size, edges Edges, rnd BoolSource) *Unit {
	if rnd == nil {
		rnd = globalSource{}
	}
	w, h := size.Width, size.Height

	top := buildSegment(edges.Top, w, h, rnd)
	right := buildSegment(edges.Right, h, h, rnd)
	bottom := buildSegment(edges.Bottom, w, w, rnd)
	left := buildSegment(edges.Left, h, h, rnd)

	outline := NewPath()
	outline.MoveTo(Point{})
	outline.AddCurves(top[:]...)
	r := right.Rotate(w)
	outline.AddCurves(r[:]...)
	b := bottom.Rotate(h).Rotate(w)
	outline.AddCurves(b[:]...)
	l := left.Rotate(h).Rotate(h).Rotate(h)
	outline.AddCurves(l[:]...)
	outline.Close()

	origin := outline.Bounds().Min
	outline = outline.Transform(Translate(-origin.X, -origin.Y))

	return &Unit{
		Top:     top,
		Right:   right,
		Bottom:  bottom,
		Left:    left,
		Outline: outline,
	}
}

// buildSegment derives one unrotated side from the pattern.
func buildSegment(edge Edge, sx, sy float64, rnd BoolSource) Segment {
	switch e := edge.(type) {
	case Flat:
		return Pattern().Flatten().Scale(sx, sy)
	case Free:
		s := Pattern().Scale(sx, sy)
		if rnd.Bool() {
			s = s.Mirror()
		}
		return s
	case Mirrored:
		return e.Segment.Mirror()
	default:
		panic(fmt.Sprintf("jigsaw: unknown edge %T", edge))
	}
}
