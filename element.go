package jigsaw

import "image"

// Source is the image to cut together with its device scale factor.
// Geometry is computed in points; pixels = points * Scale.
type Source struct {
	Image image.Image

	// Scale is the number of pixels per point. Zero means 1.
	Scale float64
}

// NewSource wraps an image with a scale factor of 1.
func NewSource(img image.Image) Source {
	return Source{Image: img, Scale: 1}
}

func (s Source) scale() float64 {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// Size returns the image size in points.
func (s Source) Size() Size {
	if s.Image == nil {
		return Size{}
	}
	b := s.Image.Bounds()
	return Size{
		Width:  float64(b.Dx()) / s.scale(),
		Height: float64(b.Dy()) / s.scale(),
	}
}

// Element is a finished puzzle piece.
type Element struct {
	// Image is the cropped, clipped and shaded piece.
	Image image.Image

	// Position is where the piece's image must be drawn on the board, in
	// points. Outward tabs on the top and left sides move it up and left of
	// the nominal cell corner.
	Position Point

	// Unit is the geometry the piece was built from.
	Unit *Unit

	Row, Column int
}

// Board is the result of cutting a source into a grid of pieces.
type Board struct {
	Rows, Columns int

	// UnitSize is the nominal cell size in points, tabs excluded.
	UnitSize Size

	// Units and Elements are indexed [row][column].
	Units    [][]*Unit
	Elements [][]*Element
}

// Element returns the piece at (row, col), or nil when out of range.
func (b *Board) Element(row, col int) *Element {
	if row < 0 || row >= len(b.Elements) || col < 0 || col >= len(b.Elements[row]) {
		return nil
	}
	return b.Elements[row][col]
}

// Pieces returns all pieces in row-major order.
func (b *Board) Pieces() []*Element {
	out := make([]*Element, 0, b.Rows*b.Columns)
	for _, row := range b.Elements {
		for _, e := range row {
			if e != nil {
				out = append(out, e)
			}
		}
	}
	return out
}
