package jigsaw

import "image"

// Renderer turns a source image and a piece outline into the piece image.
//
// Each step returns a new image; an error means the step produced nothing
// (typically degenerate geometry) and fails the piece. Implementations must be
// safe for concurrent use: one call per piece may run at the same time.
type Renderer interface {
	// Crop copies the part of img inside r. The result's bounds start at the
	// origin.
	Crop(img image.Image, r image.Rectangle) (image.Image, error)

	// Clip keeps the pixels of img inside the closed outline and clears the
	// rest. The outline is in the pixel space of img.
	Clip(img image.Image, outline *Path) (image.Image, error)

	// InnerShadow shades img inside the outline with one shadow pass.
	// Shadow offset and blur are in pixels.
	InnerShadow(img image.Image, outline *Path, shadow Shadow) (image.Image, error)
}
