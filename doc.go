// Package jigsaw cuts an image into interlocking jigsaw puzzle pieces.
//
// # Overview
//
// Every edge of every piece is derived from a single tab silhouette, the
// Pattern: four cubic Bezier curves spanning [0, 1] horizontally. An edge on
// the border of the board is flattened, an edge shared with an already built
// neighbor mirrors that neighbor's edge, and any other edge gets a tab whose
// direction is picked at random.
//
// # Quick Start
//
//	import "github.com/gogpu/jigsaw"
//
//	m := jigsaw.New(jigsaw.WithSeed(42))
//	board, err := m.Generate(jigsaw.NewSource(img), 4, 6)
//	if err != nil {
//	    return err
//	}
//	for _, piece := range board.Pieces() {
//	    // piece.Image is drawn at piece.Position (points)
//	}
//
// # Architecture
//
// The package is organized into:
//   - Geometry: Point, Matrix, Curve, Segment, Path
//   - Pieces: Edge, Unit, the grid resolver
//   - Pipeline: Maker, Source, Board, Element
//   - Rendering: Renderer and the CPU SoftwareRenderer
//
// Units are resolved sequentially in row-major order. Compositing (crop,
// clip, two inner shadow passes) runs on a worker pool.
//
// # Coordinate System
//
// Unit outlines use y-up coordinates with outward tabs pointing to positive
// local y. Element positions and the source image use the usual y-down image
// coordinates, measured in points; pixels are points multiplied by
// Source.Scale.
//
// # Errors
//
// Generate returns one of ErrInvalidGridSize, ErrInvalidImageSize or
// ErrUnitUnavailable, possibly wrapped; test with errors.Is.
package jigsaw

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
