package jigsaw

import "errors"

var (
	// ErrInvalidGridSize is returned when the grid has fewer than two rows or
	// two columns. No work is started.
	ErrInvalidGridSize = errors.New("jigsaw: grid needs at least 2 rows and 2 columns")

	// ErrUnitUnavailable is returned when a cell's top or left neighbor has not
	// been built when the cell is resolved.
	ErrUnitUnavailable = errors.New("jigsaw: neighbor puzzle unit unavailable")

	// ErrInvalidImageSize is returned when the renderer could not crop, clip or
	// shade at least one piece. The whole board is discarded.
	ErrInvalidImageSize = errors.New("jigsaw: image cannot be cut into pieces")
)
