package jigsaw

import "fmt"

// MinGridSize is the smallest number of rows and columns a board can have.
const MinGridSize = 2

// unitGrid is a dense rows x columns matrix of units, filled in row-major
// order. Neighbors are plain index lookups.
type unitGrid [][]*Unit

func newUnitGrid(rows, cols int) unitGrid {
	g := make(unitGrid, rows)
	for r := range g {
		g[r] = make([]*Unit, cols)
	}
	return g
}

// at returns the unit at (row, col) or nil when it is missing or out of range.
func (g unitGrid) at(row, col int) *Unit {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil
	}
	return g[row][col]
}

// resolveEdges decides the edge kind of every side of cell (row, col).
// Outer sides are flat, sides shared with an already built neighbor mirror
// that neighbor, and the remaining sides are free.
func resolveEdges(g unitGrid, row, col int) (Edges, error) {
	lastRow := len(g) - 1
	lastCol := len(g[row]) - 1

	edges := Edges{Top: Flat{}, Right: Free{}, Bottom: Free{}, Left: Flat{}}

	if row > 0 {
		top := g.at(row-1, col)
		if top == nil {
			return Edges{}, fmt.Errorf("%w: top neighbor of (%d, %d)", ErrUnitUnavailable, row, col)
		}
		edges.Top = Mirrored{Segment: top.Bottom}
	}
	if col > 0 {
		left := g.at(row, col-1)
		if left == nil {
			return Edges{}, fmt.Errorf("%w: left neighbor of (%d, %d)", ErrUnitUnavailable, row, col)
		}
		edges.Left = Mirrored{Segment: left.Right}
	}
	if col == lastCol {
		edges.Right = Flat{}
	}
	if row == lastRow {
		edges.Bottom = Flat{}
	}
	return edges, nil
}
