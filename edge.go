package jigsaw

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Edge tells the unit factory how to build one side of a piece.
// It is one of Flat, Free or Mirrored.
type Edge interface {
	isEdge()
	fmt.Stringer
}

// Flat is a straight side without a tab, used on the outer border.
type Flat struct{}

// Free is a side with a tab whose direction is picked at random. It is only
// valid where no neighbor constrains the side.
type Free struct{}

// Mirrored is a side that must interlock with an already built neighbor.
// Segment is the neighbor's facing segment in its unrotated form.
type Mirrored struct {
	Segment Segment
}

func (Flat) isEdge()     {}
func (Free) isEdge()     {}
func (Mirrored) isEdge() {}

func (Flat) String() string     { return "flat" }
func (Free) String() string     { return "free" }
func (Mirrored) String() string { return "mirrored" }

// Edges holds one Edge per side of a unit.
type Edges struct {
	Top, Right, Bottom, Left Edge
}

// BoolSource supplies the random choice between an outward and an inward tab
// for Free edges.
type BoolSource interface {
	Bool() bool
}

// randSource is a BoolSource backed by math/rand/v2. rand.Rand is not safe
// for concurrent use, so access is serialized.
type randSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandSource returns a BoolSource seeded with seed. Two sources with the
// same seed produce the same sequence.
func NewRandSource(seed uint64) BoolSource {
	return &randSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randSource) Bool() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(2) == 1
}

// globalSource uses the process-wide generator.
type globalSource struct{}

func (globalSource) Bool() bool {
	return rand.IntN(2) == 1
}
