package jigsaw

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/jigsaw/internal/parallel"
)

// errNoImage is reported when a renderer step returns neither an image nor
// an error.
var errNoImage = errors.New("renderer returned no image")

// Maker cuts images into interlocking puzzle pieces.
// A Maker is safe for concurrent use; each Generate call is independent.
type Maker struct {
	opts options

	// resolve decides the edges of a cell; replaced in tests.
	resolve func(g unitGrid, row, col int) (Edges, error)
}

// New creates a Maker with the given options.
func New(opts ...Option) *Maker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = NewSoftwareRenderer()
	}
	if o.random == nil {
		o.random = globalSource{}
	}
	return &Maker{opts: o, resolve: resolveEdges}
}

// Generate cuts src into rows x cols pieces and blocks until every piece is
// done.
//
// Units are built one by one in row-major order, since each cell mirrors its
// top and left neighbors. Every built unit is handed to the worker pool right
// away for cropping, clipping and shading. Generate returns only after all
// submitted pieces have finished, whatever the outcome.
//
// Errors, checked in this order: ErrInvalidGridSize (before any work),
// ErrInvalidImageSize (any piece failed to render), ErrUnitUnavailable
// (a neighbor was missing while building units).
func (m *Maker) Generate(src Source, rows, cols int) (*Board, error) {
	if rows < MinGridSize || cols < MinGridSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGridSize, rows, cols)
	}

	start := time.Now()
	r := newRun(m, src, rows, cols)
	pool := parallel.NewWorkerPool(m.opts.workers)
	defer pool.Close()

	log := Logger()
	log.Debug("jigsaw: generating puzzle",
		"rows", rows, "columns", cols,
		"unit_width", r.unitSize.Width, "unit_height", r.unitSize.Height,
		"scale", r.scale, "workers", pool.Workers())
	batch := pool.NewBatch()

	resolveErr := r.buildUnits(batch)
	if resolveErr != nil {
		log.Warn("jigsaw: unit resolution aborted", "err", resolveErr, "pending", batch.Len())
	}

	// Pieces already submitted run to completion even after a failure.
	batch.Wait()

	board, err := r.finalize(resolveErr)
	log.Debug("jigsaw: puzzle generated",
		"elapsed", time.Since(start), "pieces", batch.Len(), "err", err)
	return board, err
}

// GenerateAsync runs Generate on a new goroutine and calls done exactly once
// with its result.
func (m *Maker) GenerateAsync(src Source, rows, cols int, done func(*Board, error)) {
	go func() {
		done(m.Generate(src, rows, cols))
	}()
}

// run is the state of one Generate call.
type run struct {
	maker    *Maker
	src      Source
	scale    float64
	unitSize Size
	rows     int
	cols     int

	// units is written only by the building goroutine.
	units unitGrid

	// mu guards elements. Writes go to distinct cells, a single lock keeps
	// it simple and is not contended compared to rendering.
	mu       sync.Mutex
	elements [][]*Element

	imageFailed atomic.Bool
	causeOnce   sync.Once
	cause       error
}

func newRun(m *Maker, src Source, rows, cols int) *run {
	size := src.Size()
	elements := make([][]*Element, rows)
	for i := range elements {
		elements[i] = make([]*Element, cols)
	}
	return &run{
		maker: m,
		src:   src,
		scale: src.scale(),
		unitSize: Size{
			Width:  size.Width / float64(cols),
			Height: size.Height / float64(rows),
		},
		rows:     rows,
		cols:     cols,
		units:    newUnitGrid(rows, cols),
		elements: elements,
	}
}

// buildUnits builds every unit in row-major order and submits its piece.
// It stops at the first resolution failure.
func (r *run) buildUnits(batch *parallel.Batch) error {
	for row := range r.rows {
		for col := range r.cols {
			edges, err := r.maker.resolve(r.units, row, col)
			if err != nil {
				return err
			}
			u := NewUnit(r.unitSize, edges, r.maker.opts.random)
			r.units[row][col] = u
			batch.Submit(func() { r.composite(row, col, u) })
		}
	}
	return nil
}

// composite renders one piece and stores it. It does nothing once another
// piece has failed.
func (r *run) composite(row, col int, u *Unit) {
	if r.imageFailed.Load() {
		return
	}

	el, err := r.render(row, col, u)
	if err != nil {
		r.imageFailed.Store(true)
		r.causeOnce.Do(func() { r.cause = err })
		Logger().Debug("jigsaw: piece failed", "row", row, "column", col, "err", err)
		return
	}

	r.mu.Lock()
	r.elements[row][col] = el
	r.mu.Unlock()
}

// render runs crop, clip and the two shadow passes for one piece.
func (r *run) render(row, col int, u *Unit) (*Element, error) {
	bounds := u.Outline.Bounds()
	visual := Pt(float64(col)*r.unitSize.Width, float64(row)*r.unitSize.Height)
	position := visual.Sub(Pt(u.Left.OuterHeight(), u.Top.OuterHeight()))

	s := r.scale
	origin := image.Point{}
	if r.src.Image != nil {
		origin = r.src.Image.Bounds().Min
	}
	crop := image.Rect(
		roundPx(position.X*s), roundPx(position.Y*s),
		roundPx((position.X+bounds.Width())*s), roundPx((position.Y+bounds.Height())*s),
	).Add(origin)

	// Outline space is y-up; flip it into the crop's pixel space.
	outline := u.Outline.Transform(Matrix{A: s, E: -s, F: bounds.Height() * s})

	rnd := r.maker.opts.renderer
	img, err := rnd.Crop(r.src.Image, crop)
	if err = checkStep(img, err); err != nil {
		return nil, fmt.Errorf("cell (%d, %d) crop: %w", row, col, err)
	}
	img, err = rnd.Clip(img, outline)
	if err = checkStep(img, err); err != nil {
		return nil, fmt.Errorf("cell (%d, %d) clip: %w", row, col, err)
	}
	img, err = rnd.InnerShadow(img, outline, r.maker.opts.darkShadow.scaled(s))
	if err = checkStep(img, err); err != nil {
		return nil, fmt.Errorf("cell (%d, %d) dark shadow: %w", row, col, err)
	}
	img, err = rnd.InnerShadow(img, outline, r.maker.opts.lightShadow.scaled(s))
	if err = checkStep(img, err); err != nil {
		return nil, fmt.Errorf("cell (%d, %d) light shadow: %w", row, col, err)
	}

	return &Element{
		Image:    img,
		Position: position,
		Unit:     u,
		Row:      row,
		Column:   col,
	}, nil
}

// finalize picks the single outcome of the run.
func (r *run) finalize(resolveErr error) (*Board, error) {
	if r.imageFailed.Load() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImageSize, r.cause)
	}
	if resolveErr != nil {
		return nil, resolveErr
	}
	return &Board{
		Rows:     r.rows,
		Columns:  r.cols,
		UnitSize: r.unitSize,
		Units:    r.units,
		Elements: r.elements,
	}, nil
}

func checkStep(img image.Image, err error) error {
	if err != nil {
		return err
	}
	if img == nil {
		return errNoImage
	}
	return nil
}

func roundPx(v float64) int {
	return int(math.Round(v))
}
