package jigsaw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage returns an opaque w x h image with a horizontal gradient.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

// recordingRenderer wraps the software renderer, counts calls and can fail a
// chosen step.
type recordingRenderer struct {
	SoftwareRenderer

	crops   atomic.Int32
	shadows atomic.Int32

	failClip error
	nilClip  bool

	mu          sync.Mutex
	shadowSeen  []Shadow
	cropRects   []image.Rectangle
	cropLatency time.Duration
}

func (r *recordingRenderer) Crop(img image.Image, rect image.Rectangle) (image.Image, error) {
	r.crops.Add(1)
	r.mu.Lock()
	r.cropRects = append(r.cropRects, rect)
	r.mu.Unlock()
	if r.cropLatency > 0 {
		time.Sleep(r.cropLatency)
	}
	return r.SoftwareRenderer.Crop(img, rect)
}

func (r *recordingRenderer) Clip(img image.Image, outline *Path) (image.Image, error) {
	if r.failClip != nil {
		return nil, r.failClip
	}
	if r.nilClip {
		return nil, nil
	}
	return r.SoftwareRenderer.Clip(img, outline)
}

func (r *recordingRenderer) InnerShadow(img image.Image, outline *Path, s Shadow) (image.Image, error) {
	r.shadows.Add(1)
	r.mu.Lock()
	r.shadowSeen = append(r.shadowSeen, s)
	r.mu.Unlock()
	return r.SoftwareRenderer.InnerShadow(img, outline, s)
}

func TestGenerate_InvalidGridSize(t *testing.T) {
	src := NewSource(testImage(100, 100))

	for _, size := range [][2]int{{1, 1}, {1, 5}, {5, 1}, {0, 0}, {-2, 3}} {
		t.Run(fmt.Sprintf("%dx%d", size[0], size[1]), func(t *testing.T) {
			rnd := &recordingRenderer{}
			m := New(WithRenderer(rnd))
			board, err := m.Generate(src, size[0], size[1])
			require.ErrorIs(t, err, ErrInvalidGridSize)
			assert.Nil(t, board)
			assert.Zero(t, rnd.crops.Load(), "no piece should be rendered")
		})
	}
}

func TestGenerate_Success(t *testing.T) {
	m := New(WithSeed(42), WithWorkers(4))
	board, err := m.Generate(NewSource(testImage(700, 500)), 5, 7)
	require.NoError(t, err)
	require.NotNil(t, board)

	assert.Equal(t, 5, board.Rows)
	assert.Equal(t, 7, board.Columns)
	assert.Equal(t, Size{Width: 100, Height: 100}, board.UnitSize)
	require.Len(t, board.Elements, 5)
	for r, row := range board.Elements {
		require.Len(t, row, 7, "row %d", r)
		for c, el := range row {
			require.NotNil(t, el, "element (%d, %d)", r, c)
			assert.Equal(t, r, el.Row)
			assert.Equal(t, c, el.Column)
			assert.Same(t, board.Units[r][c], el.Unit)
			assert.False(t, el.Image.Bounds().Empty(), "element (%d, %d) image is empty", r, c)
		}
	}
	assert.Len(t, board.Pieces(), 35)
	assert.Same(t, board.Elements[2][3], board.Element(2, 3))
	assert.Nil(t, board.Element(5, 0))
}

func TestGenerate_Positions(t *testing.T) {
	m := New(WithSeed(5))
	board, err := m.Generate(NewSource(testImage(300, 200)), 2, 3)
	require.NoError(t, err)

	for r := range board.Rows {
		for c := range board.Columns {
			el := board.Element(r, c)
			u := board.Units[r][c]
			want := Pt(float64(c)*100-u.Left.OuterHeight(), float64(r)*100-u.Top.OuterHeight())
			assert.True(t, el.Position.ApproxEqual(want, Tolerance),
				"(%d, %d) Position = %v, want %v", r, c, el.Position, want)

			// Image covers the outline in pixels.
			b := u.Bounds()
			assert.InDelta(t, b.Width, float64(el.Image.Bounds().Dx()), 1, "(%d, %d) width", r, c)
			assert.InDelta(t, b.Height, float64(el.Image.Bounds().Dy()), 1, "(%d, %d) height", r, c)
		}
	}
	assert.Equal(t, Point{}, board.Element(0, 0).Position)
}

func TestGenerate_Interlock(t *testing.T) {
	m := New(WithSeed(8))
	board, err := m.Generate(NewSource(testImage(400, 400)), 4, 4)
	require.NoError(t, err)

	for r := range board.Rows {
		for c := range board.Columns {
			u := board.Units[r][c]
			if c+1 < board.Columns {
				assert.Equal(t, u.Right.Mirror(), board.Units[r][c+1].Left, "(%d, %d) right", r, c)
			}
			if r+1 < board.Rows {
				assert.Equal(t, u.Bottom.Mirror(), board.Units[r+1][c].Top, "(%d, %d) bottom", r, c)
			}
		}
	}
}

func TestGenerate_SeedReproducible(t *testing.T) {
	src := NewSource(testImage(240, 180))

	a, err := New(WithSeed(1234)).Generate(src, 3, 4)
	require.NoError(t, err)
	b, err := New(WithSeed(1234), WithWorkers(1)).Generate(src, 3, 4)
	require.NoError(t, err)

	for r := range 3 {
		for c := range 4 {
			ua, ub := a.Units[r][c], b.Units[r][c]
			assert.Equal(t, ua.Top, ub.Top)
			assert.Equal(t, ua.Right, ub.Right)
			assert.Equal(t, ua.Bottom, ub.Bottom)
			assert.Equal(t, ua.Left, ub.Left)
		}
	}
}

func TestGenerate_InvalidImageSize(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"empty image", NewSource(image.NewRGBA(image.Rect(0, 0, 0, 0)))},
		{"nil image", Source{}},
		{"zero width", NewSource(image.NewRGBA(image.Rect(0, 0, 0, 50)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := New().Generate(tt.src, 3, 3)
			require.ErrorIs(t, err, ErrInvalidImageSize)
			assert.Nil(t, board)
		})
	}
}

func TestGenerate_RendererFailure(t *testing.T) {
	cause := errors.New("clip failed")
	rnd := &recordingRenderer{failClip: cause}

	board, err := New(WithRenderer(rnd)).Generate(NewSource(testImage(100, 100)), 3, 3)
	require.ErrorIs(t, err, ErrInvalidImageSize)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, board)
	assert.Zero(t, rnd.shadows.Load(), "no shadow pass should run after a failed clip")
}

func TestGenerate_RendererNilImage(t *testing.T) {
	rnd := &recordingRenderer{nilClip: true}
	_, err := New(WithRenderer(rnd)).Generate(NewSource(testImage(100, 100)), 2, 2)
	require.ErrorIs(t, err, ErrInvalidImageSize)
	assert.ErrorIs(t, err, errNoImage)
}

// failAt returns a resolver that reports a missing neighbor at (row, col).
func failAt(row, col int) func(unitGrid, int, int) (Edges, error) {
	return func(g unitGrid, r, c int) (Edges, error) {
		if r == row && c == col {
			return Edges{}, fmt.Errorf("%w: forced at (%d, %d)", ErrUnitUnavailable, r, c)
		}
		return resolveEdges(g, r, c)
	}
}

func TestGenerate_UnitUnavailable(t *testing.T) {
	rnd := &recordingRenderer{cropLatency: 5 * time.Millisecond}
	m := New(WithRenderer(rnd), WithWorkers(2))
	m.resolve = failAt(1, 2)

	board, err := m.Generate(NewSource(testImage(400, 300)), 3, 4)
	require.ErrorIs(t, err, ErrUnitUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidImageSize)
	assert.Nil(t, board)

	// Row 0 and (1, 0), (1, 1) were submitted and all finished before return.
	assert.EqualValues(t, 6, rnd.crops.Load())
	assert.EqualValues(t, 12, rnd.shadows.Load())
}

func TestGenerate_ImageFailureWinsOverUnitUnavailable(t *testing.T) {
	rnd := &recordingRenderer{failClip: errors.New("boom")}
	m := New(WithRenderer(rnd))
	m.resolve = failAt(1, 0)

	_, err := m.Generate(NewSource(testImage(300, 300)), 3, 3)
	require.ErrorIs(t, err, ErrInvalidImageSize)
	assert.NotErrorIs(t, err, ErrUnitUnavailable)
}

func TestGenerate_Scale(t *testing.T) {
	rnd := &recordingRenderer{}
	src := Source{Image: testImage(200, 100), Scale: 2}

	board, err := New(WithRenderer(rnd), WithSeed(3)).Generate(src, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 50, Height: 25}, board.UnitSize)

	dark, light := DefaultDarkShadow(), DefaultLightShadow()
	rnd.mu.Lock()
	defer rnd.mu.Unlock()
	require.Len(t, rnd.shadowSeen, 8)
	for _, s := range rnd.shadowSeen {
		if s.Color == dark.Color {
			assert.Equal(t, dark.Offset.Mul(2), s.Offset)
			assert.InDelta(t, dark.BlurRadius*2, s.BlurRadius, 1e-12)
		} else {
			assert.Equal(t, light.Color, s.Color)
			assert.Equal(t, light.Offset.Mul(2), s.Offset)
		}
	}

	// Crop rectangles are in pixels.
	for _, rect := range rnd.cropRects {
		assert.LessOrEqual(t, rect.Max.X, 200)
		assert.LessOrEqual(t, rect.Max.Y, 100)
	}
	el := board.Element(1, 1)
	u := board.Units[1][1]
	assert.InDelta(t, u.Bounds().Width*2, float64(el.Image.Bounds().Dx()), 1)
}

func TestGenerate_CropOffsetByImageOrigin(t *testing.T) {
	base := testImage(300, 300)
	sub := base.SubImage(image.Rect(100, 100, 300, 300))
	rnd := &recordingRenderer{}

	_, err := New(WithRenderer(rnd), WithSeed(9)).Generate(NewSource(sub), 2, 2)
	require.NoError(t, err)

	rnd.mu.Lock()
	defer rnd.mu.Unlock()
	for _, rect := range rnd.cropRects {
		assert.True(t, rect.In(sub.Bounds()), "crop %v outside %v", rect, sub.Bounds())
	}
}

func TestGenerate_CustomShadows(t *testing.T) {
	rnd := &recordingRenderer{}
	dark := Shadow{Color: RGBA2(0, 0, 0, 1), Offset: Pt(-3, -3), BlurRadius: 4}
	light := Shadow{Color: RGBA2(1, 1, 0, 0.5), Offset: Pt(2, 2), BlurRadius: 0}

	_, err := New(WithRenderer(rnd), WithDarkShadow(dark), WithLightShadow(light)).
		Generate(NewSource(testImage(80, 80)), 2, 2)
	require.NoError(t, err)

	rnd.mu.Lock()
	defer rnd.mu.Unlock()
	assert.Contains(t, rnd.shadowSeen, dark)
	assert.Contains(t, rnd.shadowSeen, light)
}

func TestGenerateAsync(t *testing.T) {
	m := New(WithSeed(77))
	var calls atomic.Int32
	done := make(chan struct{})

	m.GenerateAsync(NewSource(testImage(200, 200)), 2, 2, func(b *Board, err error) {
		calls.Add(1)
		assert.NoError(t, err)
		assert.NotNil(t, b)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("GenerateAsync callback was not called")
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerateAsync_Error(t *testing.T) {
	errc := make(chan error, 1)
	New().GenerateAsync(NewSource(testImage(10, 10)), 1, 2, func(b *Board, err error) {
		assert.Nil(t, b)
		errc <- err
	})
	assert.ErrorIs(t, <-errc, ErrInvalidGridSize)
}

func TestGenerate_Concurrent(t *testing.T) {
	m := New(WithWorkers(2))
	src := NewSource(testImage(120, 120))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			board, err := m.Generate(src, 3, 3)
			assert.NoError(t, err)
			assert.Len(t, board.Pieces(), 9)
		}()
	}
	wg.Wait()
}

func TestRoundPx(t *testing.T) {
	for _, tt := range []struct {
		in   float64
		want int
	}{{0.4, 0}, {0.5, 1}, {-0.5, -1}, {99.6, 100}, {math.Copysign(0, -1), 0}} {
		assert.Equal(t, tt.want, roundPx(tt.in), "roundPx(%v)", tt.in)
	}
}
