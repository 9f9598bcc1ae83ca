package preview

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/jigsaw"
)

func sourceImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func board(t *testing.T, src jigsaw.Source, rows, cols int) *jigsaw.Board {
	t.Helper()
	b, err := jigsaw.New(jigsaw.WithSeed(21)).Generate(src, rows, cols)
	require.NoError(t, err)
	return b
}

func TestComposeReassemblesSource(t *testing.T) {
	src := sourceImage(120, 90)
	b := board(t, jigsaw.NewSource(src), 3, 4)

	got, err := Compose(b, Options{})
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())

	// Cell centers are far from any cut and keep their alpha.
	for r := range 3 {
		for c := range 4 {
			x, y := c*30+15, r*30+15
			assert.Equal(t, uint8(255), got.RGBAAt(x, y).A, "cell (%d, %d) center", r, c)
		}
	}
}

func TestComposeScale(t *testing.T) {
	src := jigsaw.Source{Image: sourceImage(200, 100), Scale: 2}
	b := board(t, src, 2, 2)

	got, err := Compose(b, Options{Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), got.Bounds())
}

func TestComposeGap(t *testing.T) {
	b := board(t, jigsaw.NewSource(sourceImage(100, 100)), 2, 2)
	bg := color.RGBA{R: 10, G: 10, B: 10, A: 255}

	got, err := Compose(b, Options{Gap: 10, Background: bg})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 130, 130), got.Bounds())
	assert.Equal(t, bg, got.RGBAAt(1, 1), "margin keeps the background")
	assert.Equal(t, uint8(255), got.RGBAAt(35, 35).A)
}

func TestComposeGapClamped(t *testing.T) {
	b := board(t, jigsaw.NewSource(sourceImage(100, 100)), 2, 2)

	tests := []struct {
		name string
		gap  float64
		want image.Rectangle
	}{
		{"huge", 1e9, image.Rect(0, 0, 250, 250)},
		{"infinite", math.Inf(1), image.Rect(0, 0, 250, 250)},
		{"negative", -20, image.Rect(0, 0, 100, 100)},
		{"nan", math.NaN(), image.Rect(0, 0, 100, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(b, Options{Gap: tt.gap})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Bounds())
		})
	}
}

func TestComposeLabels(t *testing.T) {
	src := sourceImage(160, 160)
	b := board(t, jigsaw.NewSource(src), 2, 2)

	plain, err := Compose(b, Options{})
	require.NoError(t, err)
	labeled, err := Compose(b, Options{Labels: true, LabelSize: 20})
	require.NoError(t, err)

	changed := 0
	for i := range plain.Pix {
		if plain.Pix[i] != labeled.Pix[i] {
			changed++
		}
	}
	assert.Positive(t, changed, "labels should change some pixels")
}

func TestComposeEmptyBoard(t *testing.T) {
	_, err := Compose(nil, Options{})
	assert.Error(t, err)
	_, err = Compose(&jigsaw.Board{}, Options{})
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	img := sourceImage(400, 200)

	got := Thumbnail(img, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), got.Bounds())

	assert.Same(t, img, Thumbnail(img, 0))
	assert.Same(t, img, Thumbnail(img, 400))
}
