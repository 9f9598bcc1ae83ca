// Package preview lays the pieces of a jigsaw board out into a single image.
//
// With no gap the pieces reassemble the source picture; a positive gap
// spreads them apart so the tab shapes are visible. Cells can be labeled
// with their row and column.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/jigsaw"
)

// Options controls how a board is composed.
type Options struct {
	// Scale is the number of pixels per point, as used to cut the board.
	// Zero means 1.
	Scale float64

	// Gap is the spacing between cells and around the board in points.
	// It is clamped to [0, larger side of a cell].
	Gap float64

	// Background fills the canvas before pieces are drawn. Nil leaves it
	// transparent.
	Background color.Color

	// Labels draws "row,column" at the center of every cell.
	Labels bool

	// LabelSize is the label font size in pixels. Zero picks a size from the
	// cell height.
	LabelSize float64
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// Compose draws every piece of b at its position and returns the canvas.
func Compose(b *jigsaw.Board, opts Options) (*image.RGBA, error) {
	if b == nil || b.Rows == 0 || b.Columns == 0 {
		return nil, fmt.Errorf("preview: empty board")
	}
	s := opts.scale()
	gap := opts.Gap
	if !(gap > 0) {
		gap = 0
	}
	gap = math.Min(gap, max(b.UnitSize.Width, b.UnitSize.Height))

	w := (float64(b.Columns)*b.UnitSize.Width + float64(b.Columns+1)*gap) * s
	h := (float64(b.Rows)*b.UnitSize.Height + float64(b.Rows+1)*gap) * s
	dst := image.NewRGBA(image.Rect(0, 0, int(math.Round(w)), int(math.Round(h))))
	if opts.Background != nil {
		xdraw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, xdraw.Src)
	}

	for _, el := range b.Pieces() {
		shift := jigsaw.Pt(float64(el.Column+1)*gap, float64(el.Row+1)*gap)
		at := el.Position.Add(shift).Mul(s)
		sb := el.Image.Bounds()
		r := image.Rect(0, 0, sb.Dx(), sb.Dy()).Add(image.Pt(int(math.Round(at.X)), int(math.Round(at.Y))))
		xdraw.Draw(dst, r, el.Image, sb.Min, xdraw.Over)
	}

	if opts.Labels {
		if err := drawLabels(dst, b, s, gap, opts.LabelSize); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

var (
	fontOnce sync.Once
	fontData *opentype.Font
	fontErr  error
)

// labelFont parses the embedded Go Regular font once.
func labelFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontData, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontData, fontErr
}

func drawLabels(dst *image.RGBA, b *jigsaw.Board, s, gap, size float64) error {
	f, err := labelFont()
	if err != nil {
		return fmt.Errorf("preview: parsing label font: %w", err)
	}
	if size <= 0 {
		size = math.Max(8, b.UnitSize.Height*s/6)
	}

	// Faces cache glyphs and are not safe for concurrent use.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("preview: creating label face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 230}),
		Face: face,
	}
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	for row := range b.Rows {
		for col := range b.Columns {
			label := fmt.Sprintf("%d,%d", row, col)
			cx := (float64(col)*b.UnitSize.Width + b.UnitSize.Width/2 + float64(col+1)*gap) * s
			cy := (float64(row)*b.UnitSize.Height + b.UnitSize.Height/2 + float64(row+1)*gap) * s
			width := drawer.MeasureString(label)
			drawer.Dot = fixed.Point26_6{
				X: fixed.Int26_6(cx*64) - width/2,
				Y: fixed.Int26_6((cy+float64(textHeight)/2)*64) - metrics.Descent,
			}
			drawer.DrawString(label)
		}
	}
	return nil
}

// Thumbnail scales img down so its longest side is at most maxSide pixels.
// Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if maxSide <= 0 || longest <= maxSide {
		return img
	}
	f := float64(maxSide) / float64(longest)
	w := max(1, int(math.Round(float64(b.Dx())*f)))
	h := max(1, int(math.Round(float64(b.Dy())*f)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
