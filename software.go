package jigsaw

import (
	"errors"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/jigsaw/internal/filter"
)

// Errors returned by SoftwareRenderer.
var (
	ErrEmptyImage = errors.New("jigsaw: empty image")
	ErrEmptyRect  = errors.New("jigsaw: crop rectangle does not intersect the image")
	ErrEmptyPath  = errors.New("jigsaw: outline is empty")
)

// SoftwareRenderer is the CPU Renderer. Outlines are rasterized with
// anti-aliased coverage and shadows use a separable Gaussian blur.
// It holds no state and is safe for concurrent use.
type SoftwareRenderer struct{}

// NewSoftwareRenderer creates a new software renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Crop implements Renderer.Crop. The rectangle is intersected with the image
// bounds; an empty intersection is an error.
func (r *SoftwareRenderer) Crop(img image.Image, rect image.Rectangle) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	rect = rect.Canon().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyRect
	}

	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, rect.Min, xdraw.Src)
	return dst, nil
}

// Clip implements Renderer.Clip.
func (r *SoftwareRenderer) Clip(img image.Image, outline *Path) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	mask, err := rasterize(outline, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.DrawMask(dst, dst.Bounds(), img, b.Min, mask, image.Point{}, xdraw.Over)
	return dst, nil
}

// InnerShadow implements Renderer.InnerShadow.
func (r *SoftwareRenderer) InnerShadow(img image.Image, outline *Path, shadow Shadow) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	b := img.Bounds()
	mask, err := rasterize(outline, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)

	f := filter.NewInnerShadowFilter(
		shadow.Offset.X, shadow.Offset.Y, shadow.BlurRadius,
		shadow.Color.Color().(color.NRGBA),
	)
	f.Apply(dst, mask)
	return dst, nil
}

// rasterize fills the outline into a coverage mask of the given size.
func rasterize(outline *Path, width, height int) (*image.Alpha, error) {
	if outline == nil || len(outline.Elements()) == 0 {
		return nil, ErrEmptyPath
	}

	z := vector.NewRasterizer(width, height)
	z.DrawOp = xdraw.Src
	for _, elem := range outline.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			z.MoveTo(float32(e.Point.X), float32(e.Point.Y))
		case CubicTo:
			z.CubeTo(
				float32(e.Control1.X), float32(e.Control1.Y),
				float32(e.Control2.X), float32(e.Control2.Y),
				float32(e.Point.X), float32(e.Point.Y),
			)
		case Close:
			z.ClosePath()
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, nil
}
