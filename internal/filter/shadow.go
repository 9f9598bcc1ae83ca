package filter

import (
	"image"
	"image/color"
	"math"
)

// InnerShadowFilter paints a shadow inside a shape, cast by the area outside
// of it. The filter inverts the shape coverage, offsets and blurs it, then
// colorizes it and composites it over the image, limited to the shape.
type InnerShadowFilter struct {
	// OffsetX is the horizontal shadow offset in pixels.
	OffsetX float64

	// OffsetY is the vertical shadow offset in pixels.
	OffsetY float64

	// BlurRadius is the shadow blur radius in pixels.
	BlurRadius float64

	// Color is the shadow color. Its alpha scales the shadow opacity.
	Color color.NRGBA
}

// NewInnerShadowFilter creates a new inner shadow filter.
func NewInnerShadowFilter(offsetX, offsetY, blurRadius float64, c color.NRGBA) *InnerShadowFilter {
	return &InnerShadowFilter{
		OffsetX:    offsetX,
		OffsetY:    offsetY,
		BlurRadius: blurRadius,
		Color:      c,
	}
}

// Apply shades dst in place. mask holds the shape coverage and must have the
// same bounds as dst. Pixels outside the shape are left untouched.
func (f *InnerShadowFilter) Apply(dst *image.RGBA, mask *image.Alpha) {
	if dst == nil || mask == nil || f.Color.A == 0 {
		return
	}
	b := dst.Bounds()
	if b.Empty() || mask.Bounds() != b {
		return
	}
	width, height := b.Dx(), b.Dy()

	// Step 1: inverted coverage, sampled at the offset position
	outside := make([]float32, width*height)
	extractInverseAlpha(mask, outside, width, height,
		int(math.Round(f.OffsetX)), int(math.Round(f.OffsetY)))

	// Step 2: blur
	if f.BlurRadius > 0 {
		blurred := make([]float32, width*height)
		BlurAlpha(outside, blurred, width, height, f.BlurRadius)
		outside = blurred
	}

	// Step 3: colorize and composite inside the shape
	compositeInnerShadow(dst, mask, outside, f.Color)
}

// extractInverseAlpha writes 1-coverage of the pixel the shadow at (x, y) is
// cast from. Samples outside the mask count as fully outside the shape.
func extractInverseAlpha(mask *image.Alpha, out []float32, width, height, offsetX, offsetY int) {
	for y := 0; y < height; y++ {
		srcY := y - offsetY
		for x := 0; x < width; x++ {
			srcX := x - offsetX
			if srcX < 0 || srcX >= width || srcY < 0 || srcY >= height {
				out[y*width+x] = 1
				continue
			}
			out[y*width+x] = 1 - float32(mask.Pix[srcY*mask.Stride+srcX])/255
		}
	}
}

// compositeInnerShadow blends the shadow color over dst with the shadow
// alpha clipped to the mask. dst is premultiplied and keeps its own alpha.
func compositeInnerShadow(dst *image.RGBA, mask *image.Alpha, shadow []float32, c color.NRGBA) {
	b := dst.Bounds()
	width, height := b.Dx(), b.Dy()

	colorA := float32(c.A) / 255
	cr, cg, cb := float32(c.R), float32(c.G), float32(c.B)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coverage := float32(mask.Pix[y*mask.Stride+x]) / 255
			a := shadow[y*width+x] * coverage * colorA
			if a <= 0 {
				continue
			}
			if a > 1 {
				a = 1
			}

			i := y*dst.Stride + x*4
			px := dst.Pix[i : i+4 : i+4]
			dstA := float32(px[3]) / 255
			inv := 1 - a

			px[0] = clampUint8(float32(px[0])*inv + cr*a*dstA)
			px[1] = clampUint8(float32(px[1])*inv + cg*a*dstA)
			px[2] = clampUint8(float32(px[2])*inv + cb*a*dstA)
		}
	}
}

// clampUint8 rounds and clamps a float32 to a byte.
func clampUint8(x float32) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x + 0.5)
}
