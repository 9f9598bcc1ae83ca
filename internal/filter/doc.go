// Package filter provides the pixel filters used to shade puzzle pieces.
//
// This package contains:
//   - Gaussian kernels with a small shared cache
//   - Separable blur over single-channel float32 planes
//   - Inner shadow (inverted coverage + offset + blur + colorize)
//
// Images are *image.RGBA (premultiplied) and coverage masks are *image.Alpha
// with matching bounds.
package filter
