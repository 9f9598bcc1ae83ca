package filter

// BlurAlpha applies a separable Gaussian blur to a single-channel plane of
// width*height values and writes the result to dst. src and dst may not alias.
// Samples outside the plane repeat the nearest edge value.
func BlurAlpha(src, dst []float32, width, height int, radius float64) {
	n := width * height
	if n == 0 || len(src) < n || len(dst) < n {
		return
	}
	if radius <= 0 {
		copy(dst, src[:n])
		return
	}

	kernel := CachedGaussianKernel(radius)
	half := len(kernel) / 2
	temp := make([]float32, n)

	// Horizontal pass
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			var sum float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, width-1)
				sum += src[row+kx] * weight
			}
			temp[row+x] = sum
		}
	}

	// Vertical pass
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, height-1)
				sum += temp[ky*width+x] * weight
			}
			dst[y*width+x] = sum
		}
	}
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
