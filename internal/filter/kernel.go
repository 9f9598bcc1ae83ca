package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for a blur radius.
//
// The radius is interpreted the way shadow APIs use it: sigma is radius/2 and
// the kernel covers three sigmas on either side, so its length is
// 2*ceil(1.5*radius) + 1.
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	sigma := radius / 2
	halfSize := int(math.Ceil(sigma * 3))
	kernel := make([]float32, halfSize*2+1)

	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	inv := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// kernelCache keeps kernels keyed by radius quantized to 0.01.
// A run uses the same one or two radii for every piece.
type kernelCache struct {
	mu      sync.RWMutex
	kernels map[int][]float32
	maxLen  int
}

var defaultKernelCache = newKernelCache(32)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		kernels: make(map[int][]float32),
		maxLen:  maxLen,
	}
}

func (c *kernelCache) get(radius float64) []float32 {
	key := int(math.Round(radius * 100))

	c.mu.RLock()
	kernel, ok := c.kernels[key]
	c.mu.RUnlock()
	if ok {
		return kernel
	}

	kernel = GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.kernels) >= c.maxLen {
		clear(c.kernels)
	}
	c.kernels[key] = kernel
	return kernel
}

// CachedGaussianKernel returns a shared kernel for the radius.
// Callers must not modify the returned slice.
func CachedGaussianKernel(radius float64) []float32 {
	return defaultKernelCache.get(radius)
}
