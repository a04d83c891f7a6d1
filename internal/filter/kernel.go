package filter

import (
	"math"

	"github.com/gogpu/photoedit/internal/cache"
)

// GaussianKernel generates a 1D Gaussian kernel for the given radius.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is computed as 2 * ceil(radius * 3) + 1, which covers
// 99.7% of the Gaussian distribution (3 standard deviations).
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	// Radius is used as sigma.
	sigma := radius
	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	kernel := make([]float32, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// kernelCache holds computed kernels keyed by radius quantized to 0.01.
var kernelCache = cache.New[int, []float32](64)

// CachedGaussianKernel returns a cached Gaussian kernel for the radius.
// The returned slice is shared and must not be modified.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return kernelCache.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelHalfSize returns the number of taps on each side of the kernel
// center for the given radius.
func KernelHalfSize(radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Ceil(radius * 3))
}
