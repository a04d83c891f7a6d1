package filter

import (
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		radius   float64
		wantSize int
	}{
		{0, 1},
		{-1, 1},
		{1, 7},
		{2.5, 17},
	}

	for _, tt := range tests {
		k := GaussianKernel(tt.radius)
		if len(k) != tt.wantSize {
			t.Errorf("GaussianKernel(%v) size = %d, want %d", tt.radius, len(k), tt.wantSize)
		}
		var sum float64
		for _, v := range k {
			sum += float64(v)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Errorf("GaussianKernel(%v) sum = %v, want 1", tt.radius, sum)
		}
		if k[0] > k[len(k)/2] {
			t.Errorf("GaussianKernel(%v) edge %v exceeds center %v", tt.radius, k[0], k[len(k)/2])
		}
	}
}

func TestCachedGaussianKernelShared(t *testing.T) {
	a := CachedGaussianKernel(3.25)
	b := CachedGaussianKernel(3.25)
	if &a[0] != &b[0] {
		t.Error("CachedGaussianKernel returned distinct slices for the same radius")
	}
	if got, want := len(a), len(GaussianKernel(3.25)); got != want {
		t.Errorf("cached kernel size = %d, want %d", got, want)
	}
}

func TestKernelHalfSize(t *testing.T) {
	if got := KernelHalfSize(0); got != 0 {
		t.Errorf("KernelHalfSize(0) = %d, want 0", got)
	}
	if got := KernelHalfSize(2); got != 6 {
		t.Errorf("KernelHalfSize(2) = %d, want 6", got)
	}
}
