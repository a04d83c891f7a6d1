// Package cache provides a small generic LRU cache for derived data that is
// expensive to recompute, such as convolution kernels.
//
//	kernels := cache.New[int, []float32](64)
//	k := kernels.GetOrCreate(radius, func() []float32 { return build(radius) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
