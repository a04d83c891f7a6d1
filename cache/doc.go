// Package cache provides the single-slot render cache used while a region
// edit is in progress.
//
// A RenderCache holds at most one rasterized image. A lookup hits only
// when the caller's key equals the stored key; any mismatch or an explicit
// Reset drops the entry. The cached pixels live in a device bitmap, so a
// device loss is handled by RecoverAfterDeviceLost, which drops the entry
// without touching the lost device.
//
// Example:
//
//	type key struct {
//		revision uint64
//		zoom     float64
//	}
//	rc := cache.NewRenderCache[key]()
//	img, ok := rc.Get(key{photo.Revision(), zoom})
//	if !ok {
//		img, err = rc.Put(dev, photo.Image(), key{photo.Revision(), zoom})
//	}
package cache
