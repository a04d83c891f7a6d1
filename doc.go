// Package photoedit is the core of a non-destructive photo editor.
//
// # Overview
//
// A [Photo] holds an immutable source image and an ordered list of
// [EditGroup] values. Each group is an ordered chain of [Effect] values plus
// an optional [Region] that scopes the chain to part of the image. Nothing
// is ever written back to the source: [Photo.Image] folds every group over
// the source bitmap and returns a lazy [render.Image] graph that a
// [render.Device] rasterizes for display or export.
//
// # Quick Start
//
//	dev := render.NewSoftwareDevice()
//	photo := photoedit.New()
//	if err := photo.Load(dev, f); err != nil {
//		return err
//	}
//	g := photo.Groups()[0]
//	g.AddEffect(photoedit.Grayscale)
//	return photo.SaveFile("out.jpg")
//
// # Regions
//
// A region is painted with pointer gestures: [Region.BeginEdit],
// [Region.AddPoints] and [Region.Commit]. Shapes are rectangles, ellipses,
// freehand polygons or color-similarity ("magic wand") selections, and each
// commit replaces, adds to, subtracts from or inverts the current mask. One
// level of undo is kept.
//
// # Device Loss
//
// Device bitmaps and render targets die with their device. The photo keeps
// CPU copies of the source pixels and of every committed mask;
// [Photo.RecoverAfterDeviceLost] rebuilds all device resources from them on
// a new device. [Photo.RestoreState] uses the same path after decoding a
// state saved with [Photo.SaveState].
//
// # Concurrency
//
// A Photo and everything it owns must be used from one goroutine at a time.
package photoedit

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
