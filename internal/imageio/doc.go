// Package imageio decodes and encodes source images and converts between
// premultiplied working images and the raw pixel buffers that are uploaded
// to a device and persisted in suspend state.
package imageio
