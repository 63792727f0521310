// Package export writes rendered gradients to disk.
//
// A frame sequence becomes a directory of numbered PNG files, scaled up
// to the layout size with a Catmull-Rom filter, and a manifest.yaml that
// carries the playback timing and the content hash of every frame.
// Dimmed frames, when present, are written next to the primary ones.
package export
