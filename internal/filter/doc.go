// Package filter provides per-pixel color transforms over RGBA8 buffers.
//
// The only transform the gradient pipeline needs is a color matrix:
// dimmed clone frames are produced by running a saturation matrix over
// the primary rasterizer output. Transforms are branch-free per pixel and
// operate in place, so a frame can be dimmed without a second allocation.
package filter
