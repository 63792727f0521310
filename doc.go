// Package swirl generates animated procedural gradient backgrounds.
//
// # Overview
//
// Given a small palette, a canvas size and a content state, swirl
// synthesizes organic multi-blob gradient bitmaps and sequences them into
// smooth transition animations. Secondary views ("clones") receive a
// saturation-adjusted variant that stays frame-for-frame in sync with the
// primary render.
//
// # Quick Start
//
//	import "github.com/gogpu/swirl"
//
//	// One still frame
//	img, err := swirl.Render(swirl.Size{Width: 80, Height: 80},
//	    swirl.StateActive.Palette(), swirl.PositionsAt(0), 1)
//
//	// A live background
//	a := swirl.NewAnimator(display)
//	defer a.Close()
//	a.SetSize(swirl.Size{Width: 390, Height: 844})
//	a.Start()
//
// # Architecture
//
// The package is organized, leaves first, into:
//   - Geometry: the ring of 8 anchors, phase rotation, active positions
//   - Render: the swirl-distorted weighted radial blend and content hash
//   - Sequencer: step chains, eased frame sampling, parallel frame synthesis
//   - Animator: phase cycling, content state, clone and overlay delivery
//
// Internal packages provide the color matrix (internal/filter), the
// dimmed still cache (internal/cache) and the worker pool and serial
// executor (internal/parallel).
//
// # Coordinate System
//
// Anchor points live in the unit square with y pointing down, like the
// bitmap. Blending happens in a space with y pointing up, so positions
// are flipped on their way into the rasterizer.
//
// # Concurrency
//
// Render is pure and may be called from any goroutine. An Animator
// serializes its own state behind a mutex and presents every delivery on
// one executor, so displays never see two deliveries interleave.
package swirl

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
