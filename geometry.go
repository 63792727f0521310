package swirl

import (
	"fmt"
	"math"
)

// Point is a position in the normalized unit square.
type Point struct {
	X, Y float64
}

// Lerp interpolates between p and q; t = 0 yields p, t = 1 yields q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X*(1-t) + q.X*t,
		Y: p.Y*(1-t) + q.Y*t,
	}
}

// Size is a canvas size in pixels.
type Size struct {
	Width, Height int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// DefaultMaxSize bounds the bitmap the rasterizer produces. Displays
// scale the small gradient up to the layout size.
var DefaultMaxSize = Size{Width: 80, Height: 80}

// FitSize scales s down, preserving its aspect ratio, until it fits
// inside bounds. Sizes already inside bounds are returned unchanged.
// Both axes are floored and kept at least one pixel.
func FitSize(s, bounds Size) Size {
	w, h := float64(s.Width), float64(s.Height)
	if w > float64(bounds.Width) {
		h = math.Floor(h * float64(bounds.Width) / math.Max(w, 1))
		w = float64(bounds.Width)
	}
	if h > float64(bounds.Height) {
		w = math.Floor(w * float64(bounds.Height) / math.Max(h, 1))
		h = float64(bounds.Height)
	}
	return Size{
		Width:  max(1, int(w)),
		Height: max(1, int(h)),
	}
}

// PhaseCount is the number of anchors, and so the period of the phase cycle.
const PhaseCount = 8

// Anchors is the fixed ring of blob anchor points.
var Anchors = [PhaseCount]Point{
	{X: 0.80, Y: 0.10},
	{X: 0.60, Y: 0.20},
	{X: 0.35, Y: 0.25},
	{X: 0.25, Y: 0.60},
	{X: 0.20, Y: 0.90},
	{X: 0.40, Y: 0.80},
	{X: 0.65, Y: 0.75},
	{X: 0.75, Y: 0.40},
}

// Positions holds the four active blob centers for one phase.
type Positions [4]Point

// Lerp interpolates every position independently.
func (p Positions) Lerp(q Positions, t float64) Positions {
	var out Positions
	for i := range p {
		out[i] = p[i].Lerp(q[i], t)
	}
	return out
}

// Rotate returns anchors left-rotated by offset: the first offset
// elements move to the tail, order otherwise preserved. Negative offsets
// rotate right.
func Rotate(anchors [PhaseCount]Point, offset int) [PhaseCount]Point {
	k := WrapPhase(offset)
	var out [PhaseCount]Point
	copy(out[:], anchors[k:])
	copy(out[PhaseCount-k:], anchors[:k])
	return out
}

// Select returns the anchors at even indices.
func Select(rotated [PhaseCount]Point) Positions {
	var out Positions
	for i := range out {
		out[i] = rotated[i*2]
	}
	return out
}

// PositionsAt returns the active blob centers for phase.
func PositionsAt(phase int) Positions {
	return Select(Rotate(Anchors, phase))
}

// WrapPhase maps any integer onto [0, PhaseCount).
func WrapPhase(phase int) int {
	phase %= PhaseCount
	if phase < 0 {
		phase += PhaseCount
	}
	return phase
}
