package swirl

import (
	"sync"
	"time"
)

// CalculationMode tells a display how to move between frames.
type CalculationMode int

const (
	// ModeLinear cross-fades between consecutive frames.
	ModeLinear CalculationMode = iota
	// ModeDiscrete shows each frame as-is for its share of the duration.
	ModeDiscrete
)

func (m CalculationMode) String() string {
	if m == ModeDiscrete {
		return "discrete"
	}
	return "linear"
}

// FillMode controls what a display shows outside the active playback time.
type FillMode int

const (
	// FillNone shows the held content before playback starts.
	FillNone FillMode = iota
	// FillBackwards shows the first frame during the begin delay.
	FillBackwards
)

func (f FillMode) String() string {
	if f == FillBackwards {
		return "backwards"
	}
	return "none"
}

// Timing is the playback metadata attached to a frame sequence.
type Timing struct {
	Duration   time.Duration
	Curve      string
	Mode       CalculationMode
	Fill       FillMode
	BeginDelay time.Duration

	// RemoveOnCompletion drops the sequence after playback; the display
	// then shows the delivery's final frame.
	RemoveOnCompletion bool
}

// Delivery is a frame sequence handed to a display or clone. Stills are
// deliveries with a single frame and a zero duration.
type Delivery struct {
	// Layout is the size the frames are displayed at. Frames are
	// rendered smaller and scaled up by the display.
	Layout Size
	Frames []*Image
	Timing Timing

	once sync.Once
	done func()
}

func newDelivery(layout Size, frames []*Image, timing Timing, done func()) *Delivery {
	return &Delivery{Layout: layout, Frames: frames, Timing: timing, done: done}
}

// Animated reports whether the delivery needs timed playback.
func (d *Delivery) Animated() bool {
	return len(d.Frames) > 1 && d.Timing.Duration > 0
}

// Final returns the frame to hold once playback finishes.
func (d *Delivery) Final() *Image {
	if len(d.Frames) == 0 {
		return nil
	}
	return d.Frames[len(d.Frames)-1]
}

// Done reports the end of playback. Displays call it once the last frame
// has been shown; extra calls are ignored.
func (d *Delivery) Done() {
	d.once.Do(func() {
		if d.done != nil {
			d.done()
		}
	})
}

// Display receives primary deliveries. Present is always called from the
// animator's executor, one delivery at a time.
type Display interface {
	Present(d *Delivery)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(d *Delivery)

// Present calls f(d).
func (f DisplayFunc) Present(d *Delivery) { f(d) }

// Clone receives the dimmed variant of every delivery. Its timing is
// identical to the primary delivery's.
//
// A clone that also implements interface{ Alive() bool } is skipped and
// dropped from its registry once Alive reports false.
type Clone interface {
	PresentDimmed(d *Delivery)
}

// Overlay is an optional layer composited over the gradient, such as a
// pattern, that needs the current background bitmap.
type Overlay interface {
	SetAnimating(animating bool)
	UpdateComposition(layout Size, background *Image)
}
