package swirl

import (
	"time"

	"github.com/gogpu/swirl/internal/parallel"
)

// Option configures an Animator during creation.
//
// Example:
//
//	// Defaults: pending palette, 1 s ticks, 80x80 bitmaps
//	a := swirl.NewAnimator(display)
//
//	// Continue the motion of other shared-phase backgrounds
//	a := swirl.NewAnimator(display, swirl.WithSharedPhase(true))
type Option func(*options)

// Executor runs functions on the context that owns the display.
// Post must not block, must not run fn on the calling goroutine, and
// must run functions in posting order.
type Executor interface {
	Post(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

// Post calls f(fn).
func (f ExecutorFunc) Post(fn func()) { f(fn) }

// DimmedSaturation is the saturation of clone frames when saturation
// adjustment is enabled.
const DimmedSaturation = 1.7

// defaultCacheSize bounds the dimmed still cache.
const defaultCacheSize = 16

// options holds optional configuration for Animator creation.
type options struct {
	sharedPhase    bool
	saturation     float64
	maxSize        Size
	tickInterval   time.Duration
	tickTransition Transition
	tickSource     TickSource
	executor       Executor
	workers        int
	observer       Observer
	palettes       PaletteSet
	initialState   ContentState
	cacheSize      int
}

// defaultOptions returns the default animator options.
func defaultOptions() options {
	return options{
		saturation:     DimmedSaturation,
		maxSize:        DefaultMaxSize,
		tickInterval:   time.Second,
		tickTransition: Transition{Duration: time.Second, Curve: CurveLinear},
		tickSource:     SystemTicks,
		observer:       nopObserver{},
		initialState:   StatePending,
		cacheSize:      defaultCacheSize,
	}
}

// WithSharedPhase makes the animator start at the process-wide phase and
// publish every phase it advances to.
func WithSharedPhase(enabled bool) Option {
	return func(o *options) {
		o.sharedPhase = enabled
	}
}

// WithSaturationAdjust toggles the saturation boost of clone frames.
// Disabled, clones receive frames identical to the primary ones.
func WithSaturationAdjust(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.saturation = DimmedSaturation
		} else {
			o.saturation = 1
		}
	}
}

// WithMaxSize bounds the rendered bitmap. Layout sizes are fitted into
// it preserving their aspect ratio. Empty sizes are ignored.
func WithMaxSize(s Size) Option {
	return func(o *options) {
		if !s.Empty() {
			o.maxSize = s
		}
	}
}

// WithTickInterval sets the period of the animation ticks and the
// duration of the transition each tick produces.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tickInterval = d
			o.tickTransition.Duration = d
		}
	}
}

// WithTickCurve sets the easing curve of tick transitions.
func WithTickCurve(c Curve) Option {
	return func(o *options) {
		o.tickTransition.Curve = c
	}
}

// WithTickSource replaces the system ticker, for hosts with their own
// frame clock and for tests.
func WithTickSource(src TickSource) Option {
	return func(o *options) {
		if src != nil {
			o.tickSource = src
		}
	}
}

// WithExecutor sets the context deliveries run on. By default each
// animator owns a dedicated serial goroutine.
func WithExecutor(e Executor) Option {
	return func(o *options) {
		o.executor = e
	}
}

// WithWorkers sets the number of frame rendering workers.
// 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithObserver installs an event observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithPalettes overrides the palettes of some or all content states.
// Update rejects a state whose palette fails Palette.Validate; an invalid
// palette for the initial state is replaced by the built-in one.
func WithPalettes(ps PaletteSet) Option {
	return func(o *options) {
		o.palettes = ps
	}
}

// WithInitialState sets the content state before the first Update.
func WithInitialState(s ContentState) Option {
	return func(o *options) {
		o.initialState = s
	}
}

var _ Executor = (*parallel.Serial)(nil)
