package swirl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/swirl/internal/cache"
	"github.com/gogpu/swirl/internal/parallel"
)

// Animator drives an animated gradient background.
//
// It owns the current phase and content state, a periodic tick source
// that steps the phase, and the rendering of the stills and transitions
// those changes call for. Rendered sequences are committed atomically
// and handed to the Display, and their dimmed variants to every
// registered Clone, on a single executor.
//
// When a new render is requested while another is still being computed,
// the older one is dropped and the new one starts from the last
// committed phase. A size change alone never drops a running transition;
// the still for the new size is rendered once the transition commits.
//
// Animator is safe for concurrent use.
type Animator struct {
	opts    options
	display Display
	exec    Executor
	serial  *parallel.Serial // nil with a caller-provided executor
	seq     *Sequencer
	clones  *CloneRegistry
	dimmed  *cache.Cache[string, *Image]

	mu          sync.Mutex
	closed      bool
	state       ContentState
	palette     Palette
	phase       int
	validPhase  int
	hasValid    bool
	shownPhase  int // phase on screen: the last commit, or the initial phase
	invalidated bool
	layout      Size
	hasLayout   bool

	animating bool
	ticker    Ticker
	tickStop  chan struct{}

	generation    uint64
	inflight      *job
	resizePending bool

	playing   bool
	playToken uint64
	final     *Image
	dimParams *dimmedParams
	overlay   Overlay
}

// job is one render: a still or a transition.
type job struct {
	gen     uint64
	still   bool
	plan    Plan
	phase   int // phase shown by the final frame
	layout  Size
	size    Size // fitted bitmap size
	palette Palette
	dimmed  bool
	done    func()

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
}

func (j *job) kind() string {
	if j.still {
		return "still"
	}
	return Transition{Backwards: j.plan.Backwards, Extend: j.plan.Extend}.Kind()
}

// dimmedParams are the inputs of the current dimmed still, rendered
// lazily through the dimmed cache.
type dimmedParams struct {
	size      Size
	palette   Palette
	positions Positions
}

// NewAnimator creates an idle animator presenting to display.
// Nothing is rendered until the first UpdateLayout or SetSize.
func NewAnimator(display Display, opts ...Option) *Animator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &Animator{
		opts:    o,
		display: display,
		exec:    o.executor,
		seq:     NewSequencer(o.workers),
		clones:  NewCloneRegistry(),
		dimmed:  cache.New[string, *Image](o.cacheSize),
		state:   o.initialState,
		palette: o.palettes.Lookup(o.initialState),
	}
	if err := a.palette.Validate(); err != nil {
		Logger().Warn("swirl: invalid initial palette, using built-in",
			"state", a.state.String(), "error", err)
		a.palette = a.state.Palette()
	}
	if a.exec == nil {
		a.serial = parallel.NewSerial()
		a.exec = a.serial
	}
	if o.sharedPhase {
		a.phase = SharedPhase()
	}
	a.shownPhase = a.phase
	return a
}

// UpdateLayout lays the background out at size and presents whatever
// changed since the last commit: a phase or palette change becomes a
// still or, for an animated tr, a transition; a size change alone
// becomes a still at the new size. done runs once the result has
// finished playing, or right away when nothing needed rendering.
func (a *Animator) UpdateLayout(size Size, tr Transition, done func()) error {
	if size.Empty() {
		Logger().Warn("swirl: rejected layout", "size", size.String())
		return fmt.Errorf("update layout %s: %w", size, ErrInvalidSize)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	a.updateLayoutLocked(size, tr, done)
	return nil
}

// SetPhase moves to phase and, once a layout is known, presents the change
// with tr as UpdateLayout would. Backwards transitions advance past phase
// by their own step count.
func (a *Animator) SetPhase(phase int, tr Transition, done func()) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	a.setPhaseLocked(phase)
	if a.hasLayout {
		a.updateLayoutLocked(a.layout, tr, done)
	} else {
		a.post(done)
	}
	return nil
}

// SetSize lays the background out at size without animation.
func (a *Animator) SetSize(size Size) error {
	return a.UpdateLayout(size, Transition{}, nil)
}

func (a *Animator) updateLayoutLocked(size Size, tr Transition, done func()) {
	sizeUpdated := !a.hasLayout || a.layout != size
	a.layout, a.hasLayout = size, true

	switch {
	case a.hasValid && (a.validPhase != a.phase || a.invalidated):
		from := a.validPhase
		if a.inflight != nil && !a.inflight.still {
			// The running transition will be dropped; start from what is
			// actually on screen.
			from = a.shownPhase
		}
		a.invalidated = false

		if tr.Animated() {
			plan, next := NewPlan(from, a.phase, tr)
			a.setPhaseLocked(next)
			a.validPhase = next
			a.startLocked(&job{still: false, plan: plan, phase: next, done: done})
		} else {
			a.validPhase = a.phase
			a.startLocked(&job{still: true, phase: a.phase, done: done})
		}

	case sizeUpdated:
		if a.inflight != nil && !a.inflight.still {
			a.resizePending = true
			a.post(done)
			return
		}
		a.validPhase, a.hasValid = a.phase, true
		a.invalidated = false
		a.startLocked(&job{still: true, phase: a.phase, done: done})

	default:
		a.post(done)
	}
}

// startLocked fills in the shared job fields, drops any render in flight
// and starts j on its own goroutine.
func (a *Animator) startLocked(j *job) {
	if prev := a.inflight; prev != nil {
		prev.cancel()
		a.opts.observer.ObserveCoalesced(prev.kind())
		Logger().Warn("swirl: coalesced render", "dropped", prev.kind(), "next", j.kind())
	}

	a.generation++
	j.gen = a.generation
	j.layout = a.layout
	j.size = FitSize(a.layout, a.opts.maxSize)
	j.palette = a.palette.Clone()
	j.dimmed = a.clones.Len() > 0
	j.ctx, j.cancel = context.WithCancel(context.Background())
	j.finished = make(chan struct{})

	a.inflight = j
	a.resizePending = false

	Logger().Debug("swirl: render started",
		"kind", j.kind(), "phase", j.phase, "size", j.size.String(), "dimmed", j.dimmed)
	go a.run(j)
}

func (a *Animator) run(j *job) {
	defer close(j.finished)
	defer j.cancel()

	start := time.Now()
	var (
		seq *FrameSequence
		err error
	)
	if j.still {
		seq, err = a.renderStill(j)
	} else {
		seq, err = a.seq.Render(j.ctx, j.plan, j.size, j.palette, a.opts.saturation, j.dimmed)
	}
	elapsed := time.Since(start)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inflight == j {
		a.inflight = nil
	}
	if err != nil || j.gen != a.generation || a.closed {
		if err != nil && !errors.Is(err, context.Canceled) {
			Logger().Error("swirl: render failed", "kind", j.kind(), "error", err)
		}
		a.post(j.done)
		return
	}

	a.opts.observer.ObserveRender(j.kind(), seq.Len(), seq.Dimmed != nil, elapsed)
	a.commitLocked(j, seq)
}

func (a *Animator) renderStill(j *job) (*FrameSequence, error) {
	positions := PositionsAt(j.phase)
	img, err := Render(j.size, j.palette, positions, 1)
	if err != nil {
		return nil, err
	}
	seq := &FrameSequence{
		Frames:    []*Image{img},
		Positions: []Positions{positions},
		Timing:    Timing{Mode: ModeDiscrete},
	}
	if j.dimmed {
		dim, err := Render(j.size, j.palette, positions, a.opts.saturation)
		if err != nil {
			return nil, err
		}
		seq.Dimmed = []*Image{dim}
	}
	return seq, nil
}

// commitLocked makes seq the current content and schedules its delivery.
func (a *Animator) commitLocked(j *job, seq *FrameSequence) {
	final := seq.Final()
	a.final = final
	a.shownPhase = j.phase
	a.dimParams = &dimmedParams{size: j.size, palette: j.palette, positions: PositionsAt(j.phase)}

	var dimmed *Delivery
	switch {
	case seq.Dimmed != nil:
		last := seq.FinalDimmed()
		a.dimmed.Set(last.Hash(), last)
		dimmed = newDelivery(j.layout, seq.Dimmed, seq.Timing, nil)
	case a.clones.Len() > 0:
		// Clones registered after this render started only get the end state.
		if still := a.dimmedStillLocked(); still != nil {
			dimmed = newDelivery(j.layout, []*Image{still}, Timing{Mode: ModeDiscrete}, nil)
		}
	}

	animated := !j.still && seq.Len() > 1
	a.playToken++
	token := a.playToken
	a.playing = animated

	userDone := j.done
	primary := newDelivery(j.layout, seq.Frames, seq.Timing, func() {
		a.playbackFinished(token)
		if userDone != nil {
			userDone()
		}
	})

	overlay, display, layout := a.overlay, a.display, j.layout
	a.exec.Post(func() {
		if overlay != nil {
			overlay.SetAnimating(animated)
			overlay.UpdateComposition(layout, final)
		}
		display.Present(primary)
		if !animated {
			primary.Done()
		}
		clones := 0
		if dimmed != nil {
			clones = a.clones.Deliver(dimmed)
		}
		a.opts.observer.ObserveDelivery(len(primary.Frames), clones)
	})

	Logger().Debug("swirl: committed",
		"kind", j.kind(), "frames", seq.Len(), "phase", j.phase, "hash", final.Hash())

	if a.resizePending {
		a.resizePending = false
		if a.layout != j.layout {
			a.validPhase, a.hasValid = a.phase, true
			a.startLocked(&job{still: true, phase: a.phase})
		}
	}
}

func (a *Animator) playbackFinished(token uint64) {
	a.mu.Lock()
	if token != a.playToken || !a.playing {
		a.mu.Unlock()
		return
	}
	a.playing = false
	overlay := a.overlay
	a.mu.Unlock()

	if overlay != nil {
		overlay.SetAnimating(false)
	}
}

// dimmedStillLocked returns the dimmed variant of the current still,
// rendering it on a cache miss.
func (a *Animator) dimmedStillLocked() *Image {
	p := a.dimParams
	if p == nil {
		return nil
	}
	key := ContentHash(p.size, p.palette, p.positions, a.opts.saturation)
	img := a.dimmed.GetOrCreate(key, func() *Image {
		img, err := Render(p.size, p.palette, p.positions, a.opts.saturation)
		if err != nil {
			Logger().Error("swirl: dimmed render failed", "error", err)
			return nil
		}
		return img
	})
	if img == nil {
		a.dimmed.Delete(key)
	}
	return img
}

// CacheStats describes the dimmed still cache.
type CacheStats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// CacheStats returns the dimmed still cache statistics.
func (a *Animator) CacheStats() CacheStats {
	s := a.dimmed.Stats()
	return CacheStats{Entries: s.Len, Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions}
}

// post runs fn on the executor, if fn is not nil.
func (a *Animator) post(fn func()) {
	if fn != nil {
		a.exec.Post(fn)
	}
}

func (a *Animator) setPhaseLocked(phase int) {
	a.phase = WrapPhase(phase)
	if a.opts.sharedPhase {
		publishSharedPhase(a.phase)
	}
}

// Update switches the content state. When the new state's palette
// differs from the current one, the current phase is re-rendered with
// the new palette as an immediate content swap. A state whose palette
// is invalid is rejected and the current content is kept.
func (a *Animator) Update(state ContentState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if state == a.state {
		return nil
	}
	palette := a.opts.palettes.Lookup(state)
	if err := palette.Validate(); err != nil {
		return fmt.Errorf("update %s: %w", state, err)
	}
	a.state = state
	if palette.Equal(a.palette) {
		return nil
	}
	a.palette = palette
	a.invalidated = true
	a.dimmed.Clear()
	Logger().Debug("swirl: palette changed", "state", state.String())

	if a.hasLayout {
		a.updateLayoutLocked(a.layout, Transition{}, nil)
	}
	return nil
}

// Start begins periodic animation. The first phase step happens
// immediately. Start is a no-op while already animating.
func (a *Animator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.animating {
		return
	}
	a.animating = true
	a.ticker = a.opts.tickSource(a.opts.tickInterval)
	a.tickStop = make(chan struct{})
	go a.runTicks(a.ticker, a.tickStop)

	Logger().Info("swirl: animation started", "interval", a.opts.tickInterval)
	a.stepLocked()
}

// Stop cancels the tick source. Sequences already committed keep
// playing; no new transition is scheduled.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
}

func (a *Animator) stopLocked() {
	if !a.animating {
		return
	}
	a.animating = false
	a.ticker.Stop()
	close(a.tickStop)
	a.ticker, a.tickStop = nil, nil
	Logger().Info("swirl: animation stopped", "phase", a.phase)
}

func (a *Animator) runTicks(t Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			a.mu.Lock()
			// A tick racing Stop must not step.
			if a.tickStop == stop {
				a.stepLocked()
			}
			a.mu.Unlock()
		}
	}
}

// stepLocked advances the phase by one tick and animates to it.
func (a *Animator) stepLocked() {
	a.setPhaseLocked(a.phase - 1)
	if a.hasLayout {
		a.updateLayoutLocked(a.layout, a.opts.tickTransition, nil)
	}
}

// RegisterClone adds a consumer of dimmed deliveries. If a still is
// already committed, the clone receives its dimmed variant right away.
func (a *Animator) RegisterClone(c Clone) CloneHandle {
	h := a.clones.Register(c)

	a.mu.Lock()
	defer a.mu.Unlock()

	if still := a.dimmedStillLocked(); still != nil {
		d := newDelivery(a.layout, []*Image{still}, Timing{Mode: ModeDiscrete}, nil)
		a.exec.Post(func() { c.PresentDimmed(d) })
	}
	return h
}

// UnregisterClone removes a clone. Deliveries already queued for it may
// still arrive.
func (a *Animator) UnregisterClone(h CloneHandle) bool {
	return a.clones.Unregister(h)
}

// SetOverlay attaches an overlay, or detaches it when o is nil. A newly
// attached overlay is brought up to date with the current content.
func (a *Animator) SetOverlay(o Overlay) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.overlay = o
	if o == nil {
		return
	}
	playing, final, layout := a.playing, a.final, a.layout
	a.exec.Post(func() {
		o.SetAnimating(playing)
		if final != nil {
			o.UpdateComposition(layout, final)
		}
	})
}

// DimmedImage returns the dimmed variant of the current still, or nil
// before the first commit.
func (a *Animator) DimmedImage() *Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dimmedStillLocked()
}

// Phase returns the current phase.
func (a *Animator) Phase() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// State returns the current content state.
func (a *Animator) State() ContentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Animating reports whether the tick source is running.
func (a *Animator) Animating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.animating
}

// Playing reports whether a delivered transition is still playing.
func (a *Animator) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Image returns the last committed final frame, or nil.
func (a *Animator) Image() *Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.final
}

// Hash returns the content hash of the last committed final frame.
func (a *Animator) Hash() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.final == nil {
		return ""
	}
	return a.final.Hash()
}

// Wait blocks until no render is in flight and, with the default
// executor, every queued delivery has been presented. It must not be
// called from the executor.
func (a *Animator) Wait() {
	for {
		a.mu.Lock()
		j := a.inflight
		a.mu.Unlock()
		if j == nil {
			break
		}
		<-j.finished
	}
	if a.serial != nil {
		a.serial.Wait()
	}
}

// Close stops the animation, drops any render in flight and releases the
// animator's goroutines. Queued deliveries are still presented.
func (a *Animator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.stopLocked()
	j := a.inflight
	if j != nil {
		j.cancel()
	}
	a.mu.Unlock()

	if j != nil {
		<-j.finished
	}
	a.seq.Close()
	if a.serial != nil {
		a.serial.Close()
	}
	Logger().Info("swirl: animator closed")
}
