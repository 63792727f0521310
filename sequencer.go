package swirl

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/swirl/internal/parallel"
)

// Frame rates of rendered transitions.
const (
	DefaultFPS  = 30
	ExtendedFPS = 60
)

// extendedBeginDelay postpones extended forward transitions so they start
// after the layout change that triggered them.
const extendedBeginDelay = 250 * time.Millisecond

// Transition describes how a layout update is presented.
// The zero Transition swaps content immediately.
type Transition struct {
	Duration time.Duration
	Curve    Curve

	// Extend renders a longer multi-step path at ExtendedFPS.
	Extend bool
	// Backwards advances the phase forward while the blobs visibly move
	// the opposite way to a direct transition.
	Backwards bool
}

// Animated reports whether the transition produces more than a still frame.
func (t Transition) Animated() bool {
	return t.Duration > time.Millisecond
}

// Kind names the step chain the transition builds.
func (t Transition) Kind() string {
	switch {
	case t.Backwards:
		return "backwards"
	case t.Extend:
		return "extend"
	default:
		return "direct"
	}
}

// FrameCount returns the number of frames sampled for a transition of
// duration d: round(seconds * fps), with fps 60 when extend is set and
// 30 otherwise. At least one frame is always produced.
func FrameCount(d time.Duration, extend bool) int {
	fps := float64(DefaultFPS)
	if extend {
		fps = ExtendedFPS
	}
	return max(1, int(math.Round(d.Seconds()*fps)))
}

// PlanSteps builds the keyframe chain for a transition whose last
// committed phase is from and whose current phase is phase. It returns
// the chain and the phase to commit afterwards.
//
// Direct transitions have two steps, from and phase. Backwards
// transitions advance phase by 6 (extend) or 1 and walk the intermediate
// phases from the old phase up to the new one. Extended forward
// transitions count down from phase+4 to phase.
func PlanSteps(from, phase int, backwards, extend bool) ([]Positions, int) {
	from, phase = WrapPhase(from), WrapPhase(phase)

	switch {
	case backwards:
		count := 1
		if extend {
			count = 6
		}
		next := WrapPhase(phase + count)
		steps := make([]Positions, 0, count+1)
		for i := 0; i <= count; i++ {
			steps = append(steps, PositionsAt(phase+i))
		}
		return steps, next

	case extend:
		const count = 4
		steps := make([]Positions, 0, count+1)
		for i := count; i >= 0; i-- {
			steps = append(steps, PositionsAt(phase+i))
		}
		return steps, phase

	default:
		return []Positions{PositionsAt(from), PositionsAt(phase)}, phase
	}
}

// Plan is a transition ready to be sampled: an ordered chain of at least
// two keyframes, a frame count and an easing curve.
type Plan struct {
	Steps     []Positions
	Frames    int
	Curve     Curve
	Duration  time.Duration
	Backwards bool
	Extend    bool
}

// NewPlan builds the plan for tr from the last committed phase to the
// current one. It returns the plan and the phase to commit.
func NewPlan(from, phase int, tr Transition) (Plan, int) {
	steps, next := PlanSteps(from, phase, tr.Backwards, tr.Extend)
	return Plan{
		Steps:     steps,
		Frames:    FrameCount(tr.Duration, tr.Extend),
		Curve:     tr.Curve,
		Duration:  tr.Duration,
		Backwards: tr.Backwards,
		Extend:    tr.Extend,
	}, next
}

// Sample returns the interpolated positions of every frame, in playback
// order.
//
// Frames are split evenly across the len(Steps)-1 segments and the last
// segment absorbs the remainder. For each frame the eased time selects a
// global frame index, which resolves to a segment and a local factor
// between that segment's two keyframes. The first frame is exactly the
// first keyframe and the last frame exactly the last.
func (p Plan) Sample() []Positions {
	n := max(1, p.Frames)
	out := make([]Positions, n)
	if len(p.Steps) == 0 {
		return out
	}
	segments := len(p.Steps) - 1
	if segments == 0 {
		for i := range out {
			out[i] = p.Steps[0]
		}
		return out
	}

	perSegment := n / segments
	lastFrames := n - perSegment*(segments-1)

	for i := range out {
		linear := 1.0
		if n > 1 {
			linear = float64(i) / float64(n-1)
		}
		t := p.Curve.Solve(linear)

		if perSegment == 0 {
			// Fewer frames than segments: sample the chain continuously.
			s := t * float64(segments)
			seg := min(segments-1, int(s))
			out[i] = p.Steps[seg].Lerp(p.Steps[seg+1], s-float64(seg))
			continue
		}

		global := int(math.Round(t * float64(n-1)))
		seg := min(segments-1, global/perSegment)
		local := float64(global - seg*perSegment)

		var st float64
		switch {
		case seg < segments-1:
			st = local / float64(perSegment)
		case lastFrames > 1:
			st = local / float64(lastFrames-1)
		default:
			st = 1
		}
		out[i] = p.Steps[seg].Lerp(p.Steps[seg+1], st)
	}
	return out
}

// Timing returns the playback metadata displays receive with the frames.
func (p Plan) Timing() Timing {
	t := Timing{
		Duration:           p.Duration,
		Curve:              p.Curve.Name(),
		Mode:               ModeLinear,
		RemoveOnCompletion: true,
	}
	if p.Backwards || p.Extend {
		t.Mode = ModeDiscrete
	}
	if p.Extend && !p.Backwards {
		t.Fill = FillBackwards
		t.BeginDelay = extendedBeginDelay
	}
	return t
}

// FrameSequence is the rendered result of a Plan.
type FrameSequence struct {
	// Frames are the primary images in playback order.
	Frames []*Image
	// Dimmed holds the saturation-adjusted variant of every frame, or is
	// nil when no dimmed sequence was requested.
	Dimmed []*Image
	// Positions are the sampled blob centers of every frame.
	Positions []Positions
	Timing    Timing
}

// Len returns the number of frames.
func (s *FrameSequence) Len() int {
	return len(s.Frames)
}

// Final returns the last primary frame, which the display holds once
// playback finishes.
func (s *FrameSequence) Final() *Image {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// FinalDimmed returns the last dimmed frame, or nil.
func (s *FrameSequence) FinalDimmed() *Image {
	if len(s.Dimmed) == 0 {
		return nil
	}
	return s.Dimmed[len(s.Dimmed)-1]
}

// Sequencer renders plans into frame sequences, spreading frames across
// a worker pool.
//
// Sequencer is safe for concurrent use.
type Sequencer struct {
	pool *parallel.WorkerPool
}

// NewSequencer creates a sequencer with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewSequencer(workers int) *Sequencer {
	return &Sequencer{pool: parallel.NewWorkerPool(workers)}
}

// Close releases the worker goroutines. Render keeps working after Close
// but runs on the calling goroutine.
func (s *Sequencer) Close() {
	s.pool.Close()
}

// Render rasterizes every sample of plan at size with palette. When
// dimmed is true a second sequence at saturation dimSaturation is built
// from the same sampled positions, so both sequences match frame for
// frame. Frames may be computed out of order but are returned in sample
// order. Cancelling ctx abandons the remaining frames and returns the
// context error.
func (s *Sequencer) Render(ctx context.Context, plan Plan, size Size, palette Palette, dimSaturation float64, dimmed bool) (*FrameSequence, error) {
	if size.Empty() {
		return nil, fmt.Errorf("sequence %s: %w", size, ErrInvalidSize)
	}
	if err := palette.Validate(); err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	colors := palette.Expand()

	samples := plan.Sample()
	seq := &FrameSequence{
		Frames:    make([]*Image, len(samples)),
		Positions: samples,
		Timing:    plan.Timing(),
	}
	if dimmed {
		seq.Dimmed = make([]*Image, len(samples))
	}

	var (
		errOnce  sync.Once
		firstErr error
	)
	work := make([]func(), len(samples))
	for i, positions := range samples {
		work[i] = func() {
			img, err := Render(size, colors, positions, 1)
			if err == nil && dimmed {
				seq.Dimmed[i], err = Render(size, colors, positions, dimSaturation)
			}
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				return
			}
			seq.Frames[i] = img
		}
	}

	if err := s.pool.ExecuteAll(ctx, work); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	Logger().Debug("swirl: rendered sequence",
		"frames", len(samples), "steps", len(plan.Steps), "dimmed", dimmed,
		"size", size.String(), "workers", s.pool.Workers())
	return seq, nil
}
