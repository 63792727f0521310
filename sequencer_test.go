package swirl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFrameCount(t *testing.T) {
	tests := []struct {
		d      time.Duration
		extend bool
		want   int
	}{
		{time.Second, false, 30},
		{time.Second, true, 60},
		{300 * time.Millisecond, false, 9},
		{550 * time.Millisecond, true, 33},
		{time.Millisecond, false, 1},
		{0, true, 1},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.d, tt.extend); got != tt.want {
			t.Errorf("FrameCount(%v, %v) = %d, want %d", tt.d, tt.extend, got, tt.want)
		}
	}
}

func TestPlanSteps(t *testing.T) {
	tests := []struct {
		name                string
		from, phase         int
		backwards, extend   bool
		wantFirst, wantLast Positions
		wantLen, wantNext   int
	}{
		{"direct", 0, 3, false, false, PositionsAt(0), PositionsAt(3), 2, 3},
		{"backwards", 0, 7, true, false, PositionsAt(7), PositionsAt(0), 2, 0},
		{"backwards extended", 2, 2, true, true, PositionsAt(2), PositionsAt(0), 7, 0},
		{"extended", 5, 1, false, true, PositionsAt(5), PositionsAt(1), 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, next := PlanSteps(tt.from, tt.phase, tt.backwards, tt.extend)
			if len(steps) != tt.wantLen {
				t.Fatalf("len(steps) = %d, want %d", len(steps), tt.wantLen)
			}
			if next != tt.wantNext {
				t.Errorf("next = %d, want %d", next, tt.wantNext)
			}
			if steps[0] != tt.wantFirst {
				t.Errorf("first step = %v, want %v", steps[0], tt.wantFirst)
			}
			if steps[len(steps)-1] != tt.wantLast {
				t.Errorf("last step = %v, want %v", steps[len(steps)-1], tt.wantLast)
			}
		})
	}
}

func TestPlanStepsExtendedCountsDown(t *testing.T) {
	steps, _ := PlanSteps(0, 2, false, true)
	for i, s := range steps {
		if want := PositionsAt(6 - i); s != want {
			t.Errorf("steps[%d] = %v, want phase %d", i, s, 6-i)
		}
	}
}

func TestSampleEndpoints(t *testing.T) {
	tests := []struct {
		name string
		tr   Transition
		from int
		to   int
		want int
	}{
		{"direct 0.3s", Transition{Duration: 300 * time.Millisecond, Curve: CurveLinear}, 0, 3, 9},
		{"direct eased", Transition{Duration: time.Second, Curve: CurveEaseInOut}, 4, 1, 30},
		{"extended remainder", Transition{Duration: 550 * time.Millisecond, Extend: true}, 0, 2, 33},
		{"backwards extended", Transition{Duration: time.Second, Backwards: true, Extend: true}, 0, 0, 60},
		{"spring", Transition{Duration: 500 * time.Millisecond, Curve: CurveSpring}, 7, 6, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, _ := NewPlan(tt.from, tt.to, tt.tr)
			samples := plan.Sample()
			if len(samples) != tt.want {
				t.Fatalf("len(samples) = %d, want %d", len(samples), tt.want)
			}
			if samples[0] != plan.Steps[0] {
				t.Errorf("first sample = %v, want first step %v", samples[0], plan.Steps[0])
			}
			if last := plan.Steps[len(plan.Steps)-1]; samples[len(samples)-1] != last {
				t.Errorf("last sample = %v, want last step %v", samples[len(samples)-1], last)
			}
		})
	}
}

func TestSampleVisitsEveryStep(t *testing.T) {
	// 33 frames over 4 segments: 8 per segment, 9 in the last.
	plan, _ := NewPlan(0, 2, Transition{Duration: 550 * time.Millisecond, Extend: true})
	samples := plan.Sample()

	for i, step := range plan.Steps {
		found := false
		for _, s := range samples {
			if s == step {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("step %d never sampled", i)
		}
	}
}

func TestSampleFewerFramesThanSegments(t *testing.T) {
	steps, _ := PlanSteps(0, 3, true, true)
	plan := Plan{Steps: steps, Frames: 3, Curve: CurveLinear}
	samples := plan.Sample()

	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	if samples[0] != steps[0] {
		t.Errorf("first sample = %v, want %v", samples[0], steps[0])
	}
	if samples[2] != steps[len(steps)-1] {
		t.Errorf("last sample = %v, want %v", samples[2], steps[len(steps)-1])
	}
	if samples[1] != steps[3] {
		t.Errorf("middle sample = %v, want %v", samples[1], steps[3])
	}
}

func TestSampleSingleFrame(t *testing.T) {
	plan, _ := NewPlan(0, 3, Transition{Duration: 10 * time.Millisecond})
	samples := plan.Sample()
	if len(samples) != 1 {
		t.Fatalf("len(samples) = %d, want 1", len(samples))
	}
	if samples[0] != PositionsAt(3) {
		t.Errorf("single sample should be the final step")
	}
}

func TestPlanTiming(t *testing.T) {
	tests := []struct {
		name  string
		tr    Transition
		mode  CalculationMode
		fill  FillMode
		delay time.Duration
	}{
		{"direct", Transition{Duration: time.Second}, ModeLinear, FillNone, 0},
		{"backwards", Transition{Duration: time.Second, Backwards: true}, ModeDiscrete, FillNone, 0},
		{"extended", Transition{Duration: time.Second, Extend: true}, ModeDiscrete, FillBackwards, 250 * time.Millisecond},
		{"backwards extended", Transition{Duration: time.Second, Extend: true, Backwards: true}, ModeDiscrete, FillNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, _ := NewPlan(0, 1, tt.tr)
			timing := plan.Timing()
			if timing.Mode != tt.mode {
				t.Errorf("Mode = %v, want %v", timing.Mode, tt.mode)
			}
			if timing.Fill != tt.fill {
				t.Errorf("Fill = %v, want %v", timing.Fill, tt.fill)
			}
			if timing.BeginDelay != tt.delay {
				t.Errorf("BeginDelay = %v, want %v", timing.BeginDelay, tt.delay)
			}
			if !timing.RemoveOnCompletion {
				t.Error("RemoveOnCompletion should be set")
			}
			if timing.Duration != tt.tr.Duration {
				t.Errorf("Duration = %v, want %v", timing.Duration, tt.tr.Duration)
			}
			if timing.Curve != "linear" {
				t.Errorf("Curve = %q, want linear", timing.Curve)
			}
		})
	}
}

func TestTransitionKind(t *testing.T) {
	tests := []struct {
		tr   Transition
		want string
	}{
		{Transition{}, "direct"},
		{Transition{Extend: true}, "extend"},
		{Transition{Backwards: true}, "backwards"},
		{Transition{Backwards: true, Extend: true}, "backwards"},
	}
	for _, tt := range tests {
		if got := tt.tr.Kind(); got != tt.want {
			t.Errorf("%+v.Kind() = %q, want %q", tt.tr, got, tt.want)
		}
	}
	if (Transition{Duration: time.Millisecond}).Animated() {
		t.Error("1ms transition should not be animated")
	}
	if !(Transition{Duration: 2 * time.Millisecond}).Animated() {
		t.Error("2ms transition should be animated")
	}
}

func TestSequencerRender(t *testing.T) {
	seq := NewSequencer(4)
	defer seq.Close()

	palette := StatePending.Palette()
	plan, _ := NewPlan(0, 3, Transition{Duration: 300 * time.Millisecond, Curve: CurveLinear})

	fs, err := seq.Render(context.Background(), plan, testSize, palette, DimmedSaturation, true)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fs.Len() != 9 || len(fs.Dimmed) != 9 || len(fs.Positions) != 9 {
		t.Fatalf("lengths = %d/%d/%d, want 9", fs.Len(), len(fs.Dimmed), len(fs.Positions))
	}

	if want := ContentHash(testSize, palette, PositionsAt(0), 1); fs.Frames[0].Hash() != want {
		t.Errorf("first frame hash = %q, want %q", fs.Frames[0].Hash(), want)
	}
	if want := ContentHash(testSize, palette, PositionsAt(3), 1); fs.Final().Hash() != want {
		t.Errorf("final frame hash = %q, want %q", fs.Final().Hash(), want)
	}

	for i := range fs.Frames {
		if want := ContentHash(testSize, palette, fs.Positions[i], 1); fs.Frames[i].Hash() != want {
			t.Errorf("frame %d out of order", i)
		}
		prefix := strings.TrimSuffix(fs.Frames[i].Hash(), "_1")
		if got := fs.Dimmed[i].Hash(); got != prefix+"_1.7" {
			t.Errorf("dimmed frame %d hash = %q, want %q", i, got, prefix+"_1.7")
		}
	}
	if fs.FinalDimmed() != fs.Dimmed[8] {
		t.Error("FinalDimmed should be the last dimmed frame")
	}
	if fs.Timing.Mode != ModeLinear {
		t.Errorf("Timing.Mode = %v", fs.Timing.Mode)
	}
}

func TestSequencerRenderWithoutDimmed(t *testing.T) {
	seq := NewSequencer(2)
	defer seq.Close()

	plan, _ := NewPlan(1, 2, Transition{Duration: 100 * time.Millisecond})
	fs, err := seq.Render(context.Background(), plan, testSize, StateActive.Palette(), DimmedSaturation, false)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Dimmed != nil || fs.FinalDimmed() != nil {
		t.Error("no dimmed sequence was requested")
	}
}

func TestSequencerRenderCancelled(t *testing.T) {
	seq := NewSequencer(2)
	defer seq.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, _ := NewPlan(0, 1, Transition{Duration: time.Second})
	_, err := seq.Render(ctx, plan, testSize, StatePending.Palette(), DimmedSaturation, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSequencerRenderInvalid(t *testing.T) {
	seq := NewSequencer(1)
	defer seq.Close()

	plan, _ := NewPlan(0, 1, Transition{Duration: time.Second})
	if _, err := seq.Render(context.Background(), plan, Size{}, StatePending.Palette(), 1, false); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
	if _, err := seq.Render(context.Background(), plan, testSize, Palette{}, 1, false); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("err = %v, want ErrInvalidPalette", err)
	}
}

func TestSequencerRenderAfterClose(t *testing.T) {
	seq := NewSequencer(2)
	seq.Close()

	plan, _ := NewPlan(0, 1, Transition{Duration: 100 * time.Millisecond})
	fs, err := seq.Render(context.Background(), plan, testSize, StatePending.Palette(), 1, false)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Len() != 3 {
		t.Errorf("Len() = %d, want 3", fs.Len())
	}
}

func BenchmarkSequencerRender(b *testing.B) {
	seq := NewSequencer(0)
	defer seq.Close()

	plan, _ := NewPlan(0, 1, Transition{Duration: time.Second})
	palette := StatePending.Palette()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = seq.Render(context.Background(), plan, DefaultMaxSize, palette, DimmedSaturation, true)
	}
}
