package swirl

import (
	"math"
	"testing"
)

func TestCurveEndpoints(t *testing.T) {
	for _, c := range curves {
		t.Run(c.Name(), func(t *testing.T) {
			if got := c.Solve(0); math.Abs(got) > 1e-6 {
				t.Errorf("Solve(0) = %v, want 0", got)
			}
			if got := c.Solve(1); math.Abs(got-1) > 1e-6 {
				t.Errorf("Solve(1) = %v, want 1", got)
			}
			for i := 0; i <= 20; i++ {
				if got := c.Solve(float64(i) / 20); got < 0 || got > 1 {
					t.Errorf("Solve(%v) = %v, outside [0, 1]", float64(i)/20, got)
				}
			}
		})
	}
}

func TestCurveSolveClampsInput(t *testing.T) {
	if got := CurveEaseIn.Solve(-3); got != 0 {
		t.Errorf("Solve(-3) = %v, want 0", got)
	}
	if got := CurveEaseOut.Solve(7); math.Abs(got-1) > 1e-6 {
		t.Errorf("Solve(7) = %v, want 1", got)
	}
}

func TestCurveShapes(t *testing.T) {
	if got := CurveLinear.Solve(0.5); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("linear(0.5) = %v", got)
	}
	if got := CurveEaseIn.Solve(0.5); got >= 0.5 {
		t.Errorf("easeIn(0.5) = %v, want < 0.5", got)
	}
	if got := CurveEaseOut.Solve(0.5); got <= 0.5 {
		t.Errorf("easeOut(0.5) = %v, want > 0.5", got)
	}
	// OutBack overshoots before settling and is clamped at 1.
	if got := CurveSpring.Solve(0.8); got != 1 {
		t.Errorf("spring(0.8) = %v, want clamped 1", got)
	}
}

func TestZeroCurve(t *testing.T) {
	var c Curve
	if c.Name() != "linear" {
		t.Errorf("Name() = %q, want linear", c.Name())
	}
	if got := c.Solve(0.25); got != 0.25 {
		t.Errorf("Solve(0.25) = %v", got)
	}
}

func TestCurveByName(t *testing.T) {
	for _, name := range []string{"linear", "easeIn", "easeOut", "easeInOut", "spring"} {
		c, err := CurveByName(name)
		if err != nil {
			t.Errorf("CurveByName(%q): %v", name, err)
			continue
		}
		if c.Name() != name {
			t.Errorf("Name() = %q, want %q", c.Name(), name)
		}
	}
	if _, err := CurveByName("bounce"); err == nil {
		t.Error("CurveByName(bounce) should fail")
	}
}
