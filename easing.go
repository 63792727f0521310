package swirl

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// Curve is a named easing function that remaps linear transition time.
// The zero Curve is linear.
type Curve struct {
	name string
	fn   ease.TweenFunc
}

// Built-in curves.
var (
	CurveLinear    = NewCurve("linear", ease.Linear)
	CurveEaseIn    = NewCurve("easeIn", ease.InQuad)
	CurveEaseOut   = NewCurve("easeOut", ease.OutQuad)
	CurveEaseInOut = NewCurve("easeInOut", ease.InOutQuad)
	CurveSpring    = NewCurve("spring", ease.OutBack)
)

var curves = []Curve{CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut, CurveSpring}

// NewCurve wraps a gween easing function. The name is what displays see
// as the easing identifier of a delivery.
func NewCurve(name string, fn ease.TweenFunc) Curve {
	return Curve{name: name, fn: fn}
}

// CurveByName returns the built-in curve with the given name.
func CurveByName(name string) (Curve, error) {
	for _, c := range curves {
		if c.name == name {
			return c, nil
		}
	}
	return Curve{}, fmt.Errorf("swirl: unknown curve %q", name)
}

// Name returns the easing identifier.
func (c Curve) Name() string {
	if c.fn == nil {
		return CurveLinear.name
	}
	return c.name
}

// Solve maps linear time t in [0, 1] to eased time. Input and output are
// clamped to [0, 1], so overshooting curves settle at the end points.
func (c Curve) Solve(t float64) float64 {
	t = clamp01(t)
	if c.fn == nil {
		return t
	}
	return clamp01(float64(c.fn(float32(t), 0, 1, 1)))
}
