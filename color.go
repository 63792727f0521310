package swirl

import (
	"fmt"
	"image/color"
	"math"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return RGBA{}
	}
	// color.Color is premultiplied; RGBA is straight alpha.
	return RGBA{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 65535,
	}
}

// RGBA implements the color.Color interface.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts the color to 8-bit straight alpha.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Packed returns the color as a 0xAARRGGBB integer.
func (c RGBA) Packed() uint32 {
	n := c.NRGBA()
	return uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// Equal reports whether c and other are identical component-wise.
func (c RGBA) Equal(other RGBA) bool {
	return c == other
}

// String returns the color as #RRGGBBAA.
func (c RGBA) String() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// to8 converts a [0, 1] component to a byte, clamping out-of-range values.
func to8(x float64) uint8 {
	return uint8(math.Round(clamp255(x * 255)))
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Palette is an ordered list of blob colors.
// The rasterizer accepts one, three or four colors; a single color is
// expanded to three identical entries before blending.
type Palette []RGBA

// Equal reports whether p and other hold the same colors in the same order.
func (p Palette) Equal(other Palette) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Validate reports ErrInvalidPalette unless p has 1, 3 or 4 colors.
func (p Palette) Validate() error {
	if n := len(p); n != 1 && n != 3 && n != 4 {
		return fmt.Errorf("palette with %d colors: %w", n, ErrInvalidPalette)
	}
	return nil
}

// Expand returns the palette in the form the rasterizer blends:
// a single color becomes three identical entries, anything else is
// returned unchanged.
func (p Palette) Expand() Palette {
	if len(p) == 1 {
		return Palette{p[0], p[0], p[0]}
	}
	return p
}

// Clone returns a copy of p.
func (p Palette) Clone() Palette {
	if p == nil {
		return nil
	}
	return append(Palette(nil), p...)
}

// ContentState selects the palette of the background.
type ContentState int

const (
	// StatePending is shown while a call is being established.
	StatePending ContentState = iota
	// StateActive is shown for an established call.
	StateActive
	// StateWeakSignal is shown while the connection is degraded.
	StateWeakSignal
)

var stateNames = [...]string{
	StatePending:    "pending",
	StateActive:     "active",
	StateWeakSignal: "weakSignal",
}

// String returns the state name.
func (s ContentState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("ContentState(%d)", int(s))
	}
	return stateNames[s]
}

// ParseContentState parses a state name as returned by String.
func ParseContentState(name string) (ContentState, error) {
	for i, n := range stateNames {
		if n == name {
			return ContentState(i), nil
		}
	}
	return 0, fmt.Errorf("swirl: unknown content state %q", name)
}

// ContentStates lists every state in declaration order.
func ContentStates() []ContentState {
	return []ContentState{StatePending, StateActive, StateWeakSignal}
}

var defaultPalettes = map[ContentState]Palette{
	StatePending: {
		RGB(0.45, 0.38, 0.85),
		RGB(0.67, 0.40, 0.83),
		RGB(0.38, 0.42, 0.83),
		RGB(0.32, 0.58, 0.84),
	},
	StateActive: {
		RGB(0.24, 0.61, 0.56),
		RGB(0.73, 0.75, 0.36),
		RGB(0.22, 0.55, 0.44),
		RGB(0.33, 0.65, 0.87),
	},
	StateWeakSignal: {
		RGB(1.0, 0.49, 0.27),
		RGB(0.79, 0.29, 0.53),
		RGB(0.96, 0.6, 0.18),
		RGB(0.72, 0.27, 0.6),
	},
}

// Palette returns the built-in palette for s, or nil for an unknown state.
// The returned slice is a copy.
func (s ContentState) Palette() Palette {
	return defaultPalettes[s].Clone()
}

// PaletteSet maps content states to palettes. States missing from the
// set fall back to the built-in palettes.
type PaletteSet map[ContentState]Palette

// Lookup returns the palette for s.
func (ps PaletteSet) Lookup(s ContentState) Palette {
	if p, ok := ps[s]; ok && len(p) > 0 {
		return p.Clone()
	}
	return s.Palette()
}
