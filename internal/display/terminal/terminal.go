// Package terminal plays swirl deliveries on a tcell screen.
//
// Each cell shows two vertically stacked pixels with the upper half
// block rune: the foreground paints the top pixel, the background the
// bottom one. Bitmaps are scaled to the display area by nearest
// neighbor sampling.
package terminal

import (
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/swirl"
)

const halfBlock = '▀'

// DefaultRefresh is the redraw period during playback.
const DefaultRefresh = time.Second / 30

// Display draws deliveries into a rectangle of cells. It implements both
// swirl.Display and swirl.Clone, so one type can show the primary and
// the dimmed stream side by side.
type Display struct {
	screen  tcell.Screen
	refresh time.Duration

	mu     sync.Mutex
	area   image.Rectangle
	shown  *swirl.Image
	play   *playback
	closed bool
}

// playback is one running animated delivery.
type playback struct {
	d    *swirl.Delivery
	stop chan struct{}
	done chan struct{}
}

// Option configures a Display.
type Option func(*Display)

// WithRefresh sets the redraw period during playback.
func WithRefresh(d time.Duration) Option {
	return func(disp *Display) {
		if d > 0 {
			disp.refresh = d
		}
	}
}

// New creates a display drawing into area, in cell coordinates.
func New(screen tcell.Screen, area image.Rectangle, opts ...Option) *Display {
	d := &Display{
		screen:  screen,
		refresh: DefaultRefresh,
		area:    area,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Present plays d. A delivery still playing is cut short and reported
// done.
func (disp *Display) Present(d *swirl.Delivery) {
	disp.mu.Lock()
	if disp.closed {
		disp.mu.Unlock()
		d.Done()
		return
	}
	prev := disp.play
	disp.play = nil
	disp.mu.Unlock()

	if prev != nil {
		close(prev.stop)
		<-prev.done
	}

	if !d.Animated() {
		disp.draw(d.Final(), nil, 0)
		d.Done()
		return
	}

	p := &playback{d: d, stop: make(chan struct{}), done: make(chan struct{})}
	disp.mu.Lock()
	disp.play = p
	disp.mu.Unlock()
	go disp.run(p)
}

// PresentDimmed plays a clone delivery the same way as Present.
func (disp *Display) PresentDimmed(d *swirl.Delivery) {
	disp.Present(d)
}

// Alive reports whether the display still accepts deliveries.
func (disp *Display) Alive() bool {
	disp.mu.Lock()
	defer disp.mu.Unlock()
	return !disp.closed
}

// SetArea moves the display and redraws the current image.
func (disp *Display) SetArea(area image.Rectangle) {
	disp.mu.Lock()
	disp.area = area
	shown := disp.shown
	disp.mu.Unlock()

	if shown != nil {
		disp.draw(shown, nil, 0)
	}
}

// Shown returns the image currently on screen.
func (disp *Display) Shown() *swirl.Image {
	disp.mu.Lock()
	defer disp.mu.Unlock()
	return disp.shown
}

// Close stops playback. Later deliveries are acknowledged but not drawn.
func (disp *Display) Close() {
	disp.mu.Lock()
	if disp.closed {
		disp.mu.Unlock()
		return
	}
	disp.closed = true
	p := disp.play
	disp.play = nil
	disp.mu.Unlock()

	if p != nil {
		close(p.stop)
		<-p.done
	}
}

func (disp *Display) run(p *playback) {
	defer close(p.done)
	defer p.d.Done()

	frames, timing := p.d.Frames, p.d.Timing

	if timing.BeginDelay > 0 {
		if timing.Fill == swirl.FillBackwards {
			disp.draw(frames[0], nil, 0)
		}
		select {
		case <-p.stop:
			return
		case <-time.After(timing.BeginDelay):
		}
	}

	ticker := time.NewTicker(disp.refresh)
	defer ticker.Stop()

	start := time.Now()
	for {
		progress := float64(time.Since(start)) / float64(timing.Duration)
		if progress >= 1 {
			break
		}
		a, b, t := frameAt(len(frames), progress, timing.Mode)
		disp.draw(frames[a], frames[b], t)

		select {
		case <-p.stop:
			return
		case <-ticker.C:
		}
	}

	// Removed on completion or held, the last frame is what remains.
	disp.draw(frames[len(frames)-1], nil, 0)
}

// frameAt resolves playback progress in [0, 1) to the frames to show.
// Discrete playback gives each frame an equal share of the duration.
// Linear playback places frames at even keytimes and blends the pair
// around progress by factor t.
func frameAt(n int, progress float64, mode swirl.CalculationMode) (a, b int, t float64) {
	if n <= 1 {
		return 0, 0, 0
	}
	if mode == swirl.ModeDiscrete {
		i := min(n-1, int(progress*float64(n)))
		return i, i, 0
	}
	pos := progress * float64(n-1)
	a = min(n-2, int(pos))
	return a, a + 1, pos - float64(a)
}

// draw paints img, blended towards next by t when next is not nil.
func (disp *Display) draw(img, next *swirl.Image, t float64) {
	if img == nil {
		return
	}

	disp.mu.Lock()
	area := disp.area
	disp.shown = img
	disp.mu.Unlock()

	cols, rows := area.Dx(), area.Dy()
	if cols <= 0 || rows <= 0 {
		return
	}
	w, h := img.Width(), img.Height()

	for row := 0; row < rows; row++ {
		top := (row * 2 * h) / (rows * 2)
		bottom := ((row*2 + 1) * h) / (rows * 2)
		for col := 0; col < cols; col++ {
			x := (col * w) / cols
			style := tcell.StyleDefault.
				Foreground(sample(img, next, x, top, t)).
				Background(sample(img, next, x, bottom, t))
			disp.screen.SetContent(area.Min.X+col, area.Min.Y+row, halfBlock, nil, style)
		}
	}
	disp.screen.Show()
}

func sample(img, next *swirl.Image, x, y int, t float64) tcell.Color {
	c := img.PixelAt(x, y)
	if next == nil || t <= 0 {
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	n := next.PixelAt(x*next.Width()/img.Width(), y*next.Height()/img.Height())
	mix := func(a, b uint8) int32 {
		return int32(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return tcell.NewRGBColor(mix(c.R, n.R), mix(c.G, n.G), mix(c.B, n.B))
}
