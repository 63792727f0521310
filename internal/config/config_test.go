package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/swirl"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swirl.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Animation.TickInterval != time.Second {
		t.Errorf("tick_interval = %v, want 1s", c.Animation.TickInterval)
	}
	if !c.Animation.SaturationAdjust {
		t.Error("saturation_adjust should default to true")
	}
	if c.MaxSize() != swirl.DefaultMaxSize {
		t.Errorf("MaxSize() = %v, want %v", c.MaxSize(), swirl.DefaultMaxSize)
	}
	if c.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v", c.LogLevel())
	}
	state, err := c.InitialState()
	if err != nil || state != swirl.StatePending {
		t.Errorf("InitialState() = %v, %v", state, err)
	}
	if c.Metrics.Addr != "" {
		t.Errorf("metrics.addr = %q, want empty", c.Metrics.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
animation:
  tick_interval: 500ms
  curve: easeInOut
  shared_phase: true
  saturation_adjust: false
  initial_state: weakSignal
render:
  max_width: 64
  max_height: 48
  workers: 3
palettes:
  active: ["#ff0000", "#00ff00", "#0000ff"]
  weakSignal: ["#808080"]
metrics:
  addr: ":9090"
log:
  level: debug
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Animation.TickInterval != 500*time.Millisecond {
		t.Errorf("tick_interval = %v", c.Animation.TickInterval)
	}
	if !c.Animation.SharedPhase || c.Animation.SaturationAdjust {
		t.Errorf("animation flags = %+v", c.Animation)
	}
	if c.MaxSize() != (swirl.Size{Width: 64, Height: 48}) || c.Render.Workers != 3 {
		t.Errorf("render = %+v", c.Render)
	}
	if c.Metrics.Addr != ":9090" {
		t.Errorf("metrics.addr = %q", c.Metrics.Addr)
	}
	if c.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", c.LogLevel())
	}

	state, err := c.InitialState()
	if err != nil || state != swirl.StateWeakSignal {
		t.Errorf("InitialState() = %v, %v", state, err)
	}

	ps, err := c.PaletteSet()
	if err != nil {
		t.Fatalf("PaletteSet: %v", err)
	}
	want := swirl.Palette{swirl.RGB(1, 0, 0), swirl.RGB(0, 1, 0), swirl.RGB(0, 0, 1)}
	if !ps[swirl.StateActive].Equal(want) {
		t.Errorf("active palette = %v, want %v", ps[swirl.StateActive], want)
	}
	if len(ps[swirl.StateWeakSignal]) != 1 {
		t.Errorf("weakSignal palette = %v", ps[swirl.StateWeakSignal])
	}
	if _, ok := ps[swirl.StatePending]; ok {
		t.Error("pending was not configured")
	}

	opts, err := c.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	a := swirl.NewAnimator(swirl.DisplayFunc(func(*swirl.Delivery) {}), opts...)
	defer a.Close()
	if a.State() != swirl.StateWeakSignal {
		t.Errorf("animator state = %v", a.State())
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "animation:\n  tick_interval: 2s\n")
	t.Setenv("SWIRL_ANIMATION_TICK_INTERVAL", "250ms")
	t.Setenv("SWIRL_RENDER_MAX_WIDTH", "20")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Animation.TickInterval != 250*time.Millisecond {
		t.Errorf("tick_interval = %v, want env override 250ms", c.Animation.TickInterval)
	}
	if c.Render.MaxWidth != 20 {
		t.Errorf("max_width = %d, want 20", c.Render.MaxWidth)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("an explicit missing file should fail")
	}
}

func TestParsePalette(t *testing.T) {
	tests := []struct {
		name    string
		hexes   []string
		wantLen int
		wantErr error
	}{
		{"single", []string{"#112233"}, 1, nil},
		{"four", []string{"#000000", "#ffffff", "#ff00ff", "#00ffff"}, 4, nil},
		{"two", []string{"#000000", "#ffffff"}, 0, swirl.ErrInvalidPalette},
		{"empty", nil, 0, swirl.ErrInvalidPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePalette(tt.hexes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(p) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(p), tt.wantLen)
			}
		})
	}

	if _, err := ParsePalette([]string{"not-a-color"}); err == nil {
		t.Error("bad hex should fail")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FF8000")
	if err != nil {
		t.Fatal(err)
	}
	if c.Packed() != 0xFFFF8000 {
		t.Errorf("Packed() = %#08x, want 0xFFFF8000", c.Packed())
	}
}

func TestOptionsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"curve", Config{Animation: AnimationConfig{Curve: "wobble", InitialState: "pending"}}},
		{"state", Config{Animation: AnimationConfig{Curve: "linear", InitialState: "ringing"}}},
		{"palette state", Config{
			Animation: AnimationConfig{Curve: "linear", InitialState: "pending"},
			Palettes:  map[string][]string{"ringing": {"#000000"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Options(); err == nil {
				t.Error("Options() should fail")
			}
		})
	}
}
