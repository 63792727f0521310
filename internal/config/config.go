// Package config loads swirl settings from swirl.yaml and SWIRL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/gogpu/swirl"
)

// Config holds application configuration.
type Config struct {
	Animation AnimationConfig     `mapstructure:"animation"`
	Render    RenderConfig        `mapstructure:"render"`
	Palettes  map[string][]string `mapstructure:"palettes"`
	Metrics   MetricsConfig       `mapstructure:"metrics"`
	Log       LogConfig           `mapstructure:"log"`
}

// AnimationConfig holds animator behavior.
type AnimationConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	Curve            string        `mapstructure:"curve"`
	SharedPhase      bool          `mapstructure:"shared_phase"`
	SaturationAdjust bool          `mapstructure:"saturation_adjust"`
	InitialState     string        `mapstructure:"initial_state"`
}

// RenderConfig bounds rendering work.
type RenderConfig struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
	Workers   int `mapstructure:"workers"`
}

// MetricsConfig holds the metrics server settings. An empty Addr
// disables the server.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from path, or from swirl.yaml in the working
// directory or $HOME/.config/swirl when path is empty. A missing default
// file is not an error. Env var overrides use prefix SWIRL_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("animation.tick_interval", time.Second)
	v.SetDefault("animation.curve", swirl.CurveLinear.Name())
	v.SetDefault("animation.shared_phase", false)
	v.SetDefault("animation.saturation_adjust", true)
	v.SetDefault("animation.initial_state", swirl.StatePending.String())
	v.SetDefault("render.max_width", swirl.DefaultMaxSize.Width)
	v.SetDefault("render.max_height", swirl.DefaultMaxSize.Height)
	v.SetDefault("render.workers", 0)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "swirl"))
		v.SetConfigName("swirl")
	}

	v.SetEnvPrefix("SWIRL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// ParseHex parses a #RRGGBB color.
func ParseHex(s string) (swirl.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return swirl.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return swirl.FromColor(c.Clamped()), nil
}

// ParsePalette parses a list of hex colors into a palette of 1, 3 or 4
// colors.
func ParsePalette(hexes []string) (swirl.Palette, error) {
	p := make(swirl.Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseState matches a state name case-insensitively; viper lowercases
// map keys.
func parseState(name string) (swirl.ContentState, error) {
	for _, s := range swirl.ContentStates() {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown content state %q", name)
}

// PaletteSet returns the configured palette overrides.
func (c Config) PaletteSet() (swirl.PaletteSet, error) {
	ps := make(swirl.PaletteSet, len(c.Palettes))
	for name, hexes := range c.Palettes {
		state, err := parseState(name)
		if err != nil {
			return nil, err
		}
		p, err := ParsePalette(hexes)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", state, err)
		}
		ps[state] = p
	}
	return ps, nil
}

// InitialState returns the configured starting content state.
func (c Config) InitialState() (swirl.ContentState, error) {
	return parseState(c.Animation.InitialState)
}

// MaxSize returns the configured bitmap bound.
func (c Config) MaxSize() swirl.Size {
	return swirl.Size{Width: c.Render.MaxWidth, Height: c.Render.MaxHeight}
}

// LogLevel parses the configured level, falling back to info.
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Options translates the configuration into animator options.
func (c Config) Options() ([]swirl.Option, error) {
	palettes, err := c.PaletteSet()
	if err != nil {
		return nil, err
	}
	state, err := c.InitialState()
	if err != nil {
		return nil, err
	}
	curve, err := swirl.CurveByName(c.Animation.Curve)
	if err != nil {
		return nil, err
	}

	return []swirl.Option{
		swirl.WithTickInterval(c.Animation.TickInterval),
		swirl.WithTickCurve(curve),
		swirl.WithSharedPhase(c.Animation.SharedPhase),
		swirl.WithSaturationAdjust(c.Animation.SaturationAdjust),
		swirl.WithMaxSize(c.MaxSize()),
		swirl.WithWorkers(c.Render.Workers),
		swirl.WithPalettes(palettes),
		swirl.WithInitialState(state),
	}, nil
}
