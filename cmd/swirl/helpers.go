package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/swirl"
)

// statePalette resolves a content state name to its configured palette.
func statePalette(name string) (swirl.Palette, error) {
	state, err := swirl.ParseContentState(name)
	if err != nil {
		return nil, err
	}
	ps, err := cfg.PaletteSet()
	if err != nil {
		return nil, err
	}
	return ps.Lookup(state), nil
}

// dimSaturation is the saturation clone frames are rendered with.
func dimSaturation() float64 {
	if cfg.Animation.SaturationAdjust {
		return swirl.DimmedSaturation
	}
	return 1
}

// layoutFlags registers --width and --height.
func layoutFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", 320, "Layout width in pixels")
	cmd.Flags().Int("height", 320, "Layout height in pixels")
}

// layoutSize reads --width and --height.
func layoutSize(cmd *cobra.Command) (swirl.Size, error) {
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	size := swirl.Size{Width: w, Height: h}
	if size.Empty() {
		return swirl.Size{}, fmt.Errorf("layout %s: %w", size, swirl.ErrInvalidSize)
	}
	return size, nil
}
