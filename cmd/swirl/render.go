package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/swirl"
	"github.com/gogpu/swirl/internal/export"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one still to a PNG file",
	Long: `Renders the gradient for a content state and phase. The bitmap is rendered at
the configured maximum size and scaled up to the layout size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		phase, _ := cmd.Flags().GetInt("phase")
		dimmed, _ := cmd.Flags().GetBool("dimmed")
		out, _ := cmd.Flags().GetString("out")

		layout, err := layoutSize(cmd)
		if err != nil {
			return err
		}
		palette, err := statePalette(state)
		if err != nil {
			return err
		}

		saturation := 1.0
		if dimmed {
			saturation = dimSaturation()
		}
		img, err := swirl.Render(swirl.FitSize(layout, cfg.MaxSize()), palette, swirl.PositionsAt(phase), saturation)
		if err != nil {
			return err
		}
		if err := export.WritePNG(out, img, layout); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s from %s, hash %s)\n", out, layout, img.Size(), img.Hash())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("state", swirl.StatePending.String(), "Content state: pending, active or weakSignal")
	renderCmd.Flags().Int("phase", 0, "Animation phase")
	renderCmd.Flags().Bool("dimmed", false, "Render the saturation-adjusted clone variant")
	renderCmd.Flags().StringP("out", "o", "swirl.png", "Output PNG file")
	layoutFlags(renderCmd)
}
