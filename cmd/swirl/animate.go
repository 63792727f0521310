package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/swirl"
	"github.com/gogpu/swirl/internal/export"
)

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Export one transition as numbered PNG frames",
	Long: `Renders the transition from one phase to another and writes its frames and a
manifest.yaml with playback timing to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		duration, _ := cmd.Flags().GetDuration("duration")
		curveName, _ := cmd.Flags().GetString("curve")
		extend, _ := cmd.Flags().GetBool("extend")
		backwards, _ := cmd.Flags().GetBool("backwards")
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
		curve, err := swirl.CurveByName(curveName)
		if err != nil {
			return err
		}

		tr := swirl.Transition{Duration: duration, Curve: curve, Extend: extend, Backwards: backwards}
		plan, next := swirl.NewPlan(from, to, tr)

		seq := swirl.NewSequencer(cfg.Render.Workers)
		defer seq.Close()

		start := time.Now()
		fs, err := seq.Render(cmd.Context(), plan, swirl.FitSize(layout, cfg.MaxSize()), palette, dimSaturation(), dimmed)
		if err != nil {
			return err
		}
		m, err := export.WriteSequence(out, fs, layout)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames (%s, %s) to %s in %v; next phase %d\n",
			len(m.Frames), tr.Kind(), m.Timing.Mode, out, time.Since(start).Round(time.Millisecond), next)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(animateCmd)
	animateCmd.Flags().String("state", swirl.StatePending.String(), "Content state: pending, active or weakSignal")
	animateCmd.Flags().Int("from", 0, "Phase the transition starts from")
	animateCmd.Flags().Int("to", 1, "Phase the transition moves to")
	animateCmd.Flags().Duration("duration", time.Second, "Transition duration")
	animateCmd.Flags().String("curve", swirl.CurveLinear.Name(), "Easing curve: linear, easeIn, easeOut, easeInOut or spring")
	animateCmd.Flags().Bool("extend", false, "Render the extended multi-step path at 60 fps")
	animateCmd.Flags().Bool("backwards", false, "Advance the phase while moving the blobs backwards")
	animateCmd.Flags().Bool("dimmed", false, "Also export the clone frames")
	animateCmd.Flags().StringP("out", "o", "frames", "Output directory")
	layoutFlags(animateCmd)
}
