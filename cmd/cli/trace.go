package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	rrrArm "rrr_arm"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Drive the arm along a straight line between two points",
	Long: `Interpolates between --start and --end, solves every point in order and stops at the first point without a solution.
Each applied frame is printed; --out renders the final scene with the workspace and the trail.`,
	Example: `  rrr trace --end "50, 120"
  rrr trace --start "130, 0" --end "-40, 90" --steps 100 --out trace.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadArmConfig(cmd)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("steps") {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 {
				return errors.Errorf("--steps must be at least 1, got %d", steps)
			}
			cfg.Steps = steps
		}
		delay, _ := cmd.Flags().GetDuration("delay")
		outPath, _ := cmd.Flags().GetString("out")

		endFlag, _ := cmd.Flags().GetString("end")
		end, err := rrrArm.ParsePoint(endFlag)
		if err != nil {
			return err
		}

		sim, err := rrrArm.NewSimulator(cfg, logger, rrrArm.WithFrameDelay(delay))
		if err != nil {
			return err
		}
		if startFlag, _ := cmd.Flags().GetString("start"); startFlag != "" {
			start, err := rrrArm.ParsePoint(startFlag)
			if err != nil {
				return err
			}
			if err := sim.SetStart(start); err != nil {
				logger.Warnf("Start %s has no solution: %v", rrrArm.FormatPoint(start), err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		res, execErr := sim.Execute(ctx, end, func(f rrrArm.Frame) error {
			tip := f.Joints[3]
			_, err := fmt.Fprintf(out, "%3d  target=(%8.3f, %8.3f)  q=%s  tip=(%8.3f, %8.3f)\n",
				f.Step.Index, f.Step.Target.X, f.Step.Target.Y, f.Step.Angles, tip.X, tip.Y)
			return err
		})

		if outPath != "" {
			if err := renderToFile(outPath, sim.Snapshot()); err != nil {
				return err
			}
		}

		if execErr != nil {
			if errors.Is(execErr, rrrArm.ErrNoSolution) {
				fmt.Fprintf(out, "Limit hit: out of workspace or joint limits at step %d\n", res.FailedAt)
			}
			return execErr
		}
		fmt.Fprintf(out, "completed %d steps, new start %s\n", len(res.Steps), rrrArm.FormatPoint(sim.Start()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().String("start", "", "Start point \"x, y\" (default: arm stretched along X)")
	traceCmd.Flags().String("end", rrrArm.FormatPoint(rrrArm.DefaultEndPoint), "End point \"x, y\"")
	traceCmd.Flags().Int("steps", rrrArm.DefaultPathSteps, "Number of interpolated points, endpoints included")
	traceCmd.Flags().Duration("delay", 0, "Pause between frames, e.g. 5ms")
	traceCmd.Flags().StringP("out", "o", "", "Render the final scene to an .svg or .png file")
}

// renderToFile picks the image format from the file extension.
func renderToFile(path string, scene rrrArm.Scene) error {
	format, err := rrrArm.ParseRenderFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()

	started := time.Now()
	if err := rrrArm.RenderScene(f, scene, format, 8*vg.Inch); err != nil {
		return err
	}
	logger.Infof("Wrote %s in %v", path, time.Since(started))
	return nil
}
