package main

import (
	"fmt"

	rrrArm "rrr_arm"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Sample the reachable workspace",
	Long:  `Samples a square grid around the base and keeps the points the solver accepts. With --out the cloud is rendered to an image, otherwise the points are printed one per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadArmConfig(cmd)
		if err != nil {
			return err
		}
		step, _ := cmd.Flags().GetInt("step")
		outPath, _ := cmd.Flags().GetString("out")

		points := rrrArm.SampleWorkspaceStep(cfg, step)
		logger.Infof("Sampled %d reachable grid points (step %d)", len(points), step)

		if outPath != "" {
			return renderToFile(outPath, rrrArm.Scene{Config: cfg, Workspace: points})
		}

		out := cmd.OutOrStdout()
		for _, p := range points {
			fmt.Fprintf(out, "%g,%g\n", p.X, p.Y)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)

	workspaceCmd.Flags().Int("step", rrrArm.DefaultWorkspaceStep, "Grid step")
	workspaceCmd.Flags().StringP("out", "o", "", "Render to an .svg or .png file instead of printing points")
}
