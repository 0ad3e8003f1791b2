package main

import (
	"fmt"

	rrrArm "rrr_arm"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve X,Y",
	Short: "Solve the joint angles for one target",
	Example: `  rrr solve "130, 0"
  rrr solve 80,60 --elbow down`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadArmConfig(cmd)
		if err != nil {
			return err
		}
		target, err := rrrArm.ParsePoint(args[0])
		if err != nil {
			return err
		}

		angles, err := rrrArm.Solve(target, cfg)
		switch {
		case errors.Is(err, rrrArm.ErrLimitExceeded):
			return errors.Wrap(err, "limit hit")
		case err != nil:
			return errors.Wrap(err, "out of workspace")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "target: %s  elbow: %s\n", rrrArm.FormatPoint(target), cfg.Elbow)
		for i, a := range angles {
			fmt.Fprintf(out, "J%d: %8.3f°\n", i+1, a)
		}
		tip := rrrArm.EndEffector(angles, cfg.LinkLengths)
		fmt.Fprintf(out, "end effector: (%.3f, %.3f)\n", tip.X, tip.Y)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
}
