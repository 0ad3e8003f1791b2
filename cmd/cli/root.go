package main

import (
	rrrArm "rrr_arm"

	"github.com/spf13/cobra"
	"go.viam.com/rdk/logging"
)

var rootCmd = &cobra.Command{
	Use:           "rrr",
	Short:         "Inverse kinematics for a 3-link planar arm",
	Long:          `rrr solves joint angles for a planar RRR arm, samples its workspace and traces straight-line paths between two points.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Arm config file (.json, .yaml or .yml); defaults are used when empty")
	rootCmd.PersistentFlags().String("elbow", "", "Elbow configuration: up or down (overrides the config file)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadArmConfig resolves the arm config from the persistent flags.
func loadArmConfig(cmd *cobra.Command) (rrrArm.ArmConfig, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.SetLevel(logging.DEBUG)
	}

	cfg := rrrArm.DefaultArmConfig
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := rrrArm.LoadArmConfigFromFile(path, logger)
		if err != nil {
			return rrrArm.ArmConfig{}, err
		}
		cfg = loaded
	}

	if elbow, _ := cmd.Flags().GetString("elbow"); elbow != "" {
		e, err := rrrArm.ParseElbowSign(elbow)
		if err != nil {
			return rrrArm.ArmConfig{}, err
		}
		cfg.Elbow = e
	}
	return cfg, nil
}
