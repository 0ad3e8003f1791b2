package main

import (
	"fmt"

	rrrArm "rrr_arm"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage arm config files",
}

var configInitCmd = &cobra.Command{
	Use:   "init FILE",
	Short: "Write the default (or --config) arm config to FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadArmConfig(cmd)
		if err != nil {
			return err
		}
		if err := rrrArm.SaveArmConfigToFile(args[0], cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
