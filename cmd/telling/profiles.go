package main

import (
	"fmt"

	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// profilesCmd groups named spin profile management
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage named spin profiles",
}

var profilesSaveCmd = &cobra.Command{
	Use:   "save NAME FILE",
	Short: "Validate a spin profile file and store it under NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := style.NewRegistry()
		fsys, name, err := hostPath(args[1])
		if err != nil {
			return err
		}
		s, err := spin.LoadProfile(fsys, name, reg)
		if err != nil {
			return err
		}
		profiles, err := openProfiles(profilesDir, reg)
		if err != nil {
			return err
		}
		if err := profiles.Save(args[0], s); err != nil {
			return err
		}
		logger.Info("saved spin profile", zap.String("name", args[0]), zap.String("dir", profilesDir))
		return nil
	},
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored spin profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := openProfiles(profilesDir, style.NewRegistry())
		if err != nil {
			return err
		}
		names, err := profiles.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
