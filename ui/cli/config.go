// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustkeep/buildvars"
	"github.com/toeirei/trustkeep/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the configuration file",
	}

	var pathSystem bool
	path := &cobra.Command{
		Use:   "path",
		Short: "Print where the configuration file is looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.GetConfigPath(pathSystem)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	path.Flags().BoolVar(&pathSystem, "system", false, "show the system-wide path")

	var writeSystem bool
	write := &cobra.Command{
		Use:   "write",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.WriteConfigFile(&a.cfg, writeSystem)
			if err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	write.Flags().BoolVar(&writeSystem, "system", false, "write the system-wide file")

	cmd.AddCommand(path, write)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildvars.String(nil))
		},
	}
}
