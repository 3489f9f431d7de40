// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage registered file copies",
		Long: `The 'files' command group copies files into the local state root and
remembers the managed copy under a key.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add KEY SOURCE",
			Short: "Copy SOURCE into the root and register it under KEY",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State()
				if err != nil {
					return err
				}
				source, err := filepath.Abs(args[1])
				if err != nil {
					return err
				}
				managed := st.Files().WriteFile(args[0], source)
				if managed == "" {
					return fmt.Errorf("could not register %s under %q", source, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), managed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path KEY",
			Short: "Print the managed copy registered under KEY",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State()
				if err != nil {
					return err
				}
				path, ok := st.Files().ReadFile(args[0])
				if !ok {
					return fmt.Errorf("no file registered under %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm KEY",
			Aliases: []string{"remove", "delete"},
			Short:   "Delete the managed copy and its registration",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State()
				if err != nil {
					return err
				}
				return st.Files().DeleteFile(args[0])
			},
		},
		&cobra.Command{
			Use:   "has KEY",
			Short: "Print whether a readable file is registered under KEY",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), st.Files().HasFile(args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List registered keys and their managed copies",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.State()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, key := range st.Files().Keys() {
					path, ok := st.Files().ReadFile(key)
					if !ok {
						path = "(missing)"
					}
					fmt.Fprintf(tw, "%s\t%s\n", key, path)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}
