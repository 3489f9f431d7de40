// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustkeep/internal/vfs"
)

func newFsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fs",
		Short: "Create folders and files below the root with a collision policy",
		Long: `The 'fs' command group drives the folder and file operations directly.
--policy is one of "fail", "replace", "open" or "unique".`,
	}

	var mkdirPolicy string
	mkdir := &cobra.Command{
		Use:   "mkdir NAME",
		Short: "Create the folder NAME below the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := vfs.ParseCollisionPolicy(mkdirPolicy)
			if err != nil {
				return err
			}
			st, err := a.State()
			if err != nil {
				return err
			}
			folder, err := st.Folder().CreateFolder(args[0], policy)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), folder.Path())
			return nil
		},
	}
	mkdir.Flags().StringVar(&mkdirPolicy, "policy", "open", "collision policy")

	var touchPolicy string
	touch := &cobra.Command{
		Use:   "touch NAME",
		Short: "Create the file NAME below the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := vfs.ParseCollisionPolicy(touchPolicy)
			if err != nil {
				return err
			}
			st, err := a.State()
			if err != nil {
				return err
			}
			file, err := st.Folder().CreateFile(args[0], policy)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), file.Path())
			return nil
		},
	}
	touch.Flags().StringVar(&touchPolicy, "policy", "fail", "collision policy")

	var dest, name, cpPolicy string
	cp := &cobra.Command{
		Use:   "cp SOURCE",
		Short: "Copy SOURCE into a folder (the root unless --dest is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := vfs.ParseCollisionPolicy(cpPolicy)
			if err != nil {
				return err
			}
			st, err := a.State()
			if err != nil {
				return err
			}
			target := st.Folder()
			if dir := dest; dir != "" {
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(target.Path(), dir)
				}
				target = vfs.NewFolder(a.fs, dir)
			}
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			copied, err := vfs.NewFile(a.fs, source).Copy(target, name, policy)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), copied.Path())
			return nil
		},
	}
	cp.Flags().StringVar(&dest, "dest", "", "destination folder; relative paths are below the root")
	cp.Flags().StringVar(&name, "name", "", "destination file name (default is the source name)")
	cp.Flags().StringVar(&cpPolicy, "policy", "fail", "collision policy")

	cmd.AddCommand(mkdir, touch, cp)
	return cmd
}
