// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/toeirei/trustkeep/buildvars"
	"github.com/toeirei/trustkeep/internal/config"
	"github.com/toeirei/trustkeep/internal/localstate"
	"github.com/toeirei/trustkeep/internal/logging"
	"github.com/toeirei/trustkeep/internal/settings"
)

// app carries the loaded configuration and the lazily opened local state
// for one command invocation.
type app struct {
	fs    afero.Fs
	cfg   config.Config
	state *localstate.LocalState
}

// State opens the local state root on first use.
func (a *app) State() (*localstate.LocalState, error) {
	if a.state != nil {
		return a.state, nil
	}
	root := a.cfg.Root
	if root == "" {
		var err error
		if root, err = localstate.DefaultRoot(a.cfg.AppName); err != nil {
			return nil, err
		}
	}
	a.state = localstate.Open(a.fs, root, settings.WithBackups(a.cfg.Backups))
	logging.Debugf("using local state root %s", a.state.Root())
	return a.state, nil
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return fang.Execute(context.Background(), NewRootCmd(),
		fang.WithVersion(buildvars.String(nil)))
}

// NewRootCmd creates and configures a new root cobra command. Each call
// returns an independent tree, which tests rely on.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	cmd := &cobra.Command{
		Use:   "trustkeep",
		Short: "Trustkeep keeps small trust lists and settings in a local state folder.",
		Long: `Trustkeep stores key/value settings in a single JSON document and keeps
managed copies of files registered under stable keys, all below one local
state root.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.Version = buildvars.String(nil)

	cmd.PersistentFlags().String("config", "", "config file (default is trustkeep.yaml in the config search path)")
	cmd.PersistentFlags().String("root", "", "local state root (default is the per-user LocalState folder)")
	cmd.PersistentFlags().String("log-level", "", `log level ("debug", "info", "warn", "error")`)
	cmd.PersistentFlags().Int("backups", 0, "number of compressed settings backups to keep (0 disables)")

	cmd.AddCommand(
		newSettingsCmd(a),
		newFilesCmd(a),
		newFsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}
	a.cfg, err = config.LoadConfig[config.Config](cmd, config.Defaults(), configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := logging.SetLevel(a.cfg.LogLevel); err != nil {
		logging.Warnf("ignoring log level %q: %v", a.cfg.LogLevel, err)
	}
	if a.cfg.Backups < 0 {
		return fmt.Errorf("backups must not be negative, got %d", a.cfg.Backups)
	}
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}
