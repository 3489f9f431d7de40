// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/toeirei/trustkeep/internal/jsontree"
	"github.com/toeirei/trustkeep/internal/settings"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change stored settings",
		Long: `The 'settings' command group works on the JSON settings document below the
local state root. Values are JSON; plain words are stored as strings.`,
	}
	cmd.AddCommand(
		newSettingsGetCmd(a),
		newSettingsSetCmd(a),
		newSettingsRmCmd(a),
		newSettingsLsCmd(a),
		newSettingsClearCmd(a),
		newSettingsRestoreCmd(a),
	)
	return cmd
}

func newSettingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the JSON value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			n, ok := st.Document().Get(args[0])
			if !ok {
				return fmt.Errorf("setting %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.String())
			return nil
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var asString bool
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE under KEY",
		Long: `Stores VALUE under KEY. VALUE is parsed as JSON; text that is not valid
JSON, or any text with --string, is stored as a string.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			st.Settings().SetNode(args[0], parseValue(args[1], asString))
			if err := st.Document().LastSaveError(); err != nil {
				return fmt.Errorf("setting %q kept in memory but not saved: %w", args[0], err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asString, "string", false, "store VALUE as a string without JSON parsing")
	return cmd
}

func parseValue(raw string, asString bool) jsontree.Node {
	if asString {
		return jsontree.StringNode(raw)
	}
	n, err := jsontree.Parse([]byte(raw))
	if err != nil {
		return jsontree.StringNode(raw)
	}
	return n
}

func newSettingsRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm KEY",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove KEY",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			if !st.Settings().Remove(args[0]) {
				return fmt.Errorf("setting %q not found", args[0])
			}
			return st.Document().LastSaveError()
		},
	}
}

func newSettingsLsCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all settings in stored order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			return writeSettings(cmd.OutOrStdout(), st.Document().Snapshot(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", `output format ("text", "json", "yaml")`)
	return cmd
}

func writeSettings(w io.Writer, members []jsontree.Member, format string) error {
	switch format {
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, m := range members {
			fmt.Fprintf(tw, "%s\t%s\n", m.Key, m.Value.String())
		}
		return tw.Flush()
	case "json":
		obj := jsontree.ObjectNode()
		for _, m := range members {
			obj.Set(m.Key, m.Value)
		}
		data, err := jsontree.Indent(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range members {
			var value yaml.Node
			if err := value.Encode(jsontree.Decode(m.Value)); err != nil {
				return fmt.Errorf("encoding %q: %w", m.Key, err)
			}
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}, &value)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func newSettingsClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every setting, including registry mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Remove all %d settings from %s? [y/N] ",
					st.Settings().Len(), st.Document().Path()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			st.Settings().Clear()
			return st.Document().LastSaveError()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

var errNotInteractive = errors.New("confirmation required: rerun with --yes")

// confirm asks a yes/no question on the command's input. A non-terminal
// os.Stdin is never read.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNotInteractive
	}
	fmt.Fprint(cmd.OutOrStdout(), question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newSettingsRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Replace the settings with the newest readable backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.State()
			if err != nil {
				return err
			}
			if err := st.Document().RestoreLatestBackup(); err != nil {
				if errors.Is(err, settings.ErrNoBackup) {
					return fmt.Errorf("%w (backups are kept only when --backups is above 0)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d settings.\n", st.Settings().Len())
			return st.Document().LastSaveError()
		},
	}
}
