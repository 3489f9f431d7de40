// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/toeirei/trustkeep/internal/testutil"
	"gopkg.in/yaml.v3"
)

// setupEnv isolates config discovery and returns a fresh state root.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	for _, k := range []string{"TRUSTKEEP_ROOT", "TRUSTKEEP_BACKUPS", "TRUSTKEEP_LOG_LEVEL", "TRUSTKEEP_APP_NAME"} {
		t.Setenv(k, "")
	}
	t.Chdir(home)
	return filepath.Join(t.TempDir(), "LocalState")
}

// executeCommand runs a fresh root command against root and captures its
// output. stdin may be nil.
func executeCommand(t *testing.T, stdin io.Reader, root string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(afero.NewOsFs())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, root string, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, nil, root, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestSettings_SetGetList(t *testing.T) {
	root := setupEnv(t)

	mustRun(t, root, "settings", "set", "lang", "en")
	mustRun(t, root, "settings", "set", "retries", "3")
	mustRun(t, root, "settings", "set", "hosts", `["a","b"]`)
	mustRun(t, root, "settings", "set", "pin", "007", "--string")

	if got := mustRun(t, root, "settings", "get", "lang"); got != "\"en\"\n" {
		t.Fatalf("get lang = %q", got)
	}
	if got := mustRun(t, root, "settings", "get", "retries"); got != "3\n" {
		t.Fatalf("get retries = %q", got)
	}
	if got := mustRun(t, root, "settings", "get", "pin"); got != "\"007\"\n" {
		t.Fatalf("get pin = %q", got)
	}

	text := mustRun(t, root, "settings", "ls")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "lang") || !strings.HasPrefix(lines[3], "pin") {
		t.Fatalf("unexpected text listing:\n%s", text)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(mustRun(t, root, "settings", "ls", "-o", "yaml")), &decoded); err != nil {
		t.Fatalf("yaml output did not parse: %v", err)
	}
	if decoded["retries"] != 3 || decoded["pin"] != "007" {
		t.Fatalf("unexpected yaml content: %v", decoded)
	}

	jsonOut := mustRun(t, root, "settings", "ls", "-o", "json")
	if !strings.Contains(jsonOut, `"hosts"`) || !strings.Contains(jsonOut, `"007"`) {
		t.Fatalf("json listing missing hosts:\n%s", jsonOut)
	}

	if _, err := executeCommand(t, nil, root, "settings", "ls", "-o", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestSettings_GetAndRemoveMissing(t *testing.T) {
	root := setupEnv(t)

	if _, err := executeCommand(t, nil, root, "settings", "get", "nope"); err == nil {
		t.Fatalf("expected error for missing key")
	}
	mustRun(t, root, "settings", "set", "gone", "null")
	if got := mustRun(t, root, "settings", "get", "gone"); got != "null\n" {
		t.Fatalf("get null = %q", got)
	}
	mustRun(t, root, "settings", "rm", "gone")
	if _, err := executeCommand(t, nil, root, "settings", "rm", "gone"); err == nil {
		t.Fatalf("expected error removing a missing key")
	}
}

func TestSettings_ClearConfirmation(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "settings", "set", "a", "1")

	out, err := executeCommand(t, testutil.BytesFromString("n\n"), root, "settings", "clear")
	if err != nil || !strings.Contains(out, "Aborted.") {
		t.Fatalf("expected abort, got %q %v", out, err)
	}
	mustRun(t, root, "settings", "get", "a")

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	w.Close()
	if _, err := executeCommand(t, r, root, "settings", "clear"); !errors.Is(err, errNotInteractive) {
		t.Fatalf("expected errNotInteractive, got %v", err)
	}

	if _, err := executeCommand(t, testutil.BytesFromString("y\n"), root, "settings", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := mustRun(t, root, "settings", "ls"); got != "" {
		t.Fatalf("expected empty listing, got %q", got)
	}

	mustRun(t, root, "settings", "set", "b", "2")
	mustRun(t, root, "settings", "clear", "--yes")
	if _, err := executeCommand(t, nil, root, "settings", "get", "b"); err == nil {
		t.Fatalf("expected b to be cleared")
	}
}

func TestSettings_RestoreAfterCorruption(t *testing.T) {
	root := setupEnv(t)

	if _, err := executeCommand(t, nil, root, "settings", "restore"); err == nil {
		t.Fatalf("expected error without backups")
	}

	mustRun(t, root, "--backups", "2", "settings", "set", "a", "1")
	mustRun(t, root, "--backups", "2", "settings", "set", "b", "2")

	path := filepath.Join(root, "Settings", "settings.dat")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := executeCommand(t, nil, root, "settings", "get", "a"); err == nil {
		t.Fatalf("corrupt store should read as empty")
	}

	out := mustRun(t, root, "--backups", "2", "settings", "restore")
	if !strings.Contains(out, "Restored 1 settings.") {
		t.Fatalf("unexpected restore output %q", out)
	}
	if got := mustRun(t, root, "settings", "get", "a"); got != "1\n" {
		t.Fatalf("get a = %q", got)
	}
}

func TestFiles_Lifecycle(t *testing.T) {
	root := setupEnv(t)
	src := testutil.WriteTempFile(t, "allow.txt", "host-a\n")

	managed := strings.TrimSpace(mustRun(t, root, "files", "add", "allow", src))
	if filepath.Dir(managed) != root {
		t.Fatalf("managed copy %s not below root %s", managed, root)
	}
	testutil.AssertFileContent(t, managed, "host-a\n")

	if got := strings.TrimSpace(mustRun(t, root, "files", "path", "allow")); got != managed {
		t.Fatalf("path = %q, want %q", got, managed)
	}
	if got := mustRun(t, root, "files", "has", "allow"); got != "true\n" {
		t.Fatalf("has = %q", got)
	}
	if got := mustRun(t, root, "files", "ls"); !strings.Contains(got, "allow") || !strings.Contains(got, managed) {
		t.Fatalf("ls = %q", got)
	}

	mustRun(t, root, "files", "rm", "allow")
	if got := mustRun(t, root, "files", "has", "allow"); got != "false\n" {
		t.Fatalf("has after rm = %q", got)
	}
	if _, err := os.Stat(managed); !os.IsNotExist(err) {
		t.Fatalf("managed copy still present: %v", err)
	}
	if _, err := executeCommand(t, nil, root, "files", "path", "allow"); err == nil {
		t.Fatalf("expected error for unregistered key")
	}
	if _, err := executeCommand(t, nil, root, "files", "add", "x", filepath.Join(root, "missing")); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestFs_Commands(t *testing.T) {
	root := setupEnv(t)

	dir := strings.TrimSpace(mustRun(t, root, "fs", "mkdir", "lists"))
	if dir != filepath.Join(root, "lists") {
		t.Fatalf("mkdir = %q", dir)
	}
	if _, err := executeCommand(t, nil, root, "fs", "mkdir", "lists", "--policy", "fail"); err == nil {
		t.Fatalf("expected collision error")
	}

	mustRun(t, root, "fs", "touch", "note.txt")
	if _, err := executeCommand(t, nil, root, "fs", "touch", "note.txt"); err == nil {
		t.Fatalf("expected collision error for touch")
	}
	if _, err := executeCommand(t, nil, root, "fs", "touch", "x", "--policy", "bogus"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}

	src := testutil.WriteTempFile(t, "deny.txt", "host-b")
	copied := strings.TrimSpace(mustRun(t, root, "fs", "cp", src, "--dest", "lists", "--name", "deny.list"))
	if copied != filepath.Join(root, "lists", "deny.list") {
		t.Fatalf("cp = %q", copied)
	}
	testutil.AssertFileContent(t, copied, "host-b")
	if _, err := executeCommand(t, nil, root, "fs", "cp", src, "--dest", "lists", "--name", "deny.list"); err == nil {
		t.Fatalf("expected collision error for cp")
	}
	mustRun(t, root, "fs", "cp", src, "--dest", "lists", "--name", "deny.list", "--policy", "replace")
}

func TestConfigAndVersion(t *testing.T) {
	root := setupEnv(t)

	path := strings.TrimSpace(mustRun(t, root, "config", "path"))
	written := strings.TrimSpace(mustRun(t, root, "--backups", "4", "config", "write"))
	if written != path {
		t.Fatalf("config write went to %q, want %q", written, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "backups: 4") || !strings.Contains(string(data), "root: "+root) {
		t.Fatalf("unexpected config file:\n%s", data)
	}

	if out := mustRun(t, root, "version"); strings.TrimSpace(out) == "" {
		t.Fatalf("empty version output")
	}
}

func TestGetConfigPathFromCli(t *testing.T) {
	root := setupEnv(t)

	if _, err := executeCommand(t, nil, root, "--config", filepath.Join(root, "nope.yaml"), "settings", "ls"); err == nil {
		t.Fatalf("expected error for missing --config file")
	}

	cfgFile := filepath.Join(t.TempDir(), "custom.yaml")
	other := filepath.Join(t.TempDir(), "Other")
	if err := os.WriteFile(cfgFile, []byte("root: "+other+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd(afero.NewOsFs())
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--config", cfgFile, "settings", "set", "k", "v"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(other, "Settings", "settings.dat")); err != nil {
		t.Fatalf("config root not used: %v", err)
	}
}
