// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds small helpers shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteTempFile writes content to name inside a fresh temp directory and returns its path.
func WriteTempFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// AssertFileContent fails the test unless path holds exactly want.
func AssertFileContent(t testing.TB, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.Equal(got, []byte(want)) {
		t.Fatalf("content of %s = %q, want %q", path, got, want)
	}
}

// BytesFromString returns a buffer containing the provided string.
func BytesFromString(s string) *bytes.Buffer { return bytes.NewBufferString(s) }
