// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func writeSource(t *testing.T, dir, name, content string) *File {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	f, err := LocalFolder(dir).GetFile(name)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	return f
}

func TestCopy_FailThenReplace(t *testing.T) {
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "x.txt", "new content")

	destDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(destDir, "x.txt"), []byte("old"), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}
	dest := LocalFolder(destDir)

	if _, err := src.Copy(dest, "x.txt", FailIfExists); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if data, _ := os.ReadFile(filepath.Join(destDir, "x.txt")); string(data) != "old" {
		t.Fatalf("failed copy modified destination: %q", data)
	}

	copied, err := src.Copy(dest, "x.txt", ReplaceExisting)
	if err != nil {
		t.Fatalf("Copy ReplaceExisting: %v", err)
	}
	data, err := os.ReadFile(copied.Path())
	if err != nil || string(data) != "new content" {
		t.Fatalf("destination content = %q, err=%v", data, err)
	}
}

func TestCopy_CreatesDestinationAndKeepsName(t *testing.T) {
	src := writeSource(t, t.TempDir(), "keys.pub", "ssh-ed25519 AAAA")
	dest := LocalFolder(filepath.Join(t.TempDir(), "a", "b"))

	copied, err := src.Copy(dest, "", FailIfExists)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if copied.Name() != "keys.pub" {
		t.Fatalf("expected source name, got %s", copied.Name())
	}
	if !dest.Exists() {
		t.Fatalf("destination folder was not created")
	}
}

func TestCopy_SameFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "same.txt", "keep me")

	for _, p := range []CollisionPolicy{FailIfExists, ReplaceExisting} {
		got, err := src.Copy(LocalFolder(dir+string(filepath.Separator)+"."), "same.txt", p)
		if err != nil {
			t.Fatalf("self copy with %s: %v", p, err)
		}
		if got.Path() != src.Path() {
			t.Fatalf("self copy returned %s, want %s", got.Path(), src.Path())
		}
	}
	if data, _ := os.ReadFile(src.Path()); string(data) != "keep me" {
		t.Fatalf("self copy changed content: %q", data)
	}
}

func TestCopy_ThroughSymlinkIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "linked.txt", "keep me")
	link := filepath.Join(t.TempDir(), "alias")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := src.Copy(LocalFolder(link), "linked.txt", ReplaceExisting)
	if err != nil {
		t.Fatalf("copy through symlink: %v", err)
	}
	if got.Path() != src.Path() {
		t.Fatalf("copy returned %s, want %s", got.Path(), src.Path())
	}
	if data, _ := os.ReadFile(src.Path()); string(data) != "keep me" {
		t.Fatalf("copy through symlink changed content: %q", data)
	}
}

func TestCopy_OpenAndUniquePolicies(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/src/a.txt", []byte("src"), 0o644)
	_ = afero.WriteFile(fs, "/dst/a.txt", []byte("dst"), 0o644)

	src, err := NewFolder(fs, "/src").GetFile("a.txt")
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	dest := NewFolder(fs, "/dst")

	got, err := src.Copy(dest, "a.txt", OpenIfExists)
	if err != nil {
		t.Fatalf("OpenIfExists: %v", err)
	}
	if data, _ := got.ReadAll(); string(data) != "dst" {
		t.Fatalf("OpenIfExists must not copy, got %q", data)
	}

	if _, err := src.Copy(dest, "a.txt", GenerateUniqueName); !errors.Is(err, ErrUnsupportedPolicy) {
		t.Fatalf("expected ErrUnsupportedPolicy, got %v", err)
	}
	if _, err := src.Copy(dest, "b.txt", GenerateUniqueName); err != nil {
		t.Fatalf("GenerateUniqueName without collision: %v", err)
	}
}

func TestCopy_MissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := &File{fs: fs, path: "/gone.txt"}
	if _, err := f.Copy(NewFolder(fs, "/dst"), "", ReplaceExisting); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	f, err := NewFolder(fs, "/root").CreateFile("tmp.bin", FailIfExists)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := f.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.Exists() {
		t.Fatalf("file still exists")
	}
	if err := f.Delete(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestSamePath(t *testing.T) {
	if !SamePath("/a/b/../c.txt", "/a/c.txt") {
		t.Fatalf("cleaned paths should match")
	}
	// "é" precomposed vs decomposed
	if !SamePath("/x/caf\u00e9", "/x/cafe\u0301") {
		t.Fatalf("NFC-equivalent paths should match")
	}
	if caseInsensitive() != SamePath("/x/Readme", "/x/README") {
		t.Fatalf("case folding must follow the platform")
	}
}
