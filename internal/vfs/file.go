// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// File is a handle to a regular file.
type File struct {
	fs   afero.Fs
	path string
}

// NewFile returns a handle for path on fs. The file need not exist.
func NewFile(fs afero.Fs, path string) *File {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &File{fs: fs, path: filepath.Clean(path)}
}

func (f *File) Path() string { return f.path }

func (f *File) Name() string { return filepath.Base(f.path) }

// Folder returns the handle of the containing directory.
func (f *File) Folder() *Folder {
	return &Folder{fs: f.fs, path: filepath.Dir(f.path)}
}

// Exists reports whether the file is currently present.
func (f *File) Exists() bool {
	info, err := f.fs.Stat(f.path)
	return err == nil && !info.IsDir()
}

// ReadAll returns the file's content.
func (f *File) ReadAll() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, ioError(OpRead, f.path, err)
	}
	return data, nil
}

// Delete removes the file. A missing file yields ErrNotFound.
func (f *File) Delete() error {
	if err := f.fs.Remove(f.path); err != nil {
		return ioError(OpDelete, f.path, err)
	}
	logger().Debug("file deleted", "path", f.path)
	return nil
}

// Copy copies the file into dest as desiredName (the source name when
// empty), creating dest first. Copying a file onto itself is a no-op that
// returns the same file. See CollisionPolicy for collision handling.
func (f *File) Copy(dest *Folder, desiredName string, policy CollisionPolicy) (*File, error) {
	if desiredName == "" {
		desiredName = f.Name()
	}
	target, err := dest.child(OpCopy, desiredName)
	if err != nil {
		return nil, err
	}
	if sameFile(f.fs, f.path, target) {
		if !f.Exists() {
			return nil, newError(OpCopy, f.path, ErrNotFound)
		}
		return &File{fs: f.fs, path: f.path}, nil
	}

	src, err := f.fs.Open(f.path)
	if err != nil {
		return nil, ioError(OpCopy, f.path, err)
	}
	defer func() { _ = src.Close() }()
	if info, err := src.Stat(); err != nil {
		return nil, ioError(OpCopy, f.path, err)
	} else if info.IsDir() {
		return nil, newError(OpCopy, f.path, ErrNotFound)
	}

	if err := dest.fs.MkdirAll(dest.path, 0o755); err != nil {
		return nil, ioError(OpCopy, dest.path, err)
	}

	exists, err := afero.Exists(dest.fs, target)
	if err != nil {
		return nil, ioError(OpCopy, target, err)
	}
	if isDir, _ := afero.IsDir(dest.fs, target); isDir {
		return nil, newError(OpCopy, target, ErrAlreadyExists)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exists {
		switch policy {
		case ReplaceExisting:
		case OpenIfExists:
			return &File{fs: dest.fs, path: target}, nil
		case GenerateUniqueName:
			return nil, newError(OpCopy, target, ErrUnsupportedPolicy)
		default:
			return nil, newError(OpCopy, target, ErrAlreadyExists)
		}
	} else if policy == FailIfExists {
		flags |= os.O_EXCL
	}

	out, err := dest.fs.OpenFile(target, flags, 0o644)
	if err != nil {
		return nil, ioError(OpCopy, target, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return nil, ioError(OpCopy, target, err)
	}
	if err := out.Close(); err != nil {
		return nil, ioError(OpCopy, target, err)
	}
	logger().Debug("file copied", "from", f.path, "to", target, "policy", policy)
	return &File{fs: dest.fs, path: target}, nil
}
