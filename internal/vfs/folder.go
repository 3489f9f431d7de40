// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vfs is a restricted folder/file facade over an afero filesystem.
//
// Folder and File are stateless handles holding only a path; every call
// re-checks the filesystem and closes whatever it opened before returning.
// Errors are never hidden: they come back as *Error wrapping ErrNotFound,
// ErrAlreadyExists, ErrIO, ErrInvalidName or ErrUnsupportedPolicy.
package vfs

import (
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/toeirei/trustkeep/internal/logging"
)

func logger() *clog.Logger { return logging.WithPrefix("vfs") }

// Folder is a handle to a directory.
type Folder struct {
	fs   afero.Fs
	path string
}

// NewFolder returns a handle for path on fs. The directory need not exist.
func NewFolder(fs afero.Fs, path string) *Folder {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Folder{fs: fs, path: filepath.Clean(path)}
}

// LocalFolder returns a handle on the OS filesystem.
func LocalFolder(path string) *Folder {
	return NewFolder(afero.NewOsFs(), path)
}

func (f *Folder) Path() string { return f.path }

func (f *Folder) Name() string { return filepath.Base(f.path) }

// Fs returns the filesystem the handle operates on.
func (f *Folder) Fs() afero.Fs { return f.fs }

// Exists reports whether the folder currently exists as a directory.
func (f *Folder) Exists() bool {
	ok, err := afero.DirExists(f.fs, f.path)
	return err == nil && ok
}

func (f *Folder) child(op, name string) (string, error) {
	if !validName(name) {
		return "", newError(op, filepath.Join(f.path, name), ErrInvalidName)
	}
	return filepath.Join(f.path, name), nil
}

// CreateFolder creates the child directory name, creating missing parents.
// Only FailIfExists reports a collision; every other policy opens the
// existing directory.
func (f *Folder) CreateFolder(name string, policy CollisionPolicy) (*Folder, error) {
	path, err := f.child(OpCreateFolder, name)
	if err != nil {
		return nil, err
	}

	info, err := f.fs.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return nil, newError(OpCreateFolder, path, ErrAlreadyExists)
	case err == nil && policy == FailIfExists:
		return nil, newError(OpCreateFolder, path, ErrAlreadyExists)
	case err == nil:
		return &Folder{fs: f.fs, path: path}, nil
	case !os.IsNotExist(err):
		return nil, ioError(OpCreateFolder, path, err)
	}

	if err := f.fs.MkdirAll(path, 0o755); err != nil {
		return nil, ioError(OpCreateFolder, path, err)
	}
	logger().Debug("folder created", "path", path)
	return &Folder{fs: f.fs, path: path}, nil
}

// GetFolder returns the existing child directory name.
func (f *Folder) GetFolder(name string) (*Folder, error) {
	path, err := f.child(OpGetFolder, name)
	if err != nil {
		return nil, err
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		return nil, ioError(OpGetFolder, path, err)
	}
	if !info.IsDir() {
		return nil, newError(OpGetFolder, path, ErrNotFound)
	}
	return &Folder{fs: f.fs, path: path}, nil
}

// CreateFile creates the child file name, creating missing parent
// directories. See CollisionPolicy for what each policy does on collision.
func (f *Folder) CreateFile(name string, policy CollisionPolicy) (*File, error) {
	path, err := f.child(OpCreateFile, name)
	if err != nil {
		return nil, err
	}
	if err := f.fs.MkdirAll(f.path, 0o755); err != nil {
		return nil, ioError(OpCreateFile, f.path, err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	switch policy {
	case ReplaceExisting:
		flags |= os.O_TRUNC
	case OpenIfExists:
	case GenerateUniqueName:
		if exists, err := afero.Exists(f.fs, path); err != nil {
			return nil, ioError(OpCreateFile, path, err)
		} else if exists {
			return nil, newError(OpCreateFile, path, ErrUnsupportedPolicy)
		}
		flags |= os.O_EXCL
	default:
		flags |= os.O_EXCL
	}

	if isDir, _ := afero.IsDir(f.fs, path); isDir {
		return nil, newError(OpCreateFile, path, ErrAlreadyExists)
	}

	fh, err := f.fs.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, ioError(OpCreateFile, path, err)
	}
	if err := fh.Close(); err != nil {
		return nil, ioError(OpCreateFile, path, err)
	}
	logger().Debug("file created", "path", path, "policy", policy)
	return &File{fs: f.fs, path: path}, nil
}

// GetFile returns the existing child file name.
func (f *Folder) GetFile(name string) (*File, error) {
	path, err := f.child(OpGetFile, name)
	if err != nil {
		return nil, err
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		return nil, ioError(OpGetFile, path, err)
	}
	if info.IsDir() {
		return nil, newError(OpGetFile, path, ErrNotFound)
	}
	return &File{fs: f.fs, path: path}, nil
}

// FileAt returns a handle for an arbitrary absolute or relative file path on
// the folder's filesystem, failing with ErrNotFound when it does not exist.
func (f *Folder) FileAt(path string) (*File, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return NewFolder(f.fs, filepath.Dir(path)).GetFile(filepath.Base(path))
}
