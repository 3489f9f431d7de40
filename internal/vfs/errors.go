// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound indicates a requested file or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a collision under FailIfExists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrIO wraps every other filesystem failure.
	ErrIO = errors.New("i/o failure")

	// ErrInvalidName indicates a name that is not a single path element.
	ErrInvalidName = errors.New("invalid name")

	// ErrUnsupportedPolicy indicates a collision under a policy the operation does not implement.
	ErrUnsupportedPolicy = errors.New("collision policy not supported")
)

// Error records a failed facade operation and the path it touched.
type Error struct {
	Op   string // operation that failed, see the Op constants
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Operation names used in Error.Op.
const (
	OpCreateFolder = "create folder"
	OpGetFolder    = "get folder"
	OpCreateFile   = "create file"
	OpGetFile      = "get file"
	OpCopy         = "copy"
	OpDelete       = "delete"
	OpRead         = "read"
)

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// ioError classifies an OS error: not-exist and exist map to the facade
// sentinels, anything else is joined with ErrIO so the cause stays visible.
func ioError(op, path string, err error) *Error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return newError(op, path, fmt.Errorf("%w: %w", ErrNotFound, err))
	case errors.Is(err, os.ErrExist):
		return newError(op, path, fmt.Errorf("%w: %w", ErrAlreadyExists, err))
	default:
		return newError(op, path, fmt.Errorf("%w: %w", ErrIO, err))
	}
}
