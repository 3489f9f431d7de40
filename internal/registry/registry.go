// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package registry maps logical keys to managed copies of external files.
//
// A registered file is copied into the local state root under its sanitized
// key and the copy's absolute path is recorded in the settings store under
// KeyPrefix+key. The file on disk is the authority: a mapping whose file has
// disappeared reads back as absent.
//
// WriteFile and ReadFile report failure through empty results; DeleteFile
// returns errors so callers learn when cleanup did not complete.
package registry

import (
	"errors"
	"fmt"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/toeirei/trustkeep/internal/logging"
	"github.com/toeirei/trustkeep/internal/settings"
	"github.com/toeirei/trustkeep/internal/vfs"
)

// KeyPrefix namespaces registry entries inside the settings store.
const KeyPrefix = "filereg:"

func logger() *clog.Logger { return logging.WithPrefix("registry") }

// Registry stores managed file copies in root and their mapping in store.
type Registry struct {
	store *settings.Store
	root  *vfs.Folder
}

// New returns a registry over store whose copies live in root.
func New(store *settings.Store, root *vfs.Folder) *Registry {
	return &Registry{store: store, root: root}
}

func settingsKey(key string) string { return KeyPrefix + key }

// WriteFile copies sourcePath into the root as SanitizeKey(key), replacing
// an earlier copy, records the mapping and returns the managed path.
// It returns "" when anything fails.
func (r *Registry) WriteFile(key, sourcePath string) string {
	managed, err := r.writeFile(key, sourcePath)
	if err != nil {
		logger().Warn("file registration failed", "key", key, "source", sourcePath, "err", err)
		return ""
	}
	logger().Debug("file registered", "key", key, "path", managed)
	return managed
}

func (r *Registry) writeFile(key, sourcePath string) (string, error) {
	src, err := r.root.FileAt(sourcePath)
	if err != nil {
		return "", err
	}
	name := SanitizeKey(key)
	if name == "" {
		return "", fmt.Errorf("%w: empty key", vfs.ErrInvalidName)
	}
	copied, err := src.Copy(r.root, name, vfs.ReplaceExisting)
	if err != nil {
		return "", err
	}
	if err := r.store.Set(settingsKey(key), copied.Path()); err != nil {
		return "", fmt.Errorf("record mapping: %w", err)
	}
	return copied.Path(), nil
}

// ReadFile returns the managed path for key when a mapping exists and its
// file is still present.
func (r *Registry) ReadFile(key string) (string, bool) {
	f, ok := r.managedFile(key)
	if !ok || !f.Exists() {
		return "", false
	}
	return f.Path(), true
}

// HasFile reports whether ReadFile would find key.
func (r *Registry) HasFile(key string) bool {
	_, ok := r.ReadFile(key)
	return ok
}

// DeleteFile removes the managed copy, when present, and then the mapping.
// An unregistered key is a no-op. If the copy cannot be removed the error is
// returned and the mapping is kept so the call can be retried.
func (r *Registry) DeleteFile(key string) error {
	f, ok := r.managedFile(key)
	if ok {
		if err := f.Delete(); err != nil && !errors.Is(err, vfs.ErrNotFound) {
			return fmt.Errorf("delete registered file %q: %w", key, err)
		}
	}
	if r.store.Remove(settingsKey(key)) {
		logger().Debug("file unregistered", "key", key)
	}
	return nil
}

// Keys lists the logical keys that have a mapping, whether or not the file still exists.
func (r *Registry) Keys() []string {
	var keys []string
	for _, k := range r.store.Keys() {
		if logical, ok := strings.CutPrefix(k, KeyPrefix); ok {
			keys = append(keys, logical)
		}
	}
	return keys
}

// managedFile returns a handle for the recorded path. Anything other than a
// non-empty string is treated as no mapping.
func (r *Registry) managedFile(key string) (*vfs.File, bool) {
	path, ok := r.store.GetString(settingsKey(key))
	if !ok || path == "" {
		return nil, false
	}
	return vfs.NewFile(r.root.Fs(), path), true
}
