// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package localstate wires the settings store, the root folder and the file
// registry for one local state root, and holds the process-wide instance.
package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/toeirei/trustkeep/internal/logging"
	"github.com/toeirei/trustkeep/internal/registry"
	"github.com/toeirei/trustkeep/internal/settings"
	"github.com/toeirei/trustkeep/internal/vfs"
)

// DefaultAppName names the per-user directory when nothing else is configured.
const DefaultAppName = "TrustKeep"

// ErrAlreadyInitialized is returned by SetRoot once the process instance exists.
var ErrAlreadyInitialized = errors.New("local state already initialized")

// LocalState groups everything rooted at one local state directory.
type LocalState struct {
	root     string
	doc      *settings.Document
	settings *settings.Store
	folder   *vfs.Folder
	files    *registry.Registry
}

// Open loads the settings document under root on fs and builds the facades.
// It never fails: a missing or corrupt settings file yields an empty store.
func Open(fs afero.Fs, root string, opts ...settings.Option) *LocalState {
	folder := vfs.NewFolder(fs, root)
	doc := settings.NewDocument(fs, settings.PathFor(folder.Path()), opts...)
	store := settings.NewStore(doc)
	return &LocalState{
		root:     folder.Path(),
		doc:      doc,
		settings: store,
		folder:   folder,
		files:    registry.New(store, folder),
	}
}

func (s *LocalState) Root() string { return s.root }

func (s *LocalState) Document() *settings.Document { return s.doc }

func (s *LocalState) Settings() *settings.Store { return s.settings }

func (s *LocalState) Folder() *vfs.Folder { return s.folder }

func (s *LocalState) Files() *registry.Registry { return s.files }

// DefaultRoot returns <local app data>/<appName>/LocalState. On Windows the
// local app data directory is %LOCALAPPDATA%; elsewhere the user config
// directory with a lower-cased app name.
func DefaultRoot(appName string) (string, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName, "LocalState"), nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	if runtime.GOOS != "windows" {
		appName = strings.ToLower(appName)
	}
	return filepath.Join(dir, appName, "LocalState"), nil
}

var (
	mu          sync.Mutex
	current     *LocalState
	currentRoot string
	currentOpts []settings.Option
)

// SetRoot chooses the root and document options used when Current first
// opens the process instance. It fails once Current has been called.
func SetRoot(root string, opts ...settings.Option) error {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return ErrAlreadyInitialized
	}
	currentRoot = root
	currentOpts = opts
	return nil
}

// Current returns the process-wide instance, opening it on the OS filesystem
// on first use at the root given to SetRoot or DefaultRoot otherwise.
func Current() *LocalState {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return current
	}
	root := currentRoot
	if root == "" {
		var err error
		root, err = DefaultRoot(DefaultAppName)
		if err != nil {
			logging.Warnf("falling back to temp dir for local state: %v", err)
			root = filepath.Join(os.TempDir(), DefaultAppName, "LocalState")
		}
	}
	current = Open(afero.NewOsFs(), root, currentOpts...)
	logging.Debugf("local state opened at %s", current.root)
	return current
}

// reset drops the process instance. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
	currentRoot = ""
	currentOpts = nil
}
