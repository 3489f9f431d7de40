// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/toeirei/trustkeep/internal/jsontree"
	"github.com/toeirei/trustkeep/internal/logging"
)

var (
	// ErrCorruptStore marks a settings file that exists but does not hold a JSON object.
	ErrCorruptStore = errors.New("corrupt settings store")
)

const (
	// DirName is the directory under the local state root holding the document.
	DirName = "Settings"
	// FileName is the document's file name.
	FileName = "settings.dat"
)

// PathFor returns the document path under a local state root.
func PathFor(root string) string {
	return filepath.Join(root, DirName, FileName)
}

func logger() *clog.Logger { return logging.WithPrefix("settings") }

// Option configures a Document.
type Option func(*Document)

// WithBackups keeps the n most recent previous versions of the file as
// compressed backups. Zero disables backups.
func WithBackups(n int) Option {
	return func(d *Document) {
		if n < 0 {
			n = 0
		}
		d.backups = n
	}
}

// Document is an ordered mapping from key to JSON tree mirrored to one file.
// All methods are safe for concurrent use.
type Document struct {
	fs      afero.Fs
	path    string
	backups int

	mu          sync.Mutex
	keys        []string
	entries     map[string]jsontree.Node
	lastSaveErr error
	backupSeq   uint64
}

// NewDocument creates a document for path and loads it.
func NewDocument(fs afero.Fs, path string, opts ...Option) *Document {
	d := &Document{
		fs:      fs,
		path:    filepath.Clean(path),
		entries: make(map[string]jsontree.Node),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Load()
	return d
}

// Path returns the backing file path.
func (d *Document) Path() string { return d.path }

// Load replaces the in-memory entries with the file's content. A missing,
// unreadable or corrupt file leaves the document empty.
func (d *Document) Load() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked()
}

func (d *Document) loadLocked() {
	d.resetLocked()

	root, err := readDocument(d.fs, d.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger().Debug("no settings file, starting empty", "path", d.path)
		return
	case err != nil:
		logger().Warn("settings file unusable, starting empty", "path", d.path, "err", err)
		return
	}
	d.replaceLocked(root)
	logger().Debug("settings loaded", "path", d.path, "keys", len(d.keys))
}

func readDocument(fs afero.Fs, path string) (jsontree.Node, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return jsontree.Node{}, err
	}
	return decodeDocument(data)
}

func decodeDocument(data []byte) (jsontree.Node, error) {
	root, err := jsontree.Parse(data)
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if root.Kind() != jsontree.Object {
		return jsontree.Node{}, fmt.Errorf("%w: top level is %s, not object", ErrCorruptStore, root.Kind())
	}
	return root, nil
}

func (d *Document) resetLocked() {
	d.keys = nil
	d.entries = make(map[string]jsontree.Node)
}

// replaceLocked installs the members of an object node. Parse already
// produced fresh storage, Members clones once more so nothing is shared.
func (d *Document) replaceLocked(root jsontree.Node) {
	d.resetLocked()
	for _, m := range root.Members() {
		d.keys = append(d.keys, m.Key)
		d.entries[m.Key] = m.Value
	}
}

// Save writes the entries to disk. Failures are logged and kept for LastSaveError.
func (d *Document) Save() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.saveLocked()
}

// LastSaveError returns the outcome of the most recent save, nil when it succeeded.
func (d *Document) LastSaveError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSaveErr
}

func (d *Document) saveLocked() {
	d.lastSaveErr = d.writeLocked()
	if d.lastSaveErr != nil {
		logger().Warn("settings not saved", "path", d.path, "err", d.lastSaveErr)
	}
}

func (d *Document) writeLocked() error {
	data, err := jsontree.Indent(d.objectLocked())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(d.path)
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory %s: %w", dir, err)
	}

	if d.backups > 0 {
		if err := d.backupLocked(); err != nil {
			logger().Warn("settings backup failed", "path", d.path, "err", err)
		}
	}
	return writeAtomic(d.fs, d.path, data)
}

func (d *Document) objectLocked() jsontree.Node {
	obj := jsontree.ObjectNode()
	for _, k := range d.keys {
		obj.Set(k, d.entries[k])
	}
	return obj
}

// writeAtomic writes data to a 0600 temp file in the target directory and renames it over path.
func writeAtomic(fs afero.Fs, path string, data []byte) (err error) {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Len returns the number of keys.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}

// Get returns a copy of the value stored under key.
func (d *Document) Get(key string) (jsontree.Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.entries[key]
	if !ok {
		return jsontree.Node{}, false
	}
	return n.Clone(), true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.entries[key]
	return ok
}

// Set stores a copy of value under key and saves. An existing key keeps its position.
func (d *Document) Set(key string, value jsontree.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = value.Clone()
	d.saveLocked()
}

// Delete removes key and saves. It reports whether the key existed; nothing
// is written when it did not.
func (d *Document) Delete(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[key]; !ok {
		return false
	}
	delete(d.entries, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	d.saveLocked()
	return true
}

// Clear removes every key and saves once.
func (d *Document) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.saveLocked()
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Snapshot returns copies of all entries in document order.
func (d *Document) Snapshot() []jsontree.Member {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]jsontree.Member, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, jsontree.Member{Key: k, Value: d.entries[k].Clone()})
	}
	return out
}
