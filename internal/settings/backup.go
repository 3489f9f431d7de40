// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// ErrNoBackup is returned by RestoreLatestBackup when no usable backup exists.
var ErrNoBackup = errors.New("no usable settings backup")

const (
	backupDirName = "backups"
	backupPrefix  = "settings-"
	backupSuffix  = ".dat.zst"
	// fixed width so names sort chronologically
	backupStamp = "20060102T150405.000000000"
)

func (d *Document) backupDir() string {
	return filepath.Join(filepath.Dir(d.path), backupDirName)
}

// backupLocked compresses the current on-disk file into the backup
// directory and trims old backups. Nothing happens when there is no file yet.
func (d *Document) backupLocked() error {
	current, err := afero.ReadFile(d.fs, d.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(current) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read current settings: %w", err)
	}

	dir := d.backupDir()
	if err := d.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory %s: %w", dir, err)
	}

	d.backupSeq++
	name := fmt.Sprintf("%s%s-%06d%s", backupPrefix, time.Now().UTC().Format(backupStamp), d.backupSeq%1000000, backupSuffix)
	path := filepath.Join(dir, name)
	if err := writeCompressed(d.fs, path, current); err != nil {
		return err
	}
	logger().Debug("settings backup written", "path", path)
	return d.trimBackupsLocked()
}

func writeCompressed(fs afero.Fs, path string, data []byte) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("could not create backup file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return fmt.Errorf("could not compress backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("could not finish backup: %w", err)
	}
	return f.Close()
}

func readCompressed(fs afero.Fs, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decompress %s: %w", path, err)
	}
	return data, nil
}

// listBackupsLocked returns backup paths, newest first.
func (d *Document) listBackupsLocked() ([]string, error) {
	dir := d.backupDir()
	entries, err := afero.ReadDir(d.fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || !strings.HasSuffix(e.Name(), backupSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

func (d *Document) trimBackupsLocked() error {
	paths, err := d.listBackupsLocked()
	if err != nil {
		return err
	}
	for i := d.backups; i < len(paths); i++ {
		if err := d.fs.Remove(paths[i]); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", paths[i], err)
		}
	}
	return nil
}

// Backups returns the available backup files, newest first.
func (d *Document) Backups() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listBackupsLocked()
}

// RestoreLatestBackup replaces the entries with the newest backup holding a
// valid document and saves. Unreadable backups are skipped.
func (d *Document) RestoreLatestBackup() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths, err := d.listBackupsLocked()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	for _, p := range paths {
		data, err := readCompressed(d.fs, p)
		if err != nil {
			logger().Warn("skipping unreadable backup", "path", p, "err", err)
			continue
		}
		root, err := decodeDocument(data)
		if err != nil {
			logger().Warn("skipping corrupt backup", "path", p, "err", err)
			continue
		}
		d.replaceLocked(root)
		d.saveLocked()
		logger().Info("settings restored from backup", "path", p, "keys", len(d.keys))
		return nil
	}
	return ErrNoBackup
}
