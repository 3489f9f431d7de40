// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// caseInsensitive reports whether the host's default filesystems ignore case.
func caseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

// normalizePath returns a comparison key for path: absolute, cleaned,
// NFC-normalized and case-folded where the platform ignores case.
func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	key := norm.NFC.String(filepath.Clean(path))
	if caseInsensitive() {
		// Casers carry state, so one per call.
		key = cases.Fold().String(key)
	}
	return key
}

// SamePath reports whether a and b name the same file after normalization.
func SamePath(a, b string) bool {
	return normalizePath(a) == normalizePath(b)
}

// sameFile reports whether a and b are the same file, by name or, when both
// exist, by identity on fs. Identity covers symlinked and hard-linked paths.
func sameFile(fs afero.Fs, a, b string) bool {
	if SamePath(a, b) {
		return true
	}
	ia, err := fs.Stat(a)
	if err != nil {
		return false
	}
	ib, err := fs.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// validName rejects anything that is not a single path element.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsRune(name, 0) {
		return false
	}
	return !strings.ContainsAny(name, `/`+string(filepath.Separator))
}
