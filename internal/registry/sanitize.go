// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import "strings"

// SanitizeKey derives a file name from a logical key by replacing every
// character that is invalid in a file name or path on this platform with '_'.
func SanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidChars, r) {
			return '_'
		}
		return r
	}, key)
}
