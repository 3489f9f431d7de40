// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package vfs

import (
	"fmt"
	"strings"
)

// CollisionPolicy controls what create and copy operations do when the
// target already exists. Not every operation implements every policy:
//
//	policy              CreateFolder   CreateFile            Copy
//	FailIfExists        ErrAlreadyExists
//	ReplaceExisting     open existing  truncate              overwrite
//	OpenIfExists        open existing  open, keep content    return destination
//	GenerateUniqueName  open existing  ErrUnsupportedPolicy  ErrUnsupportedPolicy
//
// Without a collision every policy creates the target.
type CollisionPolicy int

const (
	FailIfExists CollisionPolicy = iota
	ReplaceExisting
	OpenIfExists
	GenerateUniqueName
)

var policyNames = []string{
	FailIfExists:       "fail",
	ReplaceExisting:    "replace",
	OpenIfExists:       "open",
	GenerateUniqueName: "unique",
}

func (p CollisionPolicy) String() string {
	if p >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("CollisionPolicy(%d)", int(p))
}

// ParseCollisionPolicy accepts the short names printed by String.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	for i, name := range policyNames {
		if strings.EqualFold(s, name) {
			return CollisionPolicy(i), nil
		}
	}
	return FailIfExists, fmt.Errorf("unknown collision policy %q (want one of %s)", s, strings.Join(policyNames, ", "))
}
