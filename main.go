// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Trustkeep.
//
// Usage:
//
//	go run . [flags]
//	./trustkeep [flags]
//
// See --help for options.
package main

import (
	"os"

	"github.com/toeirei/trustkeep/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
