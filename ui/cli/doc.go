// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the trustkeep command-line interface using Cobra.
// It loads configuration, opens the local state root and exposes the
// settings store, the file registry and the folder operations as commands.
// Commands stay thin and delegate to the internal packages.
package cli
