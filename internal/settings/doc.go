// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package settings implements the local key/value settings store.
//
// A Document owns the single JSON object persisted at
// <root>/Settings/settings.dat. Every mutation is saved before the call
// returns. Load and save failures never surface: a missing or corrupt file
// yields an empty store and a failed write leaves memory ahead of disk.
//
// Store is the dictionary-shaped view over a Document that converts between
// plain Go values and JSON trees on every access.
package settings
