// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package settings

import (
	"iter"

	"github.com/toeirei/trustkeep/internal/jsontree"
)

// Entry is one key/value pair of a Store snapshot.
type Entry struct {
	Key   string
	Value any
}

// Store is a dictionary view over a Document with dynamically typed values.
// Values read back as nil, bool, int64, float64, string, []any or map[string]any.
type Store struct {
	doc *Document
}

// NewStore wraps doc.
func NewStore(doc *Document) *Store {
	return &Store{doc: doc}
}

// Document returns the underlying document.
func (s *Store) Document() *Document { return s.doc }

// Get returns the value under key. ok is false when the key is missing;
// a present JSON null yields (nil, true).
func (s *Store) Get(key string) (value any, ok bool) {
	n, ok := s.doc.Get(key)
	if !ok {
		return nil, false
	}
	return jsontree.Decode(n), true
}

// GetString returns the value under key when it is a string.
func (s *Store) GetString(key string) (string, bool) {
	n, ok := s.doc.Get(key)
	if !ok {
		return "", false
	}
	return n.Str()
}

// Set encodes value and stores it under key. A nil value stores JSON null;
// it does not remove the key. Unsupported values are rejected and nothing is stored.
func (s *Store) Set(key string, value any) error {
	n, err := jsontree.Encode(value)
	if err != nil {
		return err
	}
	s.doc.Set(key, n)
	return nil
}

// SetNode stores an already built tree under key.
func (s *Store) SetNode(key string, n jsontree.Node) {
	s.doc.Set(key, n)
}

// Remove deletes key and reports whether it existed.
func (s *Store) Remove(key string) bool {
	return s.doc.Delete(key)
}

// ContainsKey reports whether key is present.
func (s *Store) ContainsKey(key string) bool {
	return s.doc.Has(key)
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return s.doc.Len()
}

// Clear removes every key.
func (s *Store) Clear() {
	s.doc.Clear()
}

// Keys returns a snapshot of the keys.
func (s *Store) Keys() []string {
	return s.doc.Keys()
}

// Values returns a snapshot of the decoded values in key order.
func (s *Store) Values() []any {
	snap := s.doc.Snapshot()
	out := make([]any, len(snap))
	for i, m := range snap {
		out[i] = jsontree.Decode(m.Value)
	}
	return out
}

// Entries returns a snapshot of all pairs.
func (s *Store) Entries() []Entry {
	snap := s.doc.Snapshot()
	out := make([]Entry, len(snap))
	for i, m := range snap {
		out[i] = Entry{Key: m.Key, Value: jsontree.Decode(m.Value)}
	}
	return out
}

// All iterates over a snapshot taken when iteration starts, so the store
// may be modified inside the loop.
func (s *Store) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, e := range s.Entries() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
