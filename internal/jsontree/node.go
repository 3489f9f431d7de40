// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package jsontree provides a tagged-union representation of arbitrary JSON
// values together with the codec that converts them to and from dynamically
// typed Go values.
//
// The zero Node is a JSON null. Nodes are values; slices inside arrays and
// objects are shared on copy, so use Clone when a tree must be detached.
package jsontree

import (
	"math"
)

// Kind identifies which member of the union a Node holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

var kindNames = map[Kind]string{
	Null:   "null",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Member is one key/value pair of an object node.
type Member struct {
	Key   string
	Value Node
}

// Node is a single JSON value.
type Node struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	items   []Node
	members []Member
}

// NullNode returns a JSON null.
func NullNode() Node { return Node{} }

// BoolNode returns a JSON boolean.
func BoolNode(b bool) Node { return Node{kind: Bool, b: b} }

// IntNode returns a JSON integer.
func IntNode(i int64) Node { return Node{kind: Int, i: i} }

// FloatNode returns a JSON floating-point number.
func FloatNode(f float64) Node { return Node{kind: Float, f: f} }

// StringNode returns a JSON string.
func StringNode(s string) Node { return Node{kind: String, s: s} }

// ArrayNode returns a JSON array holding copies of items.
func ArrayNode(items ...Node) Node {
	n := Node{kind: Array, items: make([]Node, 0, len(items))}
	for _, it := range items {
		n.items = append(n.items, it.Clone())
	}
	return n
}

// ObjectNode returns an empty JSON object.
func ObjectNode() Node { return Node{kind: Object} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) IsNull() bool { return n.kind == Null }

// Bool returns the boolean held by n and whether n is a boolean.
func (n Node) Bool() (bool, bool) { return n.b, n.kind == Bool }

// Int returns the integer held by n and whether n is an integer.
func (n Node) Int() (int64, bool) { return n.i, n.kind == Int }

// Float returns the number held by n as float64. Integers convert.
func (n Node) Float() (float64, bool) {
	switch n.kind {
	case Float:
		return n.f, true
	case Int:
		return float64(n.i), true
	}
	return 0, false
}

// Str returns the string held by n and whether n is a string.
func (n Node) Str() (string, bool) { return n.s, n.kind == String }

// Len returns the number of array items or object members.
func (n Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.items)
	case Object:
		return len(n.members)
	}
	return 0
}

// Items returns a copy of the array items.
func (n Node) Items() []Node {
	if n.kind != Array {
		return nil
	}
	out := make([]Node, len(n.items))
	for i, it := range n.items {
		out[i] = it.Clone()
	}
	return out
}

// Members returns a copy of the object members in order.
func (n Node) Members() []Member {
	if n.kind != Object {
		return nil
	}
	out := make([]Member, len(n.members))
	for i, m := range n.members {
		out[i] = Member{Key: m.Key, Value: m.Value.Clone()}
	}
	return out
}

// Get looks up an object member.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != Object {
		return Node{}, false
	}
	for _, m := range n.members {
		if m.Key == key {
			return m.Value.Clone(), true
		}
	}
	return Node{}, false
}

// Set stores v under key, keeping the position of an existing member.
// It turns a null node into an object; it is a no-op on other kinds.
func (n *Node) Set(key string, v Node) {
	if n.kind == Null {
		n.kind = Object
	}
	if n.kind != Object {
		return
	}
	for i := range n.members {
		if n.members[i].Key == key {
			n.members[i].Value = v.Clone()
			return
		}
	}
	n.members = append(n.members, Member{Key: key, Value: v.Clone()})
}

// Append adds v to an array. It turns a null node into an array.
func (n *Node) Append(v Node) {
	if n.kind == Null {
		n.kind = Array
	}
	if n.kind != Array {
		return
	}
	n.items = append(n.items, v.Clone())
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	if n.items != nil {
		out.items = make([]Node, len(n.items))
		for i, it := range n.items {
			out.items[i] = it.Clone()
		}
	}
	if n.members != nil {
		out.members = make([]Member, len(n.members))
		for i, m := range n.members {
			out.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}

// Equal reports structural equality. Object member order is not significant.
// An integer and a float holding the same integral value are equal.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		if isNumber(n.kind) && isNumber(o.kind) {
			a, _ := n.Float()
			b, _ := o.Float()
			return a == b && a == math.Trunc(a)
		}
		return false
	}
	switch n.kind {
	case Null:
		return true
	case Bool:
		return n.b == o.b
	case Int:
		return n.i == o.i
	case Float:
		return n.f == o.f
	case String:
		return n.s == o.s
	case Array:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(n.members) != len(o.members) {
			return false
		}
		for _, m := range n.members {
			ov, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func isNumber(k Kind) bool { return k == Int || k == Float }
