// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package jsontree

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// ErrUnsupportedValue is returned by Encode for values with no JSON representation.
var ErrUnsupportedValue = errors.New("unsupported value")

// Encode converts a dynamically typed Go value into a tree.
//
// Supported inputs are nil, bool, string, every integer and float kind,
// json.Number, Node, and slices, arrays and string-keyed maps of supported
// values. Nil pointers, slices and maps encode as null. Map keys are sorted.
// Unsigned values above math.MaxInt64 become floats.
func Encode(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return NullNode(), nil
	case Node:
		return x.Clone(), nil
	case *Node:
		if x == nil {
			return NullNode(), nil
		}
		return x.Clone(), nil
	case bool:
		return BoolNode(x), nil
	case string:
		return StringNode(x), nil
	case int:
		return IntNode(int64(x)), nil
	case int8:
		return IntNode(int64(x)), nil
	case int16:
		return IntNode(int64(x)), nil
	case int32:
		return IntNode(int64(x)), nil
	case int64:
		return IntNode(x), nil
	case uint:
		return encodeUint(uint64(x)), nil
	case uint8:
		return IntNode(int64(x)), nil
	case uint16:
		return IntNode(int64(x)), nil
	case uint32:
		return IntNode(int64(x)), nil
	case uint64:
		return encodeUint(x), nil
	case float32:
		return encodeFloat(float64(x))
	case float64:
		return encodeFloat(x)
	case json.Number:
		n, err := Parse([]byte(x))
		if err != nil || !isNumber(n.kind) {
			return Node{}, fmt.Errorf("%w: json.Number %q", ErrUnsupportedValue, string(x))
		}
		return n, nil
	case []any:
		if x == nil {
			return NullNode(), nil
		}
		n := Node{kind: Array, items: make([]Node, 0, len(x))}
		for i, it := range x {
			child, err := Encode(it)
			if err != nil {
				return Node{}, fmt.Errorf("index %d: %w", i, err)
			}
			n.items = append(n.items, child)
		}
		return n, nil
	case map[string]any:
		if x == nil {
			return NullNode(), nil
		}
		return encodeMap(len(x), func(yield func(string, any) error) error {
			for _, k := range sortedKeys(x) {
				if err := yield(k, x[k]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeUint(u uint64) Node {
	if u > math.MaxInt64 {
		return FloatNode(float64(u))
	}
	return IntNode(int64(u))
}

func encodeFloat(f float64) (Node, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Node{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	return FloatNode(f), nil
}

func encodeMap(size int, each func(yield func(string, any) error) error) (Node, error) {
	n := Node{kind: Object, members: make([]Member, 0, size)}
	err := each(func(k string, v any) error {
		child, err := Encode(v)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		n.members = append(n.members, Member{Key: k, Value: child})
		return nil
	})
	if err != nil {
		return Node{}, err
	}
	return n, nil
}

func encodeReflect(rv reflect.Value) (Node, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullNode(), nil
		}
		return Encode(rv.Elem().Interface())
	case reflect.Bool:
		return BoolNode(rv.Bool()), nil
	case reflect.String:
		return StringNode(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntNode(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return encodeUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return encodeFloat(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NullNode(), nil
		}
		n := Node{kind: Array, items: make([]Node, 0, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			child, err := Encode(rv.Index(i).Interface())
			if err != nil {
				return Node{}, fmt.Errorf("index %d: %w", i, err)
			}
			n.items = append(n.items, child)
		}
		return n, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return NullNode(), nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return encodeMap(len(keys), func(yield func(string, any) error) error {
			for _, k := range keys {
				kv := reflect.ValueOf(k).Convert(rv.Type().Key())
				if err := yield(k, rv.MapIndex(kv).Interface()); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if !rv.IsValid() {
		return NullNode(), nil
	}
	return Node{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, rv.Type())
}

// Decode converts a tree into plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. It never fails; unknown kinds decode as nil.
func Decode(n Node) any {
	switch n.kind {
	case Bool:
		return n.b
	case Int:
		return n.i
	case Float:
		return n.f
	case String:
		return n.s
	case Array:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = Decode(it)
		}
		return out
	case Object:
		out := make(map[string]any, len(n.members))
		for _, m := range n.members {
			out[m.Key] = Decode(m.Value)
		}
		return out
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
