// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package jsontree

import (
	"errors"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse for input that is not a single valid JSON value.
var ErrInvalidJSON = errors.New("invalid json")

// maxExactFloat is the largest magnitude at which every integer is exactly representable in a float64.
const maxExactFloat = 1 << 53

// Parse decodes data into a freshly allocated tree.
// Duplicate object keys keep the first position and the last value.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Node{}, ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Node {
	switch r.Type {
	case gjson.True:
		return BoolNode(true)
	case gjson.False:
		return BoolNode(false)
	case gjson.String:
		return StringNode(r.Str)
	case gjson.Number:
		return numberNode(r.Raw, r.Num)
	case gjson.JSON:
		switch {
		case r.IsArray():
			n := Node{kind: Array, items: []Node{}}
			r.ForEach(func(_, v gjson.Result) bool {
				n.items = append(n.items, fromResult(v))
				return true
			})
			return n
		case r.IsObject():
			n := Node{kind: Object, members: []Member{}}
			r.ForEach(func(k, v gjson.Result) bool {
				n.Set(k.Str, fromResult(v))
				return true
			})
			return n
		}
	}
	return Node{}
}

// numberNode prefers an integer whenever the literal denotes one without
// precision loss. Literals outside the float64 range decode as null.
func numberNode(raw string, num float64) Node {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntNode(i)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if errors.Is(err, strconv.ErrRange) {
		return NullNode()
	}
	if err != nil {
		f = num
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return NullNode()
	}
	if isExactInt(f) {
		return IntNode(int64(f))
	}
	return FloatNode(f)
}

func isExactInt(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) <= maxExactFloat
}
