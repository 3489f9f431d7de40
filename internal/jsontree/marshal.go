// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/pretty"
)

var indentOptions = &pretty.Options{
	Width:    80,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// MarshalJSON encodes n compactly. Object members keep their order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces n with the parsed value of data.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Indent encodes n in a human-readable layout, ending with a newline.
func Indent(n Node) ([]byte, error) {
	compact, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(compact, indentOptions), nil
}

// String returns the compact encoding, or an empty string for unencodable trees.
func (n Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (n Node) writeTo(buf *bytes.Buffer) error {
	switch n.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(n.b))
	case Int:
		buf.WriteString(strconv.FormatInt(n.i, 10))
	case Float:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return fmt.Errorf("%w: %v", ErrUnsupportedValue, n.f)
		}
		buf.WriteString(strconv.FormatFloat(n.f, 'g', -1, 64))
	case String:
		writeString(buf, n.s)
	case Array:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, m.Key)
			buf.WriteByte(':')
			if err := m.Value.writeTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// writeString quotes s the way encoding/json does, without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string never fails.
	_ = enc.Encode(s)
	// Encoder.Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
