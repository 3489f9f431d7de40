// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

package jsontree

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"string", "trusted.example.org", "trusted.example.org"},
		{"int", 42, int64(42)},
		{"int8", int8(-8), int64(-8)},
		{"uint16", uint16(65535), int64(65535)},
		{"int64 max", int64(math.MaxInt64), int64(math.MaxInt64)},
		{"float", 2.5, 2.5},
		{"integral float", 3.0, int64(3)},
		{"float32", float32(0.5), 0.5},
		{"slice", []any{"a", 1, false, nil}, []any{"a", int64(1), false, nil}},
		{"typed slice", []string{"x", "y"}, []any{"x", "y"}},
		{"array", [2]int{1, 2}, []any{int64(1), int64(2)}},
		{"map", map[string]any{"on": true, "n": 7}, map[string]any{"on": true, "n": int64(7)}},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": int64(1)}},
		{"nested", map[string]any{"hosts": []any{map[string]any{"name": "h1", "weight": 0.25}}},
			map[string]any{"hosts": []any{map[string]any{"name": "h1", "weight": 0.25}}}},
		{"nil slice", []int(nil), nil},
		{"nil map", map[string]any(nil), nil},
		{"nil any slice", []any(nil), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Encode(tc.in)
			if err != nil {
				t.Fatalf("Encode(%#v): %v", tc.in, err)
			}
			// Go through the wire format too, as the settings document does.
			raw, err := n.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			parsed, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse(%s): %v", raw, err)
			}
			if got := Decode(parsed); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("round trip of %#v via %s = %#v, want %#v", tc.in, raw, got, tc.want)
			}
		})
	}
}

func TestEncode_PointerDereference(t *testing.T) {
	s := "value"
	n, err := Encode(&s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, ok := n.Str(); !ok || got != "value" {
		t.Fatalf("expected string node, got %v", n)
	}
	var nilPtr *int
	n, err = Encode(nilPtr)
	if err != nil || !n.IsNull() {
		t.Fatalf("nil pointer should encode to null, got %v err=%v", n, err)
	}
}

func TestEncode_Unsupported(t *testing.T) {
	for _, v := range []any{
		struct{ A int }{1},
		make(chan int),
		math.NaN(),
		math.Inf(1),
		map[int]string{1: "x"},
		[]any{func() {}},
		complex(1, 2),
	} {
		if _, err := Encode(v); !errors.Is(err, ErrUnsupportedValue) {
			t.Fatalf("Encode(%T): expected ErrUnsupportedValue, got %v", v, err)
		}
	}
}

func TestEncode_LargeUintBecomesFloat(t *testing.T) {
	n, err := Encode(uint64(math.MaxUint64))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if n.Kind() != Float {
		t.Fatalf("expected float kind, got %s", n.Kind())
	}
}

func TestEncode_JSONNumber(t *testing.T) {
	n, err := Encode(json.Number("12"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if i, ok := n.Int(); !ok || i != 12 {
		t.Fatalf("expected int 12, got %v", n)
	}
	if _, err := Encode(json.Number("abc")); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestEncode_MapKeysSorted(t *testing.T) {
	n, err := Encode(map[string]any{"b": 1, "a": 2, "c": 3})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := n.String(); got != `{"a":2,"b":1,"c":3}` {
		t.Fatalf("unexpected encoding %s", got)
	}
}

func TestDecode_UnknownKindIsNil(t *testing.T) {
	if got := Decode(Node{kind: Kind(99)}); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestDecode_DetachedFromTree(t *testing.T) {
	n := ArrayNode(StringNode("a"))
	out := Decode(n).([]any)
	out[0] = "mutated"
	if s, _ := n.Items()[0].Str(); s != "a" {
		t.Fatalf("decoded slice aliases node storage")
	}
}
