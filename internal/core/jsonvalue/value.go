// Package jsonvalue is the JSON document model shared by the diff engine,
// the converters and the editing workspace.
//
// A Value is a closed tagged union over the six JSON kinds. The kind is
// decided once, when the value is built, so consumers switch on Kind()
// instead of inspecting dynamic types. Objects remember the order in which
// their keys were first seen; that order is used for display only and never
// for comparison.
package jsonvalue

import (
	"fmt"
	"math"
	"sort"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsContainer reports whether the kind holds child values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    float64
	str    string
	items  []Value
	keys   []string
	fields map[string]Value
}

// Member is a single key/value pair used to build objects.
type Member struct {
	Key   string
	Value Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number panics on NaN and infinities, which JSON cannot represent.
// Use FromAny for untrusted input.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic("jsonvalue: non-finite number")
	}
	return Value{kind: KindNumber, num: f}
}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, items: cp}
}

// Object builds an object. A repeated key keeps its first position and its last value.
func Object(members ...Member) Value {
	v := Value{kind: KindObject, fields: make(map[string]Value, len(members))}
	for _, m := range members {
		if _, seen := v.fields[m.Key]; !seen {
			v.keys = append(v.keys, m.Key)
		}
		v.fields[m.Key] = m.Value
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; false for other kinds.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload; 0 for other kinds.
func (v Value) AsNumber() float64 { return v.num }

// AsString returns the string payload; "" for other kinds.
func (v Value) AsString() string { return v.str }

// Len is the number of array items or object members, 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th array item. It panics when v is not an array or i is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray {
		panic("jsonvalue: Index on " + v.kind.String())
	}
	return v.items[i]
}

// Items returns a copy of the array items, nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Keys returns object keys in insertion order, nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	cp := make([]string, len(v.keys))
	copy(cp, v.keys)
	return cp
}

// SortedKeys returns object keys in lexicographic order.
func (v Value) SortedKeys() []string {
	keys := v.Keys()
	sort.Strings(keys)
	return keys
}

// Get looks up an object member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Members returns the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Member, len(v.keys))
	for i, k := range v.keys {
		out[i] = Member{Key: k, Value: v.fields[k]}
	}
	return out
}

// Equal reports deep equality. Object key order is ignored.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// ToAny converts v into the plain Go representation used by encoding/json:
// nil, bool, float64, string, []any and map[string]any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			out[k] = f.ToAny()
		}
		return out
	default:
		return nil
	}
}

func (v Value) String() string {
	return Format(v, Minified)
}
