// Package diff computes structural deltas between two JSON values and
// flattens them into path-addressed change lists for display.
//
// A nil *Delta means "unchanged". Every non-nil delta describes at least
// one difference.
package diff

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

// ErrDiffCalculation wraps failures to turn caller data into JSON values.
var ErrDiffCalculation = errors.New("diff calculation error")

type DeltaKind uint8

const (
	DeltaAdded DeltaKind = iota + 1
	DeltaRemoved
	DeltaModified
	DeltaObject
	DeltaArray
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaAdded:
		return "added"
	case DeltaRemoved:
		return "removed"
	case DeltaModified:
		return "modified"
	case DeltaObject:
		return "object"
	case DeltaArray:
		return "array"
	default:
		return "unknown"
	}
}

// Delta is the difference between an old and a new value.
//
//   - DeltaAdded uses New, DeltaRemoved uses Old.
//   - DeltaModified uses Old and New; TextPatch is set when the strings were
//     long enough for a line-level text diff.
//   - DeltaObject lists changed keys in Fields; unchanged keys are absent.
//   - DeltaArray lists changed positions in Items and reorderings in Moves.
type Delta struct {
	Kind      DeltaKind
	Old       jsonvalue.Value
	New       jsonvalue.Value
	TextPatch string
	Fields    []FieldDelta
	Items     []ItemDelta
	Moves     []Move
}

// FieldDelta is the change of a single object member.
type FieldDelta struct {
	Key   string
	Delta *Delta
}

// ItemDelta is the change at one array position. Index refers to the old
// array for removals and to the new array for everything else.
type ItemDelta struct {
	Index int
	Delta *Delta
}

// Move records an element that kept its identity but changed position.
type Move struct {
	From int
	To   int
}

func added(v jsonvalue.Value) *Delta   { return &Delta{Kind: DeltaAdded, New: v} }
func removed(v jsonvalue.Value) *Delta { return &Delta{Kind: DeltaRemoved, Old: v} }
func modified(o, n jsonvalue.Value) *Delta {
	return &Delta{Kind: DeltaModified, Old: o, New: n}
}

// Empty reports whether d carries no change. A nil delta is empty.
func (d *Delta) Empty() bool {
	if d == nil {
		return true
	}
	switch d.Kind {
	case DeltaObject:
		return len(d.Fields) == 0
	case DeltaArray:
		return len(d.Items) == 0 && len(d.Moves) == 0
	default:
		return false
	}
}

// MarshalJSON writes the delta in the jsondiffpatch notation:
//
//	added    [new]
//	modified [old, new]     text diff  [patch, 0, 2]
//	removed  [old, 0, 0]    moved      ["", to, 3]
//	object   {"key": delta}
//	array    {"_t": "a", "<newIndex>": delta, "_<oldIndex>": removed|moved}
func (d *Delta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	d.writeJSON(&buf)
	return buf.Bytes(), nil
}

func (d *Delta) writeJSON(buf *bytes.Buffer) {
	if d.Empty() {
		buf.WriteString("null")
		return
	}
	switch d.Kind {
	case DeltaAdded:
		buf.WriteByte('[')
		buf.WriteString(jsonvalue.Format(d.New, jsonvalue.Minified))
		buf.WriteByte(']')
	case DeltaRemoved:
		buf.WriteByte('[')
		buf.WriteString(jsonvalue.Format(d.Old, jsonvalue.Minified))
		buf.WriteString(",0,0]")
	case DeltaModified:
		if d.TextPatch != "" {
			buf.WriteByte('[')
			buf.WriteString(jsonvalue.QuoteString(d.TextPatch))
			buf.WriteString(",0,2]")
			return
		}
		buf.WriteByte('[')
		buf.WriteString(jsonvalue.Format(d.Old, jsonvalue.Minified))
		buf.WriteByte(',')
		buf.WriteString(jsonvalue.Format(d.New, jsonvalue.Minified))
		buf.WriteByte(']')
	case DeltaObject:
		buf.WriteByte('{')
		for i, f := range d.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(jsonvalue.QuoteString(f.Key))
			buf.WriteByte(':')
			f.Delta.writeJSON(buf)
		}
		buf.WriteByte('}')
	case DeltaArray:
		buf.WriteString(`{"_t":"a"`)
		for _, it := range d.Items {
			buf.WriteByte(',')
			key := strconv.Itoa(it.Index)
			if it.Delta.Kind == DeltaRemoved {
				key = "_" + key
			}
			buf.WriteString(jsonvalue.QuoteString(key))
			buf.WriteByte(':')
			it.Delta.writeJSON(buf)
		}
		for _, m := range d.Moves {
			buf.WriteString(`,"_`)
			buf.WriteString(strconv.Itoa(m.From))
			buf.WriteString(`":["",`)
			buf.WriteString(strconv.Itoa(m.To))
			buf.WriteString(",3]")
		}
		buf.WriteByte('}')
	}
}
