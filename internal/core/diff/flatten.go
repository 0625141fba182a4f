package diff

import (
	"strconv"
	"strings"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// ChangeRecord is one path-addressed difference. Value holds the new value
// for additions and modifications and the old value for removals; OldValue
// is set for modifications only. Moves are modifications whose Value is
// {"from": i, "to": j}.
type ChangeRecord struct {
	Path     string           `json:"path"`
	Type     ChangeType       `json:"type"`
	Value    jsonvalue.Value  `json:"value"`
	OldValue *jsonvalue.Value `json:"oldValue,omitempty"`
	Patch    string           `json:"patch,omitempty"`
}

// Flatten walks delta depth-first and returns one record per leaf change.
// Object members keep delta order; array entries come in ascending index
// order, followed by moves. A nil delta yields an empty (nil) slice.
func Flatten(delta *Delta, basePath string) []ChangeRecord {
	var out []ChangeRecord
	flatten(delta, basePath, &out)
	return out
}

func flatten(d *Delta, path string, out *[]ChangeRecord) {
	if d.Empty() {
		return
	}
	switch d.Kind {
	case DeltaAdded:
		*out = append(*out, ChangeRecord{Path: path, Type: ChangeAdded, Value: d.New})
	case DeltaRemoved:
		*out = append(*out, ChangeRecord{Path: path, Type: ChangeRemoved, Value: d.Old})
	case DeltaModified:
		old := d.Old
		*out = append(*out, ChangeRecord{Path: path, Type: ChangeModified, Value: d.New, OldValue: &old, Patch: d.TextPatch})
	case DeltaObject:
		for _, f := range d.Fields {
			flatten(f.Delta, JoinKey(path, f.Key), out)
		}
	case DeltaArray:
		for _, it := range d.Items {
			flatten(it.Delta, JoinIndex(path, it.Index), out)
		}
		for _, m := range d.Moves {
			*out = append(*out, ChangeRecord{
				Path: JoinIndex(path, m.From),
				Type: ChangeModified,
				Value: jsonvalue.Object(
					jsonvalue.Member{Key: "from", Value: jsonvalue.Number(float64(m.From))},
					jsonvalue.Member{Key: "to", Value: jsonvalue.Number(float64(m.To))},
				),
			})
		}
	}
}

// String renders the record for an inline change list, e.g.
// "name: modified (John → Jane)".
func (r ChangeRecord) String() string {
	path := r.Path
	if path == "" {
		path = "(root)"
	}
	if r.OldValue != nil {
		// A kind change shows both sides as JSON so 1 and "1" stay distinct.
		quote := r.OldValue.Kind() != r.Value.Kind()
		return path + ": " + string(r.Type) + " (" + display(*r.OldValue, quote) + " → " + display(r.Value, quote) + ")"
	}
	return path + ": " + string(r.Type) + " (" + display(r.Value, false) + ")"
}

func display(v jsonvalue.Value, quote bool) string {
	if v.Kind() == jsonvalue.KindString && !quote {
		return v.AsString()
	}
	return jsonvalue.Format(v, jsonvalue.Minified)
}

// JoinKey appends an object key to a display path: "a" + "b" is "a.b".
// Keys that would be ambiguous in dotted form are bracket-quoted.
func JoinKey(base, key string) string {
	if key == "" || strings.ContainsAny(key, ".[]\"' ") {
		return base + "[" + jsonvalue.QuoteString(key) + "]"
	}
	if base == "" {
		return key
	}
	return base + "." + key
}

// JoinIndex appends an array index to a display path.
func JoinIndex(base string, index int) string {
	return base + "[" + strconv.Itoa(index) + "]"
}

// Summary counts records per change type.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

func (s Summary) Total() int { return s.Added + s.Removed + s.Modified }

func Summarize(records []ChangeRecord) Summary {
	var s Summary
	for _, r := range records {
		switch r.Type {
		case ChangeAdded:
			s.Added++
		case ChangeRemoved:
			s.Removed++
		case ChangeModified:
			s.Modified++
		}
	}
	return s
}
