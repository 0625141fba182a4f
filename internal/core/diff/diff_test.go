package diff

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

func mustParse(t *testing.T, text string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse(text)
	require.NoError(t, err)
	return v
}

func TestDiffReflexive(t *testing.T) {
	docs := []string{
		`null`, `true`, `0`, `"x"`, `[]`, `{}`,
		`{"a":[1,2,{"id":3,"tags":["x","y"]}],"b":{"c":null}}`,
		`[[1,[2,[3]]],{"name":"n"},{"name":"n"}]`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			v := mustParse(t, doc)
			d := Diff(v, v)
			require.Nil(t, d)
			require.Empty(t, Flatten(d, ""))
		})
	}
}

func TestDiffEmptyIffEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{name: "key order", a: `{"a":1,"b":2}`, b: `{"b":2,"a":1}`, equal: true},
		{name: "nested key order in array", a: `[{"a":1,"b":2},{"c":1}]`, b: `[{"b":2,"a":1},{"c":1}]`, equal: true},
		{name: "number forms", a: `[1.0, 2]`, b: `[1, 2.00]`, equal: true},
		{name: "array order", a: `[1,2]`, b: `[2,1]`},
		{name: "duplicate count", a: `[1,1]`, b: `[1]`},
		{name: "string vs number", a: `["1"]`, b: `[1]`},
		{name: "deep leaf", a: `{"a":{"b":[{"c":true}]}}`, b: `{"a":{"b":[{"c":false}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			require.Equal(t, jsonvalue.Equal(a, b), tt.equal)
			changes := Flatten(Diff(a, b), "")
			if tt.equal {
				require.Empty(t, changes)
			} else {
				require.NotEmpty(t, changes)
			}
		})
	}
}

func TestDiffScalars(t *testing.T) {
	d := Diff(jsonvalue.String("a"), jsonvalue.String("b"))
	require.NotNil(t, d)
	require.Equal(t, DeltaModified, d.Kind)
	require.Equal(t, "a", d.Old.AsString())
	require.Equal(t, "b", d.New.AsString())

	require.Nil(t, Diff(jsonvalue.Number(3), jsonvalue.Number(3)))
	require.Nil(t, Diff(jsonvalue.Null(), jsonvalue.Null()))
}

func TestDiffKindMismatch(t *testing.T) {
	tests := []struct{ a, b string }{
		{`{}`, `[]`},
		{`{"a":1}`, `"a"`},
		{`null`, `0`},
		{`[1]`, `{"0":1}`},
	}
	for _, tt := range tests {
		d := Diff(mustParse(t, tt.a), mustParse(t, tt.b))
		require.NotNil(t, d)
		require.Equal(t, DeltaModified, d.Kind, "%s vs %s", tt.a, tt.b)
	}
}

func TestDiffRemovedVersusNulled(t *testing.T) {
	removedDelta := Diff(mustParse(t, `{"a":1}`), mustParse(t, `{}`))
	require.Equal(t, DeltaObject, removedDelta.Kind)
	require.Len(t, removedDelta.Fields, 1)
	require.Equal(t, "a", removedDelta.Fields[0].Key)
	require.Equal(t, DeltaRemoved, removedDelta.Fields[0].Delta.Kind)
	require.Equal(t, 1.0, removedDelta.Fields[0].Delta.Old.AsNumber())

	nulled := Diff(mustParse(t, `{"a":1}`), mustParse(t, `{"a":null}`))
	require.Len(t, nulled.Fields, 1)
	require.Equal(t, DeltaModified, nulled.Fields[0].Delta.Kind)
	require.True(t, nulled.Fields[0].Delta.New.IsNull())
}

func TestDiffArrayMovesByID(t *testing.T) {
	d := Diff(
		mustParse(t, `[{"id":1,"v":"x"},{"id":2,"v":"y"}]`),
		mustParse(t, `[{"id":2,"v":"y"},{"id":1,"v":"x"}]`),
	)
	require.NotNil(t, d)
	require.Equal(t, DeltaArray, d.Kind)
	require.Empty(t, d.Items)
	require.Equal(t, []Move{{From: 0, To: 1}, {From: 1, To: 0}}, d.Moves)

	changes := Flatten(d, "")
	require.Len(t, changes, 2)
	for _, c := range changes {
		require.Equal(t, ChangeModified, c.Type)
	}
	require.Equal(t, "[0]", changes[0].Path)
	require.Equal(t, `{"from":0,"to":1}`, jsonvalue.Format(changes[0].Value, jsonvalue.Minified))
}

func TestDiffArrayMatchedElementChanges(t *testing.T) {
	d := Diff(
		mustParse(t, `[{"id":"a","n":1},{"id":"b","n":2}]`),
		mustParse(t, `[{"id":"a","n":1},{"id":"b","n":3}]`),
	)
	changes := Flatten(d, "")
	require.Len(t, changes, 1)
	require.Equal(t, "[1].n", changes[0].Path)
	require.Equal(t, ChangeModified, changes[0].Type)
	require.Equal(t, 3.0, changes[0].Value.AsNumber())
	require.Equal(t, 2.0, changes[0].OldValue.AsNumber())
}

func TestDiffArrayInsertDoesNotReportShifts(t *testing.T) {
	d := Diff(mustParse(t, `["a","b","c"]`), mustParse(t, `["x","a","b","c"]`))
	require.Empty(t, d.Moves)
	require.Equal(t, []ItemDelta{{Index: 0, Delta: added(jsonvalue.String("x"))}}, d.Items)

	d = Diff(mustParse(t, `["a","b","c"]`), mustParse(t, `["a","c"]`))
	require.Empty(t, d.Moves)
	require.Len(t, d.Items, 1)
	require.Equal(t, 1, d.Items[0].Index)
	require.Equal(t, DeltaRemoved, d.Items[0].Delta.Kind)
}

func TestDiffArrayMovesKeepIndex(t *testing.T) {
	d := Diff(mustParse(t, `[0,7,8]`), mustParse(t, `[8,7]`))
	require.Equal(t, []Move{{From: 2, To: 0}}, d.Moves)
	for _, m := range d.Moves {
		require.NotEqual(t, m.From, m.To)
	}

	for _, c := range Flatten(d, "") {
		if c.Type == ChangeModified {
			require.Equal(t, `{"from":2,"to":0}`, jsonvalue.Format(c.Value, jsonvalue.Minified))
		}
	}
}

func TestDiffArrayAddRemoveOrdering(t *testing.T) {
	d := Diff(mustParse(t, `[1,2,3]`), mustParse(t, `[1,4,3]`))
	changes := Flatten(d, "list")
	require.Equal(t, []ChangeRecord{
		{Path: "list[1]", Type: ChangeRemoved, Value: jsonvalue.Number(2)},
		{Path: "list[1]", Type: ChangeAdded, Value: jsonvalue.Number(4)},
	}, changes)
}

func TestDiffArrayPositionalContainers(t *testing.T) {
	d := Diff(mustParse(t, `[{"a":1}]`), mustParse(t, `[{"a":2}]`))
	changes := Flatten(d, "")
	require.Len(t, changes, 1)
	require.Equal(t, "[0].a", changes[0].Path)
	require.Equal(t, ChangeModified, changes[0].Type)
}

func TestDiffObjectIdentityNamespaces(t *testing.T) {
	d := Diff(mustParse(t, `[{"id":1}]`), mustParse(t, `[1]`))
	require.NotNil(t, d)
	require.Empty(t, d.Moves)
	require.Len(t, d.Items, 2)
}

func TestDiffCustomHash(t *testing.T) {
	byKey := func(v jsonvalue.Value) string {
		if k, ok := v.Get("key"); ok {
			return k.AsString()
		}
		return jsonvalue.Canonical(v)
	}
	differ := NewDiffer(WithObjectHash(byKey))
	d := differ.Diff(
		mustParse(t, `[{"key":"a","v":1},{"key":"b","v":2}]`),
		mustParse(t, `[{"key":"b","v":2},{"key":"a","v":1}]`),
	)
	require.Len(t, d.Moves, 2)
	require.Empty(t, d.Items)
}

func TestDiffTextPatch(t *testing.T) {
	oldText := "line one\nline two\nline three\n"
	newText := "line one\nline 2\nline three\n"

	plain := Diff(jsonvalue.String(oldText), jsonvalue.String(newText))
	require.Empty(t, plain.TextPatch)

	differ := NewDiffer(WithTextDiff(0))
	d := differ.Diff(jsonvalue.String(oldText), jsonvalue.String(newText))
	require.Equal(t, DeltaModified, d.Kind)
	require.NotEmpty(t, d.TextPatch)
	require.Contains(t, d.TextPatch, "@@")
	require.Contains(t, d.TextPatch, "-line two")

	short := differ.Diff(jsonvalue.String("short"), jsonvalue.String("shorter"))
	require.Empty(t, short.TextPatch)
}

func TestDiffAny(t *testing.T) {
	d, err := DiffAny(map[string]any{"a": 1}, map[string]any{"a": 2})
	require.NoError(t, err)
	require.Len(t, Flatten(d, ""), 1)

	_, err = DiffAny(map[string]any{"a": 1}, map[string]any{"a": []any{math.Inf(1)}})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDiffCalculation))
	require.Contains(t, err.Error(), "$.a[0]")
}

func TestDeltaMarshalJSON(t *testing.T) {
	d := Diff(
		mustParse(t, `{"name":"John","age":30,"gone":true,"list":[{"id":1},{"id":2},"z"]}`),
		mustParse(t, `{"name":"Jane","age":30,"list":[{"id":2},{"id":1}],"city":"NYC"}`),
	)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"name": ["John", "Jane"],
		"gone": [true, 0, 0],
		"list": {"_t": "a", "_2": ["z", 0, 0], "_0": ["", 1, 3], "_1": ["", 0, 3]},
		"city": ["NYC"]
	}`, string(data))

	var nilDelta *Delta
	data, err = json.Marshal(nilDelta)
	require.NoError(t, err)
	require.Equal(t, "null", string(data))

	text := NewDiffer(WithTextDiff(1)).Diff(jsonvalue.String("abcdef\n"), jsonvalue.String("abcxyz\n"))
	data, err = json.Marshal(text)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), ",0,2]"))
}

func TestObjectHash(t *testing.T) {
	require.Equal(t, "7", ObjectHash(mustParse(t, `{"id":7,"name":"x"}`)))
	require.Equal(t, "x", ObjectHash(mustParse(t, `{"name":"x"}`)))
	require.Equal(t, "abc", ObjectHash(mustParse(t, `{"_id":"abc"}`)))
	require.Equal(t,
		ObjectHash(mustParse(t, `{"a":1,"b":2}`)),
		ObjectHash(mustParse(t, `{"b":2,"a":1}`)),
	)
	require.NotEqual(t, ObjectHash(jsonvalue.String("1")), ObjectHash(jsonvalue.Number(1)))
}
