package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/devkit/internal/core/diff"
	"github.com/zeusync/devkit/internal/core/events"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

func recordEvents(t *testing.T, bus events.Bus) *[]events.Event {
	t.Helper()
	var got []events.Event
	_, err := bus.Subscribe(events.Any, func(e events.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	return &got
}

func types(evs []events.Event) []events.Type {
	out := make([]events.Type, len(evs))
	for i, e := range evs {
		out[i] = e.Type()
	}
	return out
}

func TestEditorHistory(t *testing.T) {
	bus := events.New()
	got := recordEvents(t, bus)

	e := NewEditor("doc", "x", WithBus(bus))
	e.Edit("y")
	e.Edit("z")
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	require.Equal(t, "x", e.Text())
	require.False(t, e.CanUndo())
	require.True(t, e.Redo())
	require.Equal(t, "y", e.Text())

	e.Load("fresh")
	require.False(t, e.CanUndo())
	require.False(t, e.CanRedo())

	require.Equal(t, []events.Type{
		events.DocumentEdited,
		events.DocumentEdited,
		events.DocumentUndo,
		events.DocumentUndo,
		events.DocumentRedo,
		events.DocumentLoaded,
	}, types(*got))

	last := (*got)[len(*got)-1]
	require.Equal(t, "doc", last.Source())
	require.Equal(t, events.DocumentChange{Version: e.Version(), Length: 5}, last.Data())
}

func TestEditorOptions(t *testing.T) {
	e := NewEditor("doc", "a", WithDedup(), WithMaxDepth(2))
	require.False(t, e.Edit("a"))
	for _, s := range []string{"b", "c", "d"} {
		require.True(t, e.Edit(s))
	}
	require.Equal(t, []string{"b", "c"}, e.History().Past)

	plain := NewEditor("doc", "a")
	require.True(t, plain.Edit("a"))
	require.True(t, plain.CanUndo())
}

func TestEditorParseAndFormat(t *testing.T) {
	e := NewEditor("left", `{"b":1,"a":[true]}`)
	out, err := e.Format(jsonvalue.Indent2)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true\n  ]\n}", out)
	require.False(t, e.CanUndo())

	e.Edit(`{"b":`)
	_, err = e.Parse()
	var perr *jsonvalue.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestCompare(t *testing.T) {
	bus := events.New()
	got := recordEvents(t, bus)

	c := NewComparison(WithBus(bus))
	require.NotEmpty(t, c.ID)
	c.Left.Load(`{"name":"John","age":30,"hobbies":["reading","gaming"]}`)
	c.Right.Load(`{"name":"Jane","age":30,"hobbies":["reading","coding"],"city":"NYC"}`)

	r, err := c.Compare()
	require.NoError(t, err)
	require.False(t, r.Identical())
	require.Equal(t, diff.Summary{Added: 2, Removed: 1, Modified: 1}, r.Summary)
	require.Equal(t, "2 added, 1 removed, 1 modified", r.String())

	again, err := c.Compare()
	require.NoError(t, err)
	require.Same(t, r, again)

	c.Right.Edit(c.Left.Text())
	r, err = c.Compare()
	require.NoError(t, err)
	require.True(t, r.Identical())
	require.Empty(t, r.Changes)
	require.Equal(t, "no differences", r.String())

	diffs := 0
	for _, e := range *got {
		if e.Type() == events.DiffComputed {
			diffs++
			require.Equal(t, c.ID, e.Source())
		}
	}
	require.Equal(t, 2, diffs)
}

func TestCompareReportsFailingSide(t *testing.T) {
	bus := events.New()
	var failures []events.DiffFailure
	_, _ = bus.Subscribe(events.DiffFailed, func(e events.Event) error {
		failures = append(failures, e.Data().(events.DiffFailure))
		return nil
	})

	c := NewComparison(WithBus(bus))
	c.Left.Load(`{"a":1}`)
	c.Right.Load(`{"a":`)

	_, err := c.Compare()
	var serr *SideError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, SideRight, serr.Side)
	require.Contains(t, err.Error(), "right: ")
	require.Len(t, failures, 1)

	c.Left.Load(``)
	_, err = c.Compare()
	require.ErrorAs(t, err, &serr)
	require.Equal(t, SideLeft, serr.Side)
	require.ErrorIs(t, err, jsonvalue.ErrEmptyInput)
}

func TestInlineAndSideBySide(t *testing.T) {
	c := NewComparison()
	c.Left.Load(`[1,2]`)
	c.Right.Load(`[1,2,3]`)

	changes, err := c.Inline()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, "[2]", changes[0].Path)
	require.Equal(t, diff.ChangeAdded, changes[0].Type)

	panes, err := c.SideBySide(jsonvalue.Minified)
	require.NoError(t, err)
	require.Equal(t, Panes{Left: "[1,2]", Right: "[1,2,3]"}, panes)

	c.Left.Load(`nope`)
	c.Right.Load(`{`)
	_, err = c.SideBySide(jsonvalue.Indent2)
	var serr *SideError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, err.Error(), "left: ")
	require.Contains(t, err.Error(), "right: ")
}

func TestSwap(t *testing.T) {
	c := NewComparison()
	c.Left.Load(`1`)
	c.Right.Load(`2`)
	c.Swap()
	require.Equal(t, "2", c.Left.Text())
	require.Equal(t, "1", c.Right.Text())
	require.True(t, c.Left.Undo())
	require.Equal(t, "1", c.Left.Text())
}

func TestHandlerErrorsDoNotBreakEditing(t *testing.T) {
	bus := events.New()
	_, _ = bus.Subscribe(events.DocumentEdited, func(events.Event) error { return errors.New("boom") })

	e := NewEditor("doc", "a", WithBus(bus))
	require.True(t, e.Edit("b"))
	require.Equal(t, "b", e.Text())
}
