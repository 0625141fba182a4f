package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerUndoRedo(t *testing.T) {
	h := New("x")
	require.Equal(t, "x", h.Value())
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())

	h.Set("y")
	h.Set("z")
	require.True(t, h.Undo())
	require.True(t, h.Undo())

	require.Equal(t, "x", h.Value())
	require.False(t, h.CanUndo())
	require.True(t, h.CanRedo())

	require.True(t, h.Redo())
	require.True(t, h.Redo())
	require.Equal(t, "z", h.Value())
	require.False(t, h.CanRedo())
	require.True(t, h.CanUndo())
}

func TestTrackerUnderflowIsNoop(t *testing.T) {
	h := New(1)
	v := h.Version()

	require.False(t, h.Undo())
	require.False(t, h.Redo())
	require.Equal(t, 1, h.Value())
	require.Equal(t, v, h.Version())
}

func TestTrackerBranchPruning(t *testing.T) {
	h := New("initial")
	h.Set("y")
	h.Undo()
	require.Equal(t, "initial", h.Value())
	require.True(t, h.CanRedo())

	h.Set("branch")
	require.False(t, h.CanRedo())
	require.False(t, h.Redo())
	require.Equal(t, "branch", h.Value())

	require.True(t, h.Undo())
	require.Equal(t, "initial", h.Value())
	require.True(t, h.Redo())
	require.Equal(t, "branch", h.Value())
}

func TestTrackerReset(t *testing.T) {
	h := New("a")
	h.Set("b")
	h.Set("c")
	h.Undo()
	require.True(t, h.CanUndo())
	require.True(t, h.CanRedo())

	h.Reset("fresh")
	require.Equal(t, "fresh", h.Value())
	require.False(t, h.CanUndo())
	require.False(t, h.CanRedo())
}

func TestTrackerStateLayout(t *testing.T) {
	h := New(0)
	for i := 1; i <= 4; i++ {
		h.Set(i)
	}
	h.Undo()
	h.Undo()

	s := h.State()
	require.Equal(t, []int{0, 1}, s.Past)
	require.Equal(t, 2, s.Present)
	require.Equal(t, []int{3, 4}, s.Future)
	require.True(t, s.CanUndo())
	require.True(t, s.CanRedo())

	// snapshots are copies
	s.Past[0] = 99
	require.Equal(t, []int{0, 1}, h.State().Past)
}

func TestTrackerRecordsDuplicatesByDefault(t *testing.T) {
	h := New("same")
	require.True(t, h.Set("same"))
	require.True(t, h.CanUndo())
	require.Len(t, h.State().Past, 1)
}

func TestTrackerDedupPolicy(t *testing.T) {
	h := New("same", WithDedup(func(a, b string) bool { return a == b }))
	v := h.Version()
	require.False(t, h.Set("same"))
	require.False(t, h.CanUndo())
	require.Equal(t, v, h.Version())

	require.True(t, h.Set("other"))
	require.True(t, h.CanUndo())
}

func TestTrackerMaxDepth(t *testing.T) {
	h := New(0, WithMaxDepth[int](2))
	for i := 1; i <= 5; i++ {
		h.Set(i)
	}
	require.Equal(t, []int{3, 4}, h.State().Past)

	require.True(t, h.Undo())
	require.True(t, h.Undo())
	require.False(t, h.Undo())
	require.Equal(t, 3, h.Value())
}

func TestTrackerOnChange(t *testing.T) {
	var ops []Op
	var last State[string]
	h := New("a", WithOnChange(func(op Op, s State[string]) {
		ops = append(ops, op)
		last = s
	}))

	h.Set("b")
	h.Undo()
	h.Redo()
	h.Undo()
	h.Undo() // no-op, no callback
	h.Reset("c")

	require.Equal(t, []Op{OpSet, OpUndo, OpRedo, OpUndo, OpReset}, ops)
	require.Equal(t, "c", last.Present)
	require.Empty(t, last.Past)
	require.Empty(t, last.Future)
	require.Equal(t, uint64(6), h.Version())
}

func TestTrackerConcurrentSet(t *testing.T) {
	h := New(0)
	wg := sync.WaitGroup{}
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Set(i)
		}(i)
	}
	wg.Wait()

	require.Len(t, h.State().Past, 50)
	require.Equal(t, uint64(51), h.Version())
}
