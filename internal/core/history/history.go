// Package history keeps an undo/redo timeline for a single value.
//
// The timeline is linear: Set after Undo discards the redo branch. By
// default every Set records an entry, even when the new value equals the
// present one; WithDedup switches that policy. Depth is unbounded unless
// WithMaxDepth is given, in which case the oldest undo entries are dropped.
package history

import (
	sc "sync"
	"sync/atomic"
)

// Op names the mutation that produced a state.
type Op uint8

const (
	OpSet Op = iota + 1
	OpUndo
	OpRedo
	OpReset
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	case OpReset:
		return "reset"
	default:
		return "unknown"
	}
}

// State is a snapshot of the timeline. Past is oldest first, Future is
// nearest first.
type State[T any] struct {
	Past    []T
	Present T
	Future  []T
}

func (s State[T]) CanUndo() bool { return len(s.Past) > 0 }
func (s State[T]) CanRedo() bool { return len(s.Future) > 0 }

type config[T any] struct {
	maxDepth int
	equal    func(a, b T) bool
	onChange func(op Op, state State[T])
}

type Option[T any] func(*config[T])

// WithMaxDepth bounds the number of undo entries. Zero means unbounded.
func WithMaxDepth[T any](depth int) Option[T] {
	return func(c *config[T]) { c.maxDepth = depth }
}

// WithDedup makes Set a no-op when equal(present, v) holds.
func WithDedup[T any](equal func(a, b T) bool) Option[T] {
	return func(c *config[T]) { c.equal = equal }
}

// WithOnChange registers a callback invoked after every effective mutation,
// outside the tracker lock.
func WithOnChange[T any](fn func(op Op, state State[T])) Option[T] {
	return func(c *config[T]) { c.onChange = fn }
}

// Tracker is safe for concurrent use, although a single editing surface
// normally owns it.
type Tracker[T any] struct {
	mu      sc.Mutex
	past    []T
	present T
	future  []T // nearest first
	version atomic.Uint64
	cfg     config[T]
}

func New[T any](initial T, opts ...Option[T]) *Tracker[T] {
	t := &Tracker[T]{present: initial}
	for _, opt := range opts {
		opt(&t.cfg)
	}
	t.version.Store(1)
	return t
}

func (t *Tracker[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.present
}

func (t *Tracker[T]) CanUndo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.past) > 0
}

func (t *Tracker[T]) CanRedo() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.future) > 0
}

// Version increases by one on every effective mutation.
func (t *Tracker[T]) Version() uint64 {
	return t.version.Load()
}

// Set records v as the new present and drops any redo entries. It reports
// false only when a dedup policy suppressed the entry.
func (t *Tracker[T]) Set(v T) bool {
	t.mu.Lock()
	if t.cfg.equal != nil && t.cfg.equal(t.present, v) {
		t.mu.Unlock()
		return false
	}
	t.past = append(t.past, t.present)
	if t.cfg.maxDepth > 0 && len(t.past) > t.cfg.maxDepth {
		drop := len(t.past) - t.cfg.maxDepth
		clear(t.past[:drop])
		t.past = t.past[drop:]
	}
	t.present = v
	t.future = nil
	state := t.commitLocked()
	t.mu.Unlock()

	t.notify(OpSet, state)
	return true
}

// Undo steps back one entry. It returns false, changing nothing, when
// there is nothing to undo.
func (t *Tracker[T]) Undo() bool {
	t.mu.Lock()
	if len(t.past) == 0 {
		t.mu.Unlock()
		return false
	}
	last := len(t.past) - 1
	previous := t.past[last]
	var zero T
	t.past[last] = zero
	t.past = t.past[:last]
	t.future = append([]T{t.present}, t.future...)
	t.present = previous
	state := t.commitLocked()
	t.mu.Unlock()

	t.notify(OpUndo, state)
	return true
}

// Redo steps forward one entry. It returns false, changing nothing, when
// there is nothing to redo.
func (t *Tracker[T]) Redo() bool {
	t.mu.Lock()
	if len(t.future) == 0 {
		t.mu.Unlock()
		return false
	}
	next := t.future[0]
	t.future = t.future[1:]
	t.past = append(t.past, t.present)
	t.present = next
	state := t.commitLocked()
	t.mu.Unlock()

	t.notify(OpRedo, state)
	return true
}

// Reset replaces the present and forgets the whole timeline.
func (t *Tracker[T]) Reset(v T) {
	t.mu.Lock()
	t.past = nil
	t.future = nil
	t.present = v
	state := t.commitLocked()
	t.mu.Unlock()

	t.notify(OpReset, state)
}

// State returns a copy of the timeline.
func (t *Tracker[T]) State() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker[T]) commitLocked() State[T] {
	t.version.Add(1)
	if t.cfg.onChange == nil {
		return State[T]{}
	}
	return t.snapshotLocked()
}

func (t *Tracker[T]) snapshotLocked() State[T] {
	return State[T]{
		Past:    append([]T(nil), t.past...),
		Present: t.present,
		Future:  append([]T(nil), t.future...),
	}
}

func (t *Tracker[T]) notify(op Op, state State[T]) {
	if t.cfg.onChange != nil {
		t.cfg.onChange(op, state)
	}
}
