// Package events carries document lifecycle notifications between the
// editing surfaces, the comparison session and their observers.
package events

import "time"

type Type string

const (
	// Any subscribes to every event type.
	Any Type = "*"

	DocumentLoaded Type = "document.loaded"
	DocumentEdited Type = "document.edited"
	DocumentUndo   Type = "document.undo"
	DocumentRedo   Type = "document.redo"
	DiffComputed   Type = "diff.computed"
	DiffFailed     Type = "diff.failed"
)

func (t Type) String() string { return string(t) }

type simpleEvent struct {
	typ    Type
	source string
	ts     time.Time
	data   any
}

func (e simpleEvent) Type() Type           { return e.typ }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

func NewEvent(typ Type, source string, data any) Event {
	return simpleEvent{typ: typ, source: source, ts: time.Now(), data: data}
}

// DocumentChange is the payload of document.* events.
type DocumentChange struct {
	Version uint64
	Length  int
	CanUndo bool
	CanRedo bool
}

// DiffResult is the payload of diff.computed.
type DiffResult struct {
	Added     int
	Removed   int
	Modified  int
	Identical bool
}

// DiffFailure is the payload of diff.failed.
type DiffFailure struct {
	Side string
	Err  error
}
