package workspace

import (
	"fmt"

	"github.com/zeusync/devkit/internal/core/events"
	"github.com/zeusync/devkit/internal/core/history"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

// Editor is a named text surface. Every Edit is recorded for undo, Load
// replaces the text and forgets the history.
type Editor struct {
	name    string
	cfg     config
	tracker *history.Tracker[string]
}

func NewEditor(name, initial string, opts ...Option) *Editor {
	return newEditor(name, initial, newConfig(opts))
}

func newEditor(name, initial string, cfg config) *Editor {
	cfg.logger = cfg.logger.With(log.String("editor", name))
	e := &Editor{name: name, cfg: cfg}

	hopts := []history.Option[string]{
		history.WithOnChange(e.onChange),
	}
	if cfg.maxDepth > 0 {
		hopts = append(hopts, history.WithMaxDepth[string](cfg.maxDepth))
	}
	if cfg.dedup {
		hopts = append(hopts, history.WithDedup(func(a, b string) bool { return a == b }))
	}
	e.tracker = history.New(initial, hopts...)
	return e
}

func (e *Editor) Name() string    { return e.name }
func (e *Editor) Text() string    { return e.tracker.Value() }
func (e *Editor) CanUndo() bool   { return e.tracker.CanUndo() }
func (e *Editor) CanRedo() bool   { return e.tracker.CanRedo() }
func (e *Editor) Version() uint64 { return e.tracker.Version() }
func (e *Editor) History() history.State[string] {
	return e.tracker.State()
}

// Load replaces the content, as when a file is opened.
func (e *Editor) Load(text string) {
	e.tracker.Reset(text)
}

// Edit records text as the new content. It reports false when the edit was
// suppressed as a duplicate.
func (e *Editor) Edit(text string) bool {
	return e.tracker.Set(text)
}

func (e *Editor) Undo() bool { return e.tracker.Undo() }
func (e *Editor) Redo() bool { return e.tracker.Redo() }

// Parse reads the current text as JSON.
func (e *Editor) Parse() (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse(e.Text())
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", e.name, err)
	}
	return v, nil
}

// Format pretty-prints the current text. The history is not touched.
func (e *Editor) Format(indent jsonvalue.Indent) (string, error) {
	v, err := e.Parse()
	if err != nil {
		return "", err
	}
	return jsonvalue.Format(v, indent), nil
}

func (e *Editor) onChange(op history.Op, state history.State[string]) {
	var typ events.Type
	switch op {
	case history.OpSet:
		typ = events.DocumentEdited
	case history.OpUndo:
		typ = events.DocumentUndo
	case history.OpRedo:
		typ = events.DocumentRedo
	case history.OpReset:
		typ = events.DocumentLoaded
	default:
		return
	}

	e.cfg.logger.Debug("document changed",
		log.String("op", op.String()),
		log.Int("length", len(state.Present)),
		log.Int("past", len(state.Past)),
		log.Int("future", len(state.Future)),
	)
	e.cfg.publish(typ, e.name, events.DocumentChange{
		Version: e.tracker.Version(),
		Length:  len(state.Present),
		CanUndo: state.CanUndo(),
		CanRedo: state.CanRedo(),
	})
}
