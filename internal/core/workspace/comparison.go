package workspace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/zeusync/devkit/internal/core/diff"
	"github.com/zeusync/devkit/internal/core/events"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

const (
	SideLeft  = "left"
	SideRight = "right"
)

// SideError reports which input of a comparison failed to parse.
type SideError struct {
	Side string
	Err  error
}

func (e *SideError) Error() string { return e.Side + ": " + e.Err.Error() }
func (e *SideError) Unwrap() error { return e.Err }

// Result is one computed comparison. Delta is nil when both sides are
// deep-equal.
type Result struct {
	Left    jsonvalue.Value
	Right   jsonvalue.Value
	Delta   *diff.Delta
	Changes []diff.ChangeRecord
	Summary diff.Summary

	leftVersion  uint64
	rightVersion uint64
}

func (r *Result) Identical() bool { return r.Delta == nil }

// Panes are both sides pretty-printed for side-by-side display.
type Panes struct {
	Left  string
	Right string
}

// Comparison is a diff session between two editors. Results are cached
// until either editor changes.
type Comparison struct {
	ID    string
	Left  *Editor
	Right *Editor

	cfg    config
	differ *diff.Differ

	mu   sync.Mutex
	last *Result
}

func NewComparison(opts ...Option) *Comparison {
	cfg := newConfig(opts)
	id := uuid.NewString()
	cfg.logger = cfg.logger.With(log.String("session", id))

	dopts := append([]diff.Option{diff.WithLogger(cfg.logger)}, cfg.diffOptions...)
	return &Comparison{
		ID:     id,
		Left:   newEditor(SideLeft, "", cfg),
		Right:  newEditor(SideRight, "", cfg),
		cfg:    cfg,
		differ: diff.NewDiffer(dopts...),
	}
}

// Compare parses both editors and diffs them. When a side does not parse
// the diff is not attempted and a *SideError is returned; the left side is
// checked first.
func (c *Comparison) Compare() (*Result, error) {
	lv, rv := c.Left.Version(), c.Right.Version()

	c.mu.Lock()
	if c.last != nil && c.last.leftVersion == lv && c.last.rightVersion == rv {
		r := c.last
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	left, err := c.parseSide(SideLeft, c.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.parseSide(SideRight, c.Right)
	if err != nil {
		return nil, err
	}

	delta := c.differ.Diff(left, right)
	changes := diff.Flatten(delta, "")
	r := &Result{
		Left:         left,
		Right:        right,
		Delta:        delta,
		Changes:      changes,
		Summary:      diff.Summarize(changes),
		leftVersion:  lv,
		rightVersion: rv,
	}

	c.mu.Lock()
	c.last = r
	c.mu.Unlock()

	c.cfg.logger.Info("comparison computed",
		log.Int("added", r.Summary.Added),
		log.Int("removed", r.Summary.Removed),
		log.Int("modified", r.Summary.Modified),
	)
	c.cfg.publish(events.DiffComputed, c.ID, events.DiffResult{
		Added:     r.Summary.Added,
		Removed:   r.Summary.Removed,
		Modified:  r.Summary.Modified,
		Identical: r.Identical(),
	})
	return r, nil
}

func (c *Comparison) parseSide(side string, e *Editor) (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse(e.Text())
	if err == nil {
		return v, nil
	}
	serr := &SideError{Side: side, Err: err}
	c.cfg.logger.Warn("comparison input invalid", log.String("side", side), log.Error(err))
	c.cfg.publish(events.DiffFailed, c.ID, events.DiffFailure{Side: side, Err: err})
	return jsonvalue.Value{}, serr
}

// Inline returns the flattened change list.
func (c *Comparison) Inline() ([]diff.ChangeRecord, error) {
	r, err := c.Compare()
	if err != nil {
		return nil, err
	}
	return r.Changes, nil
}

// SideBySide formats both sides. Unlike Compare it reports every side
// that fails to parse.
func (c *Comparison) SideBySide(indent jsonvalue.Indent) (Panes, error) {
	var (
		panes Panes
		errs  []error
	)
	if v, err := jsonvalue.Parse(c.Left.Text()); err != nil {
		errs = append(errs, &SideError{Side: SideLeft, Err: err})
	} else {
		panes.Left = jsonvalue.Format(v, indent)
	}
	if v, err := jsonvalue.Parse(c.Right.Text()); err != nil {
		errs = append(errs, &SideError{Side: SideRight, Err: err})
	} else {
		panes.Right = jsonvalue.Format(v, indent)
	}
	if len(errs) > 0 {
		return Panes{}, errors.Join(errs...)
	}
	return panes, nil
}

// Swap exchanges the two sides' texts, recording an edit on each.
func (c *Comparison) Swap() {
	l, r := c.Left.Text(), c.Right.Text()
	c.Left.Edit(r)
	c.Right.Edit(l)
}

func (r *Result) String() string {
	if r.Identical() {
		return "no differences"
	}
	return fmt.Sprintf("%d added, %d removed, %d modified",
		r.Summary.Added, r.Summary.Removed, r.Summary.Modified)
}
