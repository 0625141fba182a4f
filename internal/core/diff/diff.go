package diff

import (
	"fmt"
	"sort"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

// DefaultTextDiffMinLength is the length both strings must exceed before a
// text diff is attempted, when text diffing is enabled.
const DefaultTextDiffMinLength = 10

// Config holds Differ settings.
type Config struct {
	Hash              HashFunc
	TextDiff          bool
	TextDiffMinLength int
	Logger            log.Log
}

// Option sets a field of Config.
type Option func(*Config)

// WithObjectHash replaces the array element identity function.
func WithObjectHash(hash HashFunc) Option {
	return func(c *Config) { c.Hash = hash }
}

// WithTextDiff enables line-level patches for modified strings longer than minLength.
// A minLength below 1 selects DefaultTextDiffMinLength.
func WithTextDiff(minLength int) Option {
	return func(c *Config) {
		c.TextDiff = true
		if minLength < 1 {
			minLength = DefaultTextDiffMinLength
		}
		c.TextDiffMinLength = minLength
	}
}

func WithLogger(logger log.Log) Option {
	return func(c *Config) { c.Logger = logger }
}

// Differ computes deltas. It holds no per-call state and may be shared.
type Differ struct {
	cfg Config
	dmp *diffmatchpatch.DiffMatchPatch
}

func NewDiffer(opts ...Option) *Differ {
	cfg := Config{
		Hash:              ObjectHash,
		TextDiffMinLength: DefaultTextDiffMinLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Hash == nil {
		cfg.Hash = ObjectHash
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}
	return &Differ{cfg: cfg, dmp: diffmatchpatch.New()}
}

var defaultDiffer = NewDiffer()

// Diff compares two values with the default settings. It returns nil when
// they are deep-equal.
func Diff(oldValue, newValue jsonvalue.Value) *Delta {
	return defaultDiffer.Diff(oldValue, newValue)
}

// DiffAny converts arbitrary decoded Go data before diffing. Data with no
// JSON form fails with an error wrapping ErrDiffCalculation and naming the
// offending path.
func DiffAny(oldValue, newValue any) (*Delta, error) {
	return defaultDiffer.DiffAny(oldValue, newValue)
}

func (d *Differ) DiffAny(oldValue, newValue any) (*Delta, error) {
	o, err := jsonvalue.FromAny(oldValue)
	if err != nil {
		return nil, fmt.Errorf("%w: old value: %w", ErrDiffCalculation, err)
	}
	n, err := jsonvalue.FromAny(newValue)
	if err != nil {
		return nil, fmt.Errorf("%w: new value: %w", ErrDiffCalculation, err)
	}
	return d.Diff(o, n), nil
}

func (d *Differ) Diff(oldValue, newValue jsonvalue.Value) *Delta {
	start := time.Now()
	delta := d.diff(oldValue, newValue)
	d.cfg.Logger.Debug("diff computed",
		log.String("old_kind", oldValue.Kind().String()),
		log.String("new_kind", newValue.Kind().String()),
		log.Bool("changed", delta != nil),
		log.Duration("elapsed", time.Since(start)),
	)
	return delta
}

func (d *Differ) diff(o, n jsonvalue.Value) *Delta {
	if o.Kind() != n.Kind() {
		return modified(o, n)
	}

	switch o.Kind() {
	case jsonvalue.KindObject:
		return d.diffObjects(o, n)
	case jsonvalue.KindArray:
		return d.diffArrays(o, n)
	case jsonvalue.KindString:
		if o.AsString() == n.AsString() {
			return nil
		}
		delta := modified(o, n)
		if d.cfg.TextDiff && len(o.AsString()) > d.cfg.TextDiffMinLength && len(n.AsString()) > d.cfg.TextDiffMinLength {
			delta.TextPatch = d.textPatch(o.AsString(), n.AsString())
		}
		return delta
	default:
		if jsonvalue.Equal(o, n) {
			return nil
		}
		return modified(o, n)
	}
}

func (d *Differ) diffObjects(o, n jsonvalue.Value) *Delta {
	delta := &Delta{Kind: DeltaObject}

	for _, key := range o.Keys() {
		ov, _ := o.Get(key)
		nv, ok := n.Get(key)
		if !ok {
			delta.Fields = append(delta.Fields, FieldDelta{Key: key, Delta: removed(ov)})
			continue
		}
		if child := d.diff(ov, nv); child != nil {
			delta.Fields = append(delta.Fields, FieldDelta{Key: key, Delta: child})
		}
	}
	for _, key := range n.Keys() {
		if _, ok := o.Get(key); ok {
			continue
		}
		nv, _ := n.Get(key)
		delta.Fields = append(delta.Fields, FieldDelta{Key: key, Delta: added(nv)})
	}

	if delta.Empty() {
		return nil
	}
	return delta
}

func (d *Differ) diffArrays(o, n jsonvalue.Value) *Delta {
	oldItems, newItems := o.Items(), n.Items()

	// Pair elements by identity; duplicates pair up in order of appearance.
	oldMatch := make([]int, len(oldItems))
	newMatch := make([]int, len(newItems))
	pending := make(map[string][]int, len(oldItems))
	for i, it := range oldItems {
		oldMatch[i] = -1
		k := matchKey(d.cfg.Hash, it)
		pending[k] = append(pending[k], i)
	}
	for j, it := range newItems {
		newMatch[j] = -1
		k := matchKey(d.cfg.Hash, it)
		if q := pending[k]; len(q) > 0 {
			newMatch[j], oldMatch[q[0]] = q[0], j
			pending[k] = q[1:]
		}
	}

	// Unpaired containers of the same kind left at the same index are
	// compared member by member instead of being replaced wholesale.
	for p := 0; p < len(oldItems) && p < len(newItems); p++ {
		if oldMatch[p] != -1 || newMatch[p] != -1 {
			continue
		}
		if oldItems[p].Kind() == newItems[p].Kind() && oldItems[p].Kind().IsContainer() {
			oldMatch[p], newMatch[p] = p, p
		}
	}

	delta := &Delta{Kind: DeltaArray}

	// removedBefore[i] counts unpaired old elements before i; addedBefore
	// likewise for the new array. An element moved when its position among
	// the surviving elements differs.
	removedBefore := make([]int, len(oldItems)+1)
	for i := range oldItems {
		removedBefore[i+1] = removedBefore[i]
		if oldMatch[i] == -1 {
			removedBefore[i+1]++
			delta.Items = append(delta.Items, ItemDelta{Index: i, Delta: removed(oldItems[i])})
		}
	}
	addedBefore := 0
	for j, it := range newItems {
		i := newMatch[j]
		if i == -1 {
			delta.Items = append(delta.Items, ItemDelta{Index: j, Delta: added(it)})
			addedBefore++
			continue
		}
		if i != j && i-removedBefore[i] != j-addedBefore {
			delta.Moves = append(delta.Moves, Move{From: i, To: j})
		}
		if child := d.diff(oldItems[i], it); child != nil {
			delta.Items = append(delta.Items, ItemDelta{Index: j, Delta: child})
		}
	}

	sort.SliceStable(delta.Items, func(a, b int) bool {
		ia, ib := delta.Items[a], delta.Items[b]
		if ia.Index != ib.Index {
			return ia.Index < ib.Index
		}
		return ia.Delta.Kind == DeltaRemoved && ib.Delta.Kind != DeltaRemoved
	})
	sort.SliceStable(delta.Moves, func(a, b int) bool {
		return delta.Moves[a].From < delta.Moves[b].From
	})

	if delta.Empty() {
		return nil
	}
	return delta
}

func (d *Differ) textPatch(oldText, newText string) string {
	a, b, lines := d.dmp.DiffLinesToChars(oldText, newText)
	diffs := d.dmp.DiffMain(a, b, false)
	diffs = d.dmp.DiffCharsToLines(diffs, lines)
	diffs = d.dmp.DiffCleanupSemantic(diffs)
	return d.dmp.PatchToText(d.dmp.PatchMake(oldText, diffs))
}
