// Package workspace holds the editing surfaces of the toolkit: text
// editors with undo/redo history and a two-sided comparison session that
// parses, diffs and exports their contents.
package workspace

import (
	"github.com/zeusync/devkit/internal/core/diff"
	"github.com/zeusync/devkit/internal/core/events"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

type config struct {
	bus         events.Bus
	logger      log.Log
	maxDepth    int
	dedup       bool
	diffOptions []diff.Option
}

type Option func(*config)

// WithBus publishes document and diff events on bus.
func WithBus(bus events.Bus) Option {
	return func(c *config) { c.bus = bus }
}

func WithLogger(logger log.Log) Option {
	return func(c *config) { c.logger = logger }
}

// WithMaxDepth bounds each editor's undo history. Zero keeps everything.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithDedup stops identical consecutive edits from creating history entries.
func WithDedup() Option {
	return func(c *config) { c.dedup = true }
}

// WithDiffOptions configures the comparison's Differ.
func WithDiffOptions(opts ...diff.Option) Option {
	return func(c *config) { c.diffOptions = append(c.diffOptions, opts...) }
}

func newConfig(opts []Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = log.NewNop()
	}
	return c
}

func (c config) publish(typ events.Type, source string, data any) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(events.NewEvent(typ, source, data)); err != nil {
		c.logger.Warn("event handler failed",
			log.String("type", typ.String()),
			log.String("source", source),
			log.Error(err),
		)
	}
}
