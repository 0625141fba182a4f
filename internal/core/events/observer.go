package events

import (
	"time"

	"github.com/zeusync/devkit/internal/core/observability/log"
)

// LogObserver writes one debug entry per delivery and a warning when
// handlers fail.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	if logger == nil {
		logger = log.NewNop()
	}
	return &LogObserver{logger: logger.With(log.String("component", "events"))}
}

func (o *LogObserver) OnPublish(Event) {}

func (o *LogObserver) OnDelivered(event Event, handlers int, err error, duration time.Duration) {
	fields := []log.Field{
		log.String("type", event.Type().String()),
		log.String("source", event.Source()),
		log.Int("handlers", handlers),
		log.Duration("took", duration),
	}
	if err != nil {
		o.logger.Warn("event handlers failed", append(fields, log.Error(err))...)
		return
	}
	o.logger.Debug("event delivered", fields...)
}
