package events

import "time"

// Bus is a thread-safe, in-process pub/sub bus for document events.
//
// Delivery is synchronous: Publish calls handlers in the caller goroutine,
// in subscription order. Handler errors are joined and returned. Filters
// are evaluated before delivery and drop events without error.
type Bus interface {
	// Publish delivers the event to every active subscriber of its type and
	// to wildcard subscribers.
	Publish(event Event) error
	// PublishWithFilters drops the event when any filter returns false.
	PublishWithFilters(event Event, filters ...Filter) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error

	// Subscribe registers a handler for one event type. Use Any to receive
	// every event.
	Subscribe(eventType Type, handler Handler) (Subscription, error)
	// Unsubscribe cancels the subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics is only collected while at least one observer is registered.
	Metrics() Metrics
}

// Event is an immutable notification about a document or comparison.
type Event interface {
	Type() Type
	// Source names the editor or session that emitted the event.
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	Handler func(event Event) error
	Filter  func(event Event) bool
)

type Subscription interface {
	ID() string
	EventType() Type
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about deliveries. Observers should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, duration time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
