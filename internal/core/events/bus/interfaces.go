package bus

import "time"

// EventBus is a synchronous in-process pub/sub bus.
//
// - Type-based fan-out: handlers subscribe by Event.Type().
// - Publish calls handlers in the caller goroutine, in subscription order.
// - Handler errors are joined and returned from Publish/PublishBatch.
// - Metrics are collected only while an observer is registered.
// - All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error
	// PublishBatch publishes events in order and aggregates errors across them.
	PublishBatch(events ...Event) error

	// Subscribe registers a handler for one event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeAll registers a handler that receives every event.
	SubscribeAll(handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. Nil is a no-op.
	Unsubscribe(Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
	EventFilter  func(event Event) bool
)

type Subscription interface {
	ID() string
	EventType() string // empty for SubscribeAll
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, durationMicros int64)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
