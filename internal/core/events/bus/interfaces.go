package bus

import (
	"errors"
	"time"
)

// Event types published by the spatial engine.
const (
	// EventEntityEvicted is published once per entity removed by the stale sweep.
	// Data holds the entity id as int64.
	EventEntityEvicted = "entity.evicted"
	// EventCacheExpired is published when a maintenance pass drops cache entries.
	// Data holds the number of dropped entries as int.
	EventCacheExpired = "cache.expired"
)

var (
	ErrNilHandler = errors.New("event handler is nil")
	ErrEmptyType  = errors.New("event type is empty")
)

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Delivery is synchronous in the publisher goroutine and handler errors are
// joined into the Publish result. Handlers must return quickly; the engine
// publishes from the caller's tick.
type EventBus interface {
	// Publish delivers the event to every active subscriber of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	// Subscribe registers handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. It is safe to call with nil.
	Unsubscribe(sub Subscription) error

	// AddObserver registers an observer of deliveries.
	AddObserver(obs EventBusObserver)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns accumulated counters.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, durationMicros int64)
}

// EventBusMetrics are the bus counters.
type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
