// Package pubsub provides a generic publish/subscribe event system.
//
// The tabs service publishes one event per store command so open sidebars can
// refresh; the logger publishes one event per entry for the log overlay.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
	// RefreshEvent asks listeners to re-read state that changed outside the
	// current process, for example another writer on the same database.
	RefreshEvent EventType = "refresh"
)

// Event represents a published event with a typed payload.
// Seq increases by one per Publish on a broker, so listeners can tell the
// order commands were applied in.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Seq       uint64
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
