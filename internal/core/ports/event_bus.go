package ports

import (
	"AidDesk/internal/core/domain"
	"context"
)

// Topics carried on the event bus.
const (
	TopicRequestSubmitted    = "request.submitted"
	TopicRequestTransitioned = "request.transitioned"
)

// EventHandler reacts to one lifecycle event. Errors are logged, never returned to the publisher.
type EventHandler func(ctx context.Context, event domain.TransitionEvent) error

// EventBus is the in-process pub/sub that fans lifecycle events out to subscribers.
type EventBus interface {
	// Publish hands event to every subscriber of topic without waiting for them.
	Publish(ctx context.Context, topic string, event domain.TransitionEvent)

	// Subscribe registers a handler for a topic.
	Subscribe(topic string, handler EventHandler)

	// Wait blocks until every handler started so far has returned.
	Wait()
}
