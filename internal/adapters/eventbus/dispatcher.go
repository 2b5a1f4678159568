package eventbus

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"context"
)

var _ ports.Notifier = (*Dispatcher)(nil) // Ensure compliance

// Dispatcher is the Notifier the core talks to. It routes events onto the bus
// by kind; whatever is subscribed (Telegram alerts today) does the delivery.
type Dispatcher struct {
	bus ports.EventBus
}

func NewDispatcher(bus ports.EventBus) *Dispatcher {
	return &Dispatcher{bus: bus}
}

func (d *Dispatcher) Notify(ctx context.Context, event domain.TransitionEvent) {
	d.bus.Publish(ctx, TopicFor(event), event)
}

// TopicFor maps an event to its bus topic.
func TopicFor(event domain.TransitionEvent) string {
	if event.Kind == domain.EventSubmitted {
		return ports.TopicRequestSubmitted
	}
	return ports.TopicRequestTransitioned
}
