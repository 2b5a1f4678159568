package ports

import (
	"AidDesk/internal/core/domain"
	"context"
)

// Notifier is the outbound contract for lifecycle events.
// Delivery is best-effort: Notify must not block on the delivery channel.
type Notifier interface {
	Notify(ctx context.Context, event domain.TransitionEvent)
}
