package eventbus

import (
	"AidDesk/internal/core/domain"
	"AidDesk/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const handlerTimeout = 30 * time.Second

var _ ports.EventBus = (*inMemoryEventBus)(nil) // Ensure compliance

type inMemoryEventBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

// NewInMemoryEventBus creates a new, empty event bus
func NewInMemoryEventBus(baseLogger *zerolog.Logger) ports.EventBus {
	return &inMemoryEventBus{
		log:         baseLogger.With().Str("component", "in_memory_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

func (b *inMemoryEventBus) Publish(ctx context.Context, topic string, event domain.TransitionEvent) {
	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return
	}

	// Each handler runs on its own goroutine with a fresh context, so a slow
	// Telegram call never holds up the admin request that caused the event.
	for _, handler := range handlers {
		b.inflight.Add(1)
		go b.run(topic, handler, event)
	}

	b.log.Debug().
		Str("topic", topic).
		Str("request_id", event.RequestID.String()).
		Int("handlers", len(handlers)).
		Msg("Event published")
}

func (b *inMemoryEventBus) run(topic string, h ports.EventHandler, event domain.TransitionEvent) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("topic", topic).Str("panic", fmt.Sprint(r)).Msg("Event handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := h(ctx, event); err != nil {
		b.log.Error().Err(err).Str("topic", topic).Str("request_id", event.RequestID.String()).Msg("Event handler failed")
	}
}

func (b *inMemoryEventBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("New handler subscribed to topic")
}

func (b *inMemoryEventBus) Wait() {
	b.inflight.Wait()
}
