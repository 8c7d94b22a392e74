// Package events provides event bus infrastructure.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vmr_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Handlers registered for an
// event name receive every published event of that name. Publish dispatches
// handlers on a separate goroutine so publishers never block on subscribers.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously.
// Handler errors and panics are logged, never propagated to the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	handlers := b.handlersFor(event.EventName())
	if len(handlers) == 0 {
		return
	}

	// Detach from the request context so in-flight handlers survive
	// the HTTP response being written.
	detached := context.WithoutCancel(ctx)

	go func() {
		for _, handler := range handlers {
			b.dispatch(detached, event, handler)
		}
	}()
}

// PublishSync dispatches the event and waits for all handlers to complete.
// Returns the combined error of any failing handlers.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	handlers := b.handlersFor(event.EventName())

	var errs []error
	for _, handler := range handlers {
		if err := b.dispatch(ctx, event, handler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	return handlers
}

func (b *InMemoryBus) dispatch(ctx context.Context, event Event, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
			if b.log != nil {
				b.log.Error("event_handler_panic", "event", event.EventName(), "panic", fmt.Sprint(r))
			}
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		if b.log != nil {
			b.log.Error("event_handler_error", "event", event.EventName(), "error", err.Error())
		}
		return err
	}
	return nil
}
