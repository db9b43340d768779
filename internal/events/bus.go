package events

import (
	"fmt"
	"sync"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// OrderCreated is published once per successfully placed order, after the
// placement transaction has committed.
type OrderCreated struct {
	Order *model.Order
}

type OrderCreatedHandler func(OrderCreated)

// Bus fans order events out to registered handlers. Publishing is
// fire-and-forget: each handler runs on its own goroutine, gets exactly one
// delivery attempt, and a panic in one handler never reaches the publisher
// or the other handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers []OrderCreatedHandler
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeOrderCreated registers a handler for future order events
func (b *Bus) SubscribeOrderCreated(handler OrderCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// PublishOrderCreated delivers the event to every subscriber and returns
// immediately. Handler failures are logged, never propagated.
func (b *Bus) PublishOrderCreated(event OrderCreated) {
	b.mu.RLock()
	handlers := make([]OrderCreatedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h OrderCreatedHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Order event handler panicked", fmt.Errorf("panic: %v", r), map[string]interface{}{
						"order_id": event.Order.ID,
					})
				}
			}()
			h(event)
		}(handler)
	}
}
