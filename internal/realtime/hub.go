package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Hub fans order events out to in-process subscribers keyed by order id.
// Delivery is at-most-once per subscriber; a subscriber that unsubscribes
// concurrently with a publish may or may not see that event.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uuid.UUID]map[uint64]func(OrderEvent)
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[uuid.UUID]map[uint64]func(OrderEvent){}}
}

// Subscribe registers fn for events on the given order. The returned function
// removes the subscription; calling it more than once is safe.
func (h *Hub) Subscribe(orderID uuid.UUID, fn func(OrderEvent)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[orderID] == nil {
		h.subs[orderID] = map[uint64]func(OrderEvent){}
	}
	h.subs[orderID][id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[orderID], id)
			if len(h.subs[orderID]) == 0 {
				delete(h.subs, orderID)
			}
		})
	}
}

// Publish delivers the event to every subscriber of its order. Callbacks run
// on separate goroutines so a slow subscriber never blocks the publisher.
func (h *Hub) Publish(event OrderEvent) {
	h.mu.RLock()
	fns := make([]func(OrderEvent), 0, len(h.subs[event.OrderID]))
	for _, fn := range h.subs[event.OrderID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		go fn(event)
	}
}

// SubscriberCount reports the live subscriptions for an order.
func (h *Hub) SubscriberCount(orderID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[orderID])
}
