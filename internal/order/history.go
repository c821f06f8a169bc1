package order

import "sync"

// History holds placed orders, newest first.
type History struct {
	mu     sync.Mutex
	orders []Order
}

// NewHistory constructs an empty history.
func NewHistory() *History {
	return &History{}
}

// Prepend records an order at the head of the history.
func (h *History) Prepend(o Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append([]Order{o}, h.orders...)
}

// All returns a copy of the history, newest first.
func (h *History) All() []Order {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Order, len(h.orders))
	copy(out, h.orders)
	return out
}

// Len reports the number of recorded orders.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.orders)
}

// Replace swaps the whole history, used when hydrating persisted state.
func (h *History) Replace(orders []Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append([]Order(nil), orders...)
}
