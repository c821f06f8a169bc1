package cart

import (
	"sync"
)

// Default quantity bounds applied by the quantity selector.
const (
	MinQty = 1
	MaxQty = 99
)

// Line is a cart entry. Lines are keyed by product id (no duplicates) and keep
// their insertion order for display.
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// Engine owns the cart line collection.
type Engine struct {
	mu    sync.Mutex
	lines []Line
	index map[string]int
}

// NewEngine constructs an empty cart.
func NewEngine() *Engine {
	return &Engine{index: make(map[string]int)}
}

// Add increments the existing line for productID or appends a new one.
// A non-positive qty counts as a single unit.
func (e *Engine) Add(productID string, qty int) {
	if productID == "" {
		return
	}
	if qty <= 0 {
		qty = 1
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if i, ok := e.index[productID]; ok {
		e.lines[i].Qty += qty
		return
	}
	e.index[productID] = len(e.lines)
	e.lines = append(e.lines, Line{ProductID: productID, Qty: qty})
}

// SetQty replaces the quantity of an existing line, flooring at MinQty. A qty
// driven to zero by decrements never removes the line; removal is explicit.
func (e *Engine) SetQty(productID string, qty int) {
	if qty < MinQty {
		qty = MinQty
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if i, ok := e.index[productID]; ok {
		e.lines[i].Qty = qty
	}
}

// Remove deletes the line for productID; absent lines are a no-op.
func (e *Engine) Remove(productID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.index[productID]
	if !ok {
		return
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
	delete(e.index, productID)
	for j := i; j < len(e.lines); j++ {
		e.index[e.lines[j].ProductID] = j
	}
}

// Clear empties the cart.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.index = make(map[string]int)
}

// Lines returns a copy of the cart contents in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// Replace swaps the whole line collection, used when hydrating persisted state.
// Lines with duplicate product ids collapse into the first occurrence and
// quantities below MinQty are floored.
func (e *Engine) Replace(lines []Line) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.index = make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			continue
		}
		qty := l.Qty
		if qty < MinQty {
			qty = MinQty
		}
		if i, ok := e.index[l.ProductID]; ok {
			e.lines[i].Qty += qty
			continue
		}
		e.index[l.ProductID] = len(e.lines)
		e.lines = append(e.lines, Line{ProductID: l.ProductID, Qty: qty})
	}
}

// Len reports the number of lines.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// IsEmpty reports whether the cart has no lines.
func (e *Engine) IsEmpty() bool {
	return e.Len() == 0
}

// ClampQty bounds a requested quantity to [min,max], further clamped to the
// available stock when stock is positive.
func ClampQty(qty, min, max, stock int) int {
	if min < 1 {
		min = MinQty
	}
	if max < min {
		max = min
	}
	if stock > 0 && stock < max {
		max = stock
	}
	if qty < min {
		return min
	}
	if qty > max {
		return max
	}
	return qty
}
