package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/pricing"
)

// Handler wires the cart engine to HTTP.
type Handler struct {
	Engine  *Engine
	Catalog *catalog.Store
	Flush   func(context.Context)
}

type lineView struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
	Image     string  `json:"image"`
}

// Get returns the cart contents with a pricing preview. Lines that no longer
// resolve against the catalog stay in the cart but are excluded from totals.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Engine == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart not configured", nil)
		return
	}
	views := make([]lineView, 0)
	var items []pricing.Item
	for _, line := range h.Engine.Lines() {
		view := lineView{ProductID: line.ProductID, Qty: line.Qty}
		if p, ok := h.Catalog.Product(line.ProductID); ok {
			view.Title = p.Title
			view.UnitPrice = p.Price
			view.LineTotal = float64(line.Qty) * p.Price
			view.Image = p.Image
			items = append(items, pricing.Item{Qty: line.Qty, UnitPrice: p.Price})
		}
		views = append(views, view)
	}
	common.Data(w, http.StatusOK, map[string]any{
		"items":  views,
		"totals": pricing.Compute(items, pricing.Standard),
	})
}

// Add inserts or increments a cart line. The requested quantity is clamped to
// the selector bounds and available stock.
func (h Handler) Add(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	if payload.Qty <= 0 {
		payload.Qty = 1
	}
	stock := 0
	if p, ok := h.Catalog.Product(payload.ProductID); ok {
		stock = p.Stock
	}
	h.Engine.Add(payload.ProductID, ClampQty(payload.Qty, MinQty, MaxQty, stock))
	h.flush(r.Context())
	h.Get(w, r)
}

// SetQty replaces the quantity of an existing line, flooring at the minimum.
func (h Handler) SetQty(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	stock := 0
	if p, ok := h.Catalog.Product(productID); ok {
		stock = p.Stock
	}
	h.Engine.SetQty(productID, ClampQty(payload.Qty, MinQty, MaxQty, stock))
	h.flush(r.Context())
	h.Get(w, r)
}

// Remove deletes a line; removing an absent line is not an error.
func (h Handler) Remove(w http.ResponseWriter, r *http.Request) {
	h.Engine.Remove(chi.URLParam(r, "productID"))
	h.flush(r.Context())
	h.Get(w, r)
}

// Clear empties the cart.
func (h Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Engine.Clear()
	h.flush(r.Context())
	h.Get(w, r)
}

func (h Handler) flush(ctx context.Context) {
	if h.Flush != nil {
		h.Flush(ctx)
	}
}
