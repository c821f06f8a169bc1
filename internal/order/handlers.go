package order

import (
	"context"
	"net/http"

	"github.com/noah-isme/shopfront/internal/common"
)

// Handler wires order placement and history to HTTP.
type Handler struct {
	Svc   *Service
	Flush func(context.Context)
}

// List returns the order history, newest first.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Svc.History == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order service not configured", nil)
		return
	}
	common.Data(w, http.StatusOK, h.Svc.History.All())
}

// PlaceLocal runs the immediate local-only checkout.
func (h Handler) PlaceLocal(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order service not configured", nil)
		return
	}
	placedBy := "guest"
	if user, ok := common.UserFrom(r.Context()); ok && user.Name != "" {
		placedBy = user.Name
	}
	placed := h.Svc.PlaceLocal(r.Context(), placedBy)
	if placed == nil {
		common.WriteError(w, common.NewAppError("EMPTY_CART", "cart is empty", http.StatusUnprocessableEntity, ErrEmptyCart))
		return
	}
	if h.Flush != nil {
		h.Flush(r.Context())
	}
	common.Data(w, http.StatusCreated, placed)
}
