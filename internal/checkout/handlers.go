package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/order"
	"github.com/noah-isme/shopfront/internal/pricing"
)

// Handler wires the checkout workflow to HTTP.
type Handler struct {
	Workflow *Workflow
	Flush    func(context.Context)
}

// Get returns the current session and live totals.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Workflow == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout not configured", nil)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"session": h.sessionView(),
		"totals":  h.Workflow.Totals(),
	})
}

// Start advances from the cart step into details.
func (h Handler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.Workflow.ToDetails(); err != nil {
		h.writeGateError(w, err)
		return
	}
	h.writeSession(w)
}

// Details stores the destination and advances to payment.
func (h Handler) Details(w http.ResponseWriter, r *http.Request) {
	var d Details
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Workflow.SetDetails(d); err != nil {
		h.writeGateError(w, err)
		return
	}
	h.writeSession(w)
}

// Shipping selects the shipping method and advances to review.
func (h Handler) Shipping(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShippingMethod pricing.ShippingMethod `json:"shippingMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Workflow.SetShipping(payload.ShippingMethod); err != nil {
		h.writeGateError(w, err)
		return
	}
	h.writeSession(w)
}

// Back steps backward without validation.
func (h Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.Workflow.Back()
	h.writeSession(w)
}

// Reset abandons the checkout session.
func (h Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Workflow.Reset()
	h.writeSession(w)
}

// Submit runs the review-step submission. Unauthenticated users get the login
// redirect with their cart preserved.
func (h Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, authenticated := common.UserFrom(r.Context())
	result, err := h.Workflow.Submit(r.Context(), user, authenticated)
	if err != nil {
		h.writeGateError(w, err)
		return
	}
	if result.RequiresAuth {
		common.Data(w, http.StatusUnauthorized, map[string]any{
			"redirect":     result.Redirect,
			"requiresAuth": true,
		})
		return
	}
	if h.Flush != nil {
		h.Flush(r.Context())
	}
	common.Data(w, http.StatusCreated, map[string]any{
		"order":           result.Order,
		"redirect":        result.Redirect,
		"redirectDelayMs": result.Delay.Milliseconds(),
	})
}

func (h Handler) sessionView() map[string]any {
	s := h.Workflow.Session()
	return map[string]any{
		"step":               s.Step.String(),
		"destinationCity":    s.DestinationCity,
		"destinationAddress": s.DestinationAddress,
		"shippingMethod":     s.ShippingMethod,
		"processing":         s.Processing,
		"error":              s.Error,
		"orderSuccess":       s.OrderSuccess,
	}
}

func (h Handler) writeSession(w http.ResponseWriter) {
	common.Data(w, http.StatusOK, map[string]any{
		"session": h.sessionView(),
		"totals":  h.Workflow.Totals(),
	})
}

func (h Handler) writeGateError(w http.ResponseWriter, err error) {
	common.WriteError(w, gateError(err))
}

// gateError maps the workflow and order sentinels onto AppErrors.
func gateError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart), errors.Is(err, order.ErrEmptyCart):
		return common.NewAppError("EMPTY_CART", "cart is empty", http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrMissingDetails), errors.Is(err, order.ErrMissingDestination):
		return common.NewAppError("MISSING_DETAILS", "destination city and address are required", http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrInvalidMethod):
		return common.NewAppError("INVALID_METHOD", "unknown shipping method", http.StatusUnprocessableEntity, err)
	case errors.Is(err, order.ErrInvalidCartItem):
		return common.NewAppError("INVALID_CART_ITEM", err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, ErrWrongStep):
		return common.NewAppError("WRONG_STEP", "step precondition not met", http.StatusConflict, err)
	case errors.Is(err, ErrProcessing):
		return common.NewAppError("PROCESSING", "submission already in progress", http.StatusConflict, err)
	default:
		return common.NewAppError("SUBMIT_FAILED", err.Error(), http.StatusBadGateway, err)
	}
}
