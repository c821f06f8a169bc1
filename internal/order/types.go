package order

import (
	"errors"
	"time"
)

// Placement errors surfaced to the checkout UI.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingDestination = errors.New("destination city and address are required")
	ErrInvalidCartItem    = errors.New("invalid cart item")
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// Item is an order line frozen at placement time.
type Item struct {
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	LineTotal   float64 `json:"lineTotal"`
}

// Order is immutable once created; only Status transitions are driven by
// external fulfillment collaborators.
type Order struct {
	ID       string    `json:"id"`
	Items    []Item    `json:"items"`
	Total    float64   `json:"total"`
	Status   string    `json:"status"`
	PlacedBy string    `json:"placedBy"`
	PlacedAt time.Time `json:"placedAt"`
}
