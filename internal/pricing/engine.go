package pricing

// ShippingMethod selects the shipping tier used for total computation.
type ShippingMethod string

const (
	// Standard shipping is free above a 100 subtotal, 15 otherwise.
	Standard ShippingMethod = "standard"
	// Express shipping is free above a 200 subtotal, 25 otherwise.
	Express ShippingMethod = "express"
)

// Valid reports whether the method is one of the supported tiers.
func (m ShippingMethod) Valid() bool {
	return m == Standard || m == Express
}

const (
	standardFee       = 15.0
	standardFreeAbove = 100.0
	expressFee        = 25.0
	expressFreeAbove  = 200.0
	taxRate           = 0.08
)

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice float64
}

// Totals aggregates computed pricing components. Values are unrounded; formatting
// to two decimals is a presentation concern.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute calculates cart totals for the given items and shipping method.
func Compute(items []Item, method ShippingMethod) Totals {
	var subtotal float64
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += float64(it.Qty) * it.UnitPrice
	}
	return ComputeFromSubtotal(subtotal, method)
}

// ComputeFromSubtotal calculates totals when the subtotal is already known.
// Free-shipping thresholds are strict: a subtotal of exactly 100 still pays
// the standard fee.
func ComputeFromSubtotal(subtotal float64, method ShippingMethod) Totals {
	shipping := ShippingFee(subtotal, method)
	tax := subtotal * taxRate
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// ShippingFee returns the shipping cost for the method at the given subtotal.
func ShippingFee(subtotal float64, method ShippingMethod) float64 {
	switch method {
	case Express:
		if subtotal > expressFreeAbove {
			return 0
		}
		return expressFee
	default:
		if subtotal > standardFreeAbove {
			return 0
		}
		return standardFee
	}
}
