package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/order"
	"github.com/noah-isme/shopfront/internal/pricing"
)

// Step identifies a checkout stage. Steps are linear; backward navigation is
// free, forward navigation is gated by each step's precondition.
type Step int

const (
	StepCart Step = iota
	StepDetails
	StepPayment
	StepReview
	StepSuccess
)

// String returns the step name used in responses.
func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Gate errors returned when a forward transition is refused.
var (
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrMissingDetails = errors.New("checkout: destination city and address are required")
	ErrInvalidMethod  = errors.New("checkout: unknown shipping method")
	ErrProcessing     = errors.New("checkout: submission already in progress")
	ErrWrongStep      = errors.New("checkout: step precondition not met")
)

// Session is the transient checkout state, reset after success or abandonment.
type Session struct {
	Step               Step                   `json:"step"`
	DestinationCity    string                 `json:"destinationCity"`
	DestinationAddress string                 `json:"destinationAddress"`
	ShippingMethod     pricing.ShippingMethod `json:"shippingMethod"`
	Processing         bool                   `json:"processing"`
	Error              string                 `json:"error,omitempty"`
	OrderSuccess       bool                   `json:"orderSuccess"`
}

// Details carries the destination form input for the details step.
type Details struct {
	DestinationCity    string `json:"destinationCity" validate:"required"`
	DestinationAddress string `json:"destinationAddress" validate:"required"`
}

// SubmitResult describes the outcome of a review-step submission.
type SubmitResult struct {
	Order        *order.Order  `json:"order,omitempty"`
	Redirect     string        `json:"redirect,omitempty"`
	Delay        time.Duration `json:"-"`
	RequiresAuth bool          `json:"requiresAuth,omitempty"`
}

// Workflow drives the Cart -> Details -> Payment -> Review -> Success state
// machine over the cart engine and order service.
type Workflow struct {
	Orders        *order.Service
	Validate      *validator.Validate
	Log           zerolog.Logger
	RedirectDelay time.Duration

	mu      sync.Mutex
	session Session
}

// NewWorkflow constructs a workflow positioned at the cart step with the
// default shipping method.
func NewWorkflow(orders *order.Service, validate *validator.Validate, log zerolog.Logger, redirectDelay time.Duration) *Workflow {
	if validate == nil {
		validate = validator.New()
	}
	if redirectDelay <= 0 {
		redirectDelay = 1500 * time.Millisecond
	}
	return &Workflow{
		Orders:        orders,
		Validate:      validate,
		Log:           log,
		RedirectDelay: redirectDelay,
		session:       Session{Step: StepCart, ShippingMethod: pricing.Standard},
	}
}

// Session returns a copy of the current checkout session.
func (w *Workflow) Session() Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

// Reset abandons the checkout, clearing the transient session. The cart is
// untouched.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = Session{Step: StepCart, ShippingMethod: pricing.Standard}
}

// Back moves one step backward. Backward navigation is never gated.
func (w *Workflow) Back() Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Step > StepCart && w.session.Step < StepSuccess {
		w.session.Step--
	}
	return w.session
}

// ToDetails advances from the cart step; it requires at least one cart item.
func (w *Workflow) ToDetails() error {
	if w.Orders == nil || w.Orders.Cart == nil || w.Orders.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Step != StepCart {
		return ErrWrongStep
	}
	w.session.Step = StepDetails
	return nil
}

// SetDetails stores the destination and advances to payment. Whitespace-only
// values are rejected and the step does not transition.
func (w *Workflow) SetDetails(d Details) error {
	d.DestinationCity = strings.TrimSpace(d.DestinationCity)
	d.DestinationAddress = strings.TrimSpace(d.DestinationAddress)
	if err := w.Validate.Struct(d); err != nil {
		return ErrMissingDetails
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Step != StepDetails {
		return ErrWrongStep
	}
	w.session.DestinationCity = d.DestinationCity
	w.session.DestinationAddress = d.DestinationAddress
	w.session.Step = StepPayment
	return nil
}

// SetShipping selects the shipping method and advances to review. An empty
// method keeps the default.
func (w *Workflow) SetShipping(method pricing.ShippingMethod) error {
	if method == "" {
		method = pricing.Standard
	}
	if !method.Valid() {
		return ErrInvalidMethod
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.session.Step != StepPayment {
		return ErrWrongStep
	}
	w.session.ShippingMethod = method
	w.session.Step = StepReview
	return nil
}

// Totals derives the live pricing preview for the current cart and shipping
// method. Cart lines that no longer resolve against the catalog are excluded.
func (w *Workflow) Totals() pricing.Totals {
	w.mu.Lock()
	method := w.session.ShippingMethod
	w.mu.Unlock()

	var items []pricing.Item
	if w.Orders != nil && w.Orders.Cart != nil && w.Orders.Catalog != nil {
		for _, line := range w.Orders.Cart.Lines() {
			p, ok := w.Orders.Catalog.Product(line.ProductID)
			if !ok {
				continue
			}
			items = append(items, pricing.Item{Qty: line.Qty, UnitPrice: p.Price})
		}
	}
	return pricing.Compute(items, method)
}

// Submit runs the review-step submission. An unauthenticated user is redirected
// to login with cart and session preserved. Processing gates double submits and
// is cleared exactly once per attempt regardless of outcome.
func (w *Workflow) Submit(ctx context.Context, user common.User, authenticated bool) (SubmitResult, error) {
	if !authenticated {
		return SubmitResult{Redirect: RouteLogin, RequiresAuth: true}, nil
	}

	w.mu.Lock()
	if w.session.Step != StepReview {
		w.mu.Unlock()
		return SubmitResult{}, ErrWrongStep
	}
	if w.session.Processing {
		w.mu.Unlock()
		return SubmitResult{}, ErrProcessing
	}
	w.session.Processing = true
	w.session.Error = ""
	city := w.session.DestinationCity
	address := w.session.DestinationAddress
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.session.Processing = false
		w.mu.Unlock()
	}()

	placed, err := w.Orders.SubmitServer(ctx, city, address, user.Name)
	if err != nil {
		w.mu.Lock()
		w.session.Error = err.Error()
		w.mu.Unlock()
		return SubmitResult{}, err
	}

	w.mu.Lock()
	w.session.OrderSuccess = true
	w.session.Step = StepSuccess
	w.mu.Unlock()

	return SubmitResult{
		Order:    &placed,
		Redirect: RouteForRole(user.Role),
		Delay:    w.RedirectDelay,
	}, nil
}
