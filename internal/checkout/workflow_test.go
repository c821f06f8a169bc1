package checkout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shopfront/internal/cart"
	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/checkout"
	"github.com/noah-isme/shopfront/internal/common"
	"github.com/noah-isme/shopfront/internal/notify"
	"github.com/noah-isme/shopfront/internal/order"
	"github.com/noah-isme/shopfront/internal/pricing"
	"github.com/noah-isme/shopfront/internal/resilience"
)

type staticCatalog map[string]catalog.Product

func (c staticCatalog) Product(id string) (catalog.Product, bool) {
	p, ok := c[id]
	return p, ok
}

type fixture struct {
	workflow *checkout.Workflow
	engine   *cart.Engine
	svc      *order.Service
	calls    *int32
}

func newFixture(t *testing.T, products staticCatalog, handler http.HandlerFunc) fixture {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "srv-1", "status": "confirmed"})
	}))
	t.Cleanup(srv.Close)

	engine := cart.NewEngine()
	svc := &order.Service{
		Cart:    engine,
		Catalog: products,
		Gateway: order.Gateway{BaseURL: srv.URL, HTTP: resilience.Client{HTTP: srv.Client(), MaxAttempts: 1}},
		History: order.NewHistory(),
		Sink:    notify.NewSink(nil),
		Log:     zerolog.Nop(),
	}
	wf := checkout.NewWorkflow(svc, nil, zerolog.Nop(), 2*time.Second)
	return fixture{workflow: wf, engine: engine, svc: svc, calls: &calls}
}

func advanceToReview(t *testing.T, f fixture) {
	t.Helper()
	require.NoError(t, f.workflow.ToDetails())
	require.NoError(t, f.workflow.SetDetails(checkout.Details{DestinationCity: "Berlin", DestinationAddress: "Main St 1"}))
	require.NoError(t, f.workflow.SetShipping(pricing.Express))
}

func TestCartGateRequiresItems(t *testing.T) {
	f := newFixture(t, staticCatalog{}, nil)
	require.ErrorIs(t, f.workflow.ToDetails(), checkout.ErrEmptyCart)
	require.Equal(t, checkout.StepCart, f.workflow.Session().Step)
}

func TestDetailsGateRejectsBlankAddress(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 1)
	require.NoError(t, f.workflow.ToDetails())

	err := f.workflow.SetDetails(checkout.Details{DestinationCity: "Berlin", DestinationAddress: "   "})
	require.ErrorIs(t, err, checkout.ErrMissingDetails)
	require.Equal(t, checkout.StepDetails, f.workflow.Session().Step)
	require.Zero(t, atomic.LoadInt32(f.calls))
}

func TestHappyPathThroughSteps(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 2)
	advanceToReview(t, f)

	session := f.workflow.Session()
	require.Equal(t, checkout.StepReview, session.Step)
	require.Equal(t, pricing.Express, session.ShippingMethod)
	require.Equal(t, "Berlin", session.DestinationCity)
}

func TestShippingDefaultsToStandard(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 1)
	require.NoError(t, f.workflow.ToDetails())
	require.NoError(t, f.workflow.SetDetails(checkout.Details{DestinationCity: "Berlin", DestinationAddress: "Main St 1"}))
	require.NoError(t, f.workflow.SetShipping(""))
	require.Equal(t, pricing.Standard, f.workflow.Session().ShippingMethod)
}

func TestBackNavigationIsFree(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 1)
	advanceToReview(t, f)

	require.Equal(t, checkout.StepPayment, f.workflow.Back().Step)
	require.Equal(t, checkout.StepDetails, f.workflow.Back().Step)
	require.Equal(t, checkout.StepCart, f.workflow.Back().Step)
	require.Equal(t, checkout.StepCart, f.workflow.Back().Step)
}

func TestTotalsExcludeUnresolvableLines(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 3)
	f.engine.Add("ghost", 9)

	totals := f.workflow.Totals()
	require.Equal(t, 30.0, totals.Subtotal)
	require.Equal(t, 15.0, totals.Shipping)
}

func TestSubmitUnauthenticatedRedirectsAndPreservesState(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}, "p2": {ID: "p2", Price: 5}}, nil)
	f.engine.Add("p1", 1)
	f.engine.Add("p2", 1)
	advanceToReview(t, f)

	res, err := f.workflow.Submit(context.Background(), common.User{}, false)
	require.NoError(t, err)
	require.True(t, res.RequiresAuth)
	require.Equal(t, checkout.RouteLogin, res.Redirect)

	// cart keeps its two items, session stays on review
	require.Equal(t, 2, f.engine.Len())
	require.Equal(t, checkout.StepReview, f.workflow.Session().Step)
	require.Zero(t, atomic.LoadInt32(f.calls))
}

func TestSubmitSuccessRedirectsByRole(t *testing.T) {
	cases := []struct {
		role     string
		redirect string
	}{
		{common.RoleCustomer, checkout.RouteCustomer},
		{common.RoleAdmin, checkout.RouteEmployee},
		{common.RoleDriver, checkout.RouteEmployee},
		{common.RoleAssistant, checkout.RouteEmployee},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
			f.engine.Add("p1", 1)
			advanceToReview(t, f)

			res, err := f.workflow.Submit(context.Background(), common.User{ID: "u1", Name: "Alice", Role: tc.role}, true)
			require.NoError(t, err)
			require.Equal(t, tc.redirect, res.Redirect)
			require.Equal(t, 2*time.Second, res.Delay)
			require.NotNil(t, res.Order)

			session := f.workflow.Session()
			require.True(t, session.OrderSuccess)
			require.False(t, session.Processing)
			require.Equal(t, checkout.StepSuccess, session.Step)
			require.True(t, f.engine.IsEmpty())
		})
	}
}

func TestSubmitFailureKeepsCartAndRecordsError(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "payment declined"})
	})
	f.engine.Add("p1", 1)
	advanceToReview(t, f)

	_, err := f.workflow.Submit(context.Background(), common.User{Name: "Alice", Role: common.RoleCustomer}, true)
	require.Error(t, err)

	session := f.workflow.Session()
	require.Contains(t, session.Error, "payment declined")
	require.False(t, session.Processing)
	require.False(t, session.OrderSuccess)
	require.Equal(t, checkout.StepReview, session.Step)
	require.Equal(t, 1, f.engine.Len())
}

func TestSubmitRefusedWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "srv-1"})
	})
	f.engine.Add("p1", 1)
	advanceToReview(t, f)

	done := make(chan error, 1)
	go func() {
		_, err := f.workflow.Submit(context.Background(), common.User{Name: "Alice", Role: common.RoleCustomer}, true)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return f.workflow.Session().Processing
	}, time.Second, 5*time.Millisecond)

	_, err := f.workflow.Submit(context.Background(), common.User{Name: "Alice", Role: common.RoleCustomer}, true)
	require.ErrorIs(t, err, checkout.ErrProcessing)

	close(release)
	require.NoError(t, <-done)
	require.False(t, f.workflow.Session().Processing)
}

func TestResetAbandonsSession(t *testing.T) {
	f := newFixture(t, staticCatalog{"p1": {ID: "p1", Price: 10}}, nil)
	f.engine.Add("p1", 1)
	advanceToReview(t, f)

	f.workflow.Reset()
	session := f.workflow.Session()
	require.Equal(t, checkout.StepCart, session.Step)
	require.Empty(t, session.DestinationCity)
	require.Equal(t, pricing.Standard, session.ShippingMethod)
	// abandoning checkout never clears the cart
	require.Equal(t, 1, f.engine.Len())
}

func TestRouteForRoleTable(t *testing.T) {
	require.Equal(t, "/customer", checkout.RouteForRole("customer"))
	require.Equal(t, "/employee", checkout.RouteForRole("admin"))
	require.Equal(t, "/employee", checkout.RouteForRole("driver"))
	require.Equal(t, "/employee", checkout.RouteForRole("assistant"))
	require.Equal(t, "/login", checkout.RouteForRole(""))
	require.Equal(t, "/login", checkout.RouteForRole("intern"))
}
