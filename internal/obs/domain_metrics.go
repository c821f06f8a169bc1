package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts placed orders by placement mode.
	OrdersPlacedTotal *prometheus.CounterVec
	// OrderSubmitFailures counts failed remote order submissions.
	OrderSubmitFailures prometheus.Counter
	// CatalogFetchFailures counts failed catalog refreshes from the products service.
	CatalogFetchFailures prometheus.Counter
	// NotificationsEmitted counts notifications appended to the sink.
	NotificationsEmitted *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of placed orders by placement mode.",
		}, []string{"mode"})
		OrderSubmitFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_submit_failures_total",
			Help:      "Count of remote order submissions that failed.",
		})
		CatalogFetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_failures_total",
			Help:      "Count of catalog fetches that fell back to previously loaded data.",
		})
		NotificationsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Count of notifications appended to the sink by type.",
		}, []string{"type"})
		reg.MustRegister(OrdersPlacedTotal, OrderSubmitFailures, CatalogFetchFailures, NotificationsEmitted)
	})
}
