// Package metrics holds the Prometheus collectors for the storefront
// service. Collectors register on the default registry; the server
// exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartOperations counts cart mutations by operation and result.
	CartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations by operation and result.",
	}, []string{"operation", "result"})

	// OrdersPlaced counts successfully committed orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders committed successfully.",
	})

	// CheckoutFailures counts failed checkouts by reason.
	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_failures_total",
		Help: "Failed checkout attempts by reason.",
	}, []string{"reason"})

	// CheckoutDuration observes the time spent committing an order.
	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_duration_seconds",
		Help:    "Duration of the cart-to-order commit.",
		Buckets: prometheus.DefBuckets,
	})
)
