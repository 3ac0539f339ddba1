// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	OrdersCreated      prometheus.Counter
	OrderStatusUpdates *prometheus.CounterVec
}

// New registers the collectors on the given registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flavorfi_http_requests_total",
			Help: "HTTP requests processed, by method, route pattern and status code.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flavorfi_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "flavorfi_orders_created_total",
			Help: "Orders successfully created.",
		}),
		OrderStatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flavorfi_order_status_updates_total",
			Help: "Order status transitions, by target status.",
		}, []string{"status"}),
	}
}
