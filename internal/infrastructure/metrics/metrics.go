// Package metrics defines the Prometheus collectors exposed on /metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts requests by route template, method and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by path, method and status"},
		[]string{"path", "method", "status"},
	)
	// HTTPLatency observes request duration by route template and method
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	TransactionsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "card_transactions_saved_total", Help: "Transactions stored"},
	)
	TransactionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "card_transactions_rejected_total", Help: "Rejected transaction requests by reason"},
		[]string{"reason"},
	)
)

// Rejection reasons that do not come from a data inconsistency
const (
	ReasonValidation = "validation"
	ReasonInternal   = "internal"
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, TransactionsSaved, TransactionsRejected)
}

// Exposer returns the standard Prometheus exposition handler
func Exposer() http.Handler {
	return promhttp.Handler()
}
