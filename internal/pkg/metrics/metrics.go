// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifeo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifeo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	donationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifeo",
			Subsystem: "donation_requests",
			Name:      "transitions_total",
			Help:      "Donation request status changes by target status and result.",
		},
		[]string{"to", "result"},
	)

	fundingConfirmations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifeo",
			Subsystem: "funding",
			Name:      "confirmations_total",
			Help:      "Payment confirmation calls by outcome.",
		},
		[]string{"outcome"},
	)
)

// Confirmation outcomes
const (
	OutcomeRecorded   = "recorded"
	OutcomeReplayed   = "replayed"
	OutcomeIncomplete = "incomplete"
	OutcomeFailed     = "failed"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		donationTransitions,
		fundingConfirmations,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransition records a donation status change attempt
func RecordTransition(to string, ok bool) {
	result := "applied"
	if !ok {
		result = "rejected"
	}
	donationTransitions.WithLabelValues(to, result).Inc()
}

// RecordConfirmation records the outcome of a payment confirmation
func RecordConfirmation(outcome string) {
	fundingConfirmations.WithLabelValues(outcome).Inc()
}
