// Package metrics defines the Prometheus metrics for the client core. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics register against the default registry at import time; the stub
// server exposes them on /metrics, and headless deployments can do the same.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "elomind_client"

// RequestsTotal counts outgoing API requests.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "api_error" or "transport_error"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests issued, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// AuthFailuresTotal counts responses classified as session-ending.
// Label:
//   - kind: "auth_expired" or "account_inactive"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of session-ending auth failures, by kind.",
	},
	[]string{"kind"},
)

// ForcedLogoutsTotal counts forced logout sequences actually executed.
// Concurrent failures collapsing into one sequence increment this once.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of forced logout sequences executed.",
	},
)

// FallbackTotal counts legacy-route fallbacks.
// Labels:
//   - route: the primary path pattern
//   - result: "hit" (legacy succeeded) or "miss" (legacy failed too)
var FallbackTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_fallback_total",
		Help:      "Total number of legacy-route fallback attempts, by result.",
	},
	[]string{"route", "result"},
)

// RequestDuration measures wall time per request, successful or not.
// Label:
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
