// Package metrics defines and registers all custom Prometheus metrics for the
// QuoteMate gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry through promauto when the
// package is imported.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quotemate"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected", "unavailable" or "invalid"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts session initialisations.
// Label:
//   - outcome: "anonymous", "restored" or "corrupted"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restores from storage, by outcome.",
	},
	[]string{"outcome"},
)

// GuardDecisionsTotal counts route guard evaluations.
// Labels:
//   - guard: "auth", "role" or "navigate"
//   - decision: "allow", "redirect" or "pending"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "decision"},
)

// RejectedSubmissionsTotal counts requests turned away before reaching a handler.
// Labels:
//   - form: the form or route group
//   - reason: "rate_limited" or "in_flight"
var RejectedSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_submissions_total",
		Help:      "Total number of submissions rejected by rate limiting or the in-flight guard.",
	},
	[]string{"form", "reason"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the remote backend.
// Labels:
//   - endpoint: the backend path template (e.g. "/auth/login")
//   - code: HTTP status, or "0" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the QuoteMate backend.",
	},
	[]string{"endpoint", "code"},
)

var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of requests sent to the QuoteMate backend.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"endpoint"},
)

// ObserveBackend records one completed backend request.
func ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ── Call metrics ──────────────────────────────────────────────────────────────

// CallsTotal counts outbound call requests.
// Label:
//   - backend_ok: "true" when the backend accepted the call
var CallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_total",
		Help:      "Total number of outbound RFQ call requests.",
	},
	[]string{"backend_ok"},
)

// CallLogDroppedTotal counts call records dropped because the log queue was full.
var CallLogDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_log_dropped_total",
		Help:      "Total number of call records dropped before persistence.",
	},
)
