// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userhub"

// BackendRequestsTotal counts REST calls to the backend.
// Labels:
//   - method: HTTP method
//   - endpoint: path with numeric ids replaced by {id}
//   - outcome: status code, "unauthenticated" or "network_error"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of backend REST calls, by method, endpoint and outcome.",
	},
	[]string{"method", "endpoint", "outcome"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend REST calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "endpoint"},
)

// SessionsExpiredTotal counts sessions torn down because the backend answered 401.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions cleared after a 401 from the backend.",
	},
)

// DeletesCoalescedTotal counts delete requests that joined an in-flight delete for the same target.
// Label:
//   - kind: "user" or "role"
var DeletesCoalescedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletes_coalesced_total",
		Help:      "Total number of duplicate delete requests served by an in-flight call.",
	},
	[]string{"kind"},
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// Endpoint collapses numeric path segments so label cardinality stays bounded.
func Endpoint(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}
