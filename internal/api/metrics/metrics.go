// Package metrics defines and registers all custom Prometheus metrics for
// the thesis portal. It is the single source of truth for metric names,
// labels, and help strings; everything registers against the default
// registry via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "thesis_portal"

// Guard outcome label values.
const (
	OutcomeAllowed       = "allowed"
	OutcomeLoginRedirect = "login_redirect"
	OutcomeHomeRedirect  = "home_redirect"
	OutcomeDenied        = "denied"
)

// GuardDecisionsTotal counts route-guard evaluations.
// Labels:
//   - outcome: allowed, login_redirect, home_redirect, denied
//   - family: the guarded route family (admin, lecturer, student, profile)
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome and route family.",
	},
	[]string{"outcome", "family"},
)

// LoginsTotal counts login attempts against the thesis API.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UpstreamRequestsTotal counts calls to the thesis API.
// Labels:
//   - endpoint: the logical upstream endpoint (e.g. "/thesis/register-topic")
//   - status: the HTTP status class returned ("2xx", "4xx", "5xx", "error")
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the thesis API, by endpoint and status class.",
	},
	[]string{"endpoint", "status"},
)

// UpstreamRequestDuration measures thesis API call latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of thesis API calls from request to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)
