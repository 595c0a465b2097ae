// Package metrics holds the process-wide Prometheus collectors. They are
// registered on the default registry at init and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts completed requests. route is the chi route
	// pattern (e.g. /api/snippets/{id}), never the raw path, to keep
	// cardinality bounded.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snippets_http_requests_total",
		Help: "Total HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snippets_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	SnippetsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snippets_created_total",
		Help: "Snippets successfully stored, by visibility.",
	}, []string{"visibility"})

	// AccessDeniedTotal counts reads of a private snippet refused by the
	// access policy.
	AccessDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snippets_access_denied_total",
		Help: "Fetches refused because the snippet is private to another user.",
	})

	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snippets_users_registered_total",
		Help: "Accounts successfully registered.",
	})

	// LoginAttempts records login attempts by result (success|failure).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snippets_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)
