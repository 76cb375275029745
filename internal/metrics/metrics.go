// Package metrics defines Prometheus metrics for clicklar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clicklar"

// API client metrics.
var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_client_requests_total",
		Help:      "Total number of requests sent to the marketplace API.",
	}, []string{"method", "route", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_client_request_duration_seconds",
		Help:      "Duration of marketplace API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Browse controller metrics.
var (
	BrowseFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browse_fetches_total",
		Help:      "Total number of listing fetches issued by browse controllers.",
	})

	BrowseStaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browse_stale_responses_total",
		Help:      "Total number of listing responses discarded because a newer fetch was issued.",
	})

	BrowseFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browse_fetch_errors_total",
		Help:      "Total number of authoritative listing fetches that failed.",
	})
)

// Notification metrics.
var (
	NotificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of user-facing notifications emitted.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notifications that could not be delivered.",
	})
)

// Dev API server metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last /healthz probe succeeded (1) or not (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last /readyz probe succeeded (1) or not (0).",
	})

	RegisteredUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "devapi_users",
		Help:      "Number of users held by the development API store.",
	})

	PublishedServices = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "devapi_services",
		Help:      "Number of service listings held by the development API store.",
	})
)
