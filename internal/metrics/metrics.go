// Package metrics provides the centralized Prometheus metrics registry for
// the rating service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScoresAppliedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "football_elo",
		Name:      "scores_applied_total",
		Help:      "Total number of scoring events applied",
	})
	PredictionsRegeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "football_elo",
		Name:      "predictions_regenerated_total",
		Help:      "Total number of prediction rows written by regeneration runs",
	})
	RegenerationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "football_elo",
		Name:      "regeneration_failures_total",
		Help:      "Total number of prediction regeneration failures after a committed score update",
	})
	WebhookDeliveriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "football_elo",
		Name:      "webhook_deliveries_total",
		Help:      "Total number of score update webhooks delivered",
	})
	WebhookFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "football_elo",
		Name:      "webhook_failures_total",
		Help:      "Total number of score update webhook delivery failures",
	})
)

// Gauge metrics
var (
	TeamsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "football_elo",
		Name:      "teams_tracked",
		Help:      "Number of teams with a current rating",
	})
	PendingMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "football_elo",
		Name:      "pending_matches",
		Help:      "Number of matches awaiting a final score",
	})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "football_elo",
		Name:      "websocket_clients",
		Help:      "Number of connected live-update clients",
	})
)

// Histogram metrics
var (
	ReplayDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "football_elo",
		Name:      "replay_duration_seconds",
		Help:      "Duration of full history replays",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "football_elo",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Registry returns the global metrics registry, registering all metrics on
// first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			ScoresAppliedTotal,
			PredictionsRegeneratedTotal,
			RegenerationFailuresTotal,
			WebhookDeliveriesTotal,
			WebhookFailuresTotal,
			TeamsTracked,
			PendingMatches,
			WebsocketClients,
			ReplayDurationSeconds,
			HTTPRequestDuration,
		)
	})
	return registry
}

// Handler returns an http.Handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
