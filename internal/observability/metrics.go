package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate for the console itself. Watch for: sudden drops
	// (console down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// Console request latency. Watch for: p95/p99 increases.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent console requests in flight. Watch for: saturation.
	HTTPRequestsInFlight prometheus.Gauge

	// Remote weather-service call rate by endpoint. Watch for: error vs
	// success ratio per endpoint.
	UpstreamCallsTotal *prometheus.CounterVec

	// Remote weather-service latency. Watch for: p95 > 2s (upstream
	// degradation), p99 approaching the client timeout.
	UpstreamDuration *prometheus.HistogramVec

	// Weather lookups submitted through the form. Watch for: traffic
	// volume, rate() for QPS.
	WeatherLookupsTotal prometheus.Counter

	// History pages fetched, by trigger (initial, more, refresh).
	HistoryPagesTotal *prometheus.CounterVec

	// Sign-in/sign-up attempts by action and outcome.
	AuthAttemptsTotal *prometheus.CounterVec

	// Sessions cleared, by reason (logout, unauthorized). A rising
	// unauthorized count means tokens are expiring under users.
	SessionClearsTotal *prometheus.CounterVec

	// Auth form posts denied by the rate limiter (429).
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	UpstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstreamCallsTotal",
			Help: "Total number of remote weather-service API calls",
		},
		[]string{"endpoint", "status"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstreamDurationSeconds",
			Help:    "Remote weather-service latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "status"},
	)
	WeatherLookupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherLookupsTotal",
			Help: "Total number of weather lookups submitted",
		},
	)
	HistoryPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "historyPagesTotal",
			Help: "History pages fetched, by trigger",
		},
		[]string{"trigger"},
	)
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authAttemptsTotal",
			Help: "Sign-in and sign-up attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)
	SessionClearsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessionClearsTotal",
			Help: "Sessions cleared, by reason",
		},
		[]string{"reason"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		UpstreamCallsTotal, UpstreamDuration,
		WeatherLookupsTotal, HistoryPagesTotal,
		AuthAttemptsTotal, SessionClearsTotal,
		RateLimitDeniedTotal,
	)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
