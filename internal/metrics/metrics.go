package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts Noves and asset-host calls by endpoint and outcome
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txpreview_upstream_requests_total",
			Help: "Total number of upstream requests",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "txpreview_upstream_latency_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Fallbacks counts default substitutions by kind (summary, icon, chains, background)
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txpreview_fallbacks_total",
			Help: "Total number of default values substituted for failed fetches",
		},
		[]string{"kind"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "txpreview_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"result"},
	)

	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "txpreview_render_duration_seconds",
			Help:    "Time spent drawing and encoding preview images",
			Buckets: prometheus.DefBuckets,
		},
	)
)
