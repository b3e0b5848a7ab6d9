// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodlog_http_requests_total",
		Help: "Total HTTP requests by route pattern, method and status class",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodlog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodlog_uploads_total",
		Help: "Image uploads by bucket and result",
	}, []string{"bucket", "result"})

	ImageResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodlog_image_resolutions_total",
		Help: "Image reference resolutions by kind (placeholder, absolute, public, signed, failed)",
	}, []string{"kind"})

	FoodMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodlog_food_mutations_total",
		Help: "Food entry writes by operation",
	}, []string{"op"})

	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodlog_feed_connections",
		Help: "Open change feed websocket connections",
	})

	FeedDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodlog_feed_coalesced_total",
		Help: "Change notifications merged into an already pending one",
	})
)
