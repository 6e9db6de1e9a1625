// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConsultOutcomes cuenta las respuestas del consultor por resultado.
	ConsultOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbti_consult_outcomes_total",
		Help: "Consultant replies by outcome",
	}, []string{"outcome"})

	// ConsultLatency mide la duración de la llamada de generación.
	ConsultLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mbti_consult_generation_seconds",
		Help:    "Latency of the external generation call in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})

	// ConsultRejected cuenta envíos ignorados (vacíos, ocupados o limitados).
	ConsultRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbti_consult_rejected_total",
		Help: "Consultant submissions rejected before any generation call",
	}, []string{"reason"})

	ActiveConversations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mbti_active_conversations",
		Help: "Conversations currently held in memory",
	})

	FeedPosts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mbti_feed_posts",
		Help: "Posts currently held in the feed",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbti_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mbti_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveHTTP registra una request ya atendida.
func ObserveHTTP(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// Handler devuelve el handler de exposición de Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
