package webhook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// outcomeOK labels successful round trips; failures use their Kind.
const outcomeOK = "ok"

var (
	// webhookCalls counts outbound calls by outcome (ok|timeout|upstream|response).
	webhookCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of calls to the correction webhook.",
		},
		[]string{"outcome"},
	)

	// webhookLat records wall-clock duration of outbound calls in seconds.
	webhookLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_request_duration_seconds",
			Help:    "Duration of calls to the correction webhook in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(webhookCalls, webhookLat)
}

func observe(outcome string, started time.Time) {
	webhookCalls.WithLabelValues(outcome).Inc()
	webhookLat.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}
