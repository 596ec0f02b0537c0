package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_events_published_total",
			Help: "Storefront events written to Kafka, by topic and result",
		},
		[]string{"topic", "result"},
	)

	publishLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_event_publish_duration_seconds",
			Help:    "Time spent writing one storefront event to Kafka",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"topic"},
	)
)

func observePublish(topic string, start time.Time, err error) {
	publishLatency.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	result := resultOK
	if err != nil {
		result = resultError
	}
	eventsPublished.WithLabelValues(topic, result).Inc()
}
