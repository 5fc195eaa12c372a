package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	producerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadeedcart",
			Name:      "kafka_producer_messages_total",
			Help:      "Messages handed to Kafka, by topic and result",
		},
		[]string{"topic", "result"},
	)

	producerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hadeedcart",
			Name:      "kafka_producer_write_duration_seconds",
			Help:      "Time spent in WriteMessages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)
