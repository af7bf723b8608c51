package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_processed_total",
			Help:      "Total number of successfully persisted orders",
		},
	)

	ordersFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_failed_total",
			Help:      "Total number of failed order persistence attempts",
		},
	)

	ordersDLQ = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "orders_dlq_total",
			Help:      "Total number of orders written to DLQ",
		},
	)

	commitErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)

	orderProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "checkout_service",
			Subsystem: "kafka_consumer",
			Name:      "order_processing_duration_seconds",
			Help:      "Histogram of order persistence durations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ordersDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "checkout_service",
			Subsystem: "http",
			Name:      "orders_dispatched_total",
			Help:      "Total number of orders dispatched to WhatsApp",
		},
	)
)
