package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_events_published_total",
		Help: "Total number of events published to the garage-events exchange",
	}, []string{"routing_key"})

	EventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_events_consumed_total",
		Help: "Total number of events consumed, by queue and outcome",
	}, []string{"queue", "outcome"})

	BrokerReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_broker_reconnects_total",
		Help: "Total number of broker reconnect attempts",
	})

	QuotesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_quotes_created_total",
		Help: "Total number of quotes created",
	})

	QuotesApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_quotes_approved_total",
		Help: "Total number of quotes approved",
	})

	PaymentsApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_payments_approved_total",
		Help: "Total number of payments approved",
	})

	PaymentsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_payments_rejected_total",
		Help: "Total number of payments rejected",
	})

	SagaCompensationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_saga_compensations_total",
		Help: "Total number of compensating events emitted by the saga router",
	}, []string{"event"})

	GatewayCallLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "billing_gateway_call_latency_seconds",
		Help:    "Latency of payment gateway calls",
		Buckets: prometheus.DefBuckets,
	})
)
