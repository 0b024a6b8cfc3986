package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "bridge_reactor"

var (
	ReconcilePasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "reconcile_passes_total",
		Help:      "Reconciliation passes by outcome.",
	}, []string{"outcome"})

	ReconcileUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "reconcile_updates_total",
		Help:      "Bridge transactions updated by reconciliation, by origin chain and new status.",
	}, []string{"origin_chain", "status"})

	OracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "oracle_requests_total",
		Help:      "Oracle requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	BridgingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "bridging_requests_total",
		Help:      "Bridging transaction requests by origin chain and outcome.",
	}, []string{"origin_chain", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency by route and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)
