package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Domain-specific metric collectors.
//
// These complement the generic controller-runtime metrics (reconcile counts,
// durations, work queue depth, etc.) with operator-specific state that the
// framework cannot know about.
var (
	instanceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coredb_operator_instance_info",
			Help: "Info-style metric for CoreDB discovery and state tracking. Always 1.",
		},
		[]string{"name", "namespace", "state"},
	)

	instanceReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coredb_operator_instance_replicas",
			Help: "Postgres replica counts for a CoreDB instance.",
		},
		[]string{"name", "namespace", "state"},
	)

	reconcileFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredb_operator_reconcile_failures_total",
			Help: "Total number of reconcile failures per CoreDB and pipeline step.",
		},
		[]string{"name", "namespace", "step"},
	)

	extensionChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredb_operator_extension_changes_total",
			Help: "Total number of Postgres extension changes by action and result.",
		},
		[]string{"action", "result"},
	)

	hibernationTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredb_operator_hibernation_transitions_total",
			Help: "Total number of CoreDB hibernation transitions.",
		},
		[]string{"name", "namespace", "to"},
	)

	webhookRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coredb_operator_webhook_request_total",
			Help: "Total number of webhook admission requests.",
		},
		[]string{"operation", "resource", "result"},
	)

	webhookRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coredb_operator_webhook_request_duration_seconds",
			Help:    "Latency of webhook admission handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "resource"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		instanceInfo,
		instanceReplicas,
		reconcileFailuresTotal,
		extensionChangesTotal,
		hibernationTransitionsTotal,
		webhookRequestTotal,
		webhookRequestDuration,
	)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		instanceInfo,
		instanceReplicas,
		reconcileFailuresTotal,
		extensionChangesTotal,
		hibernationTransitionsTotal,
		webhookRequestTotal,
		webhookRequestDuration,
	}
}
