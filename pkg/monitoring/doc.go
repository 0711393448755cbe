// Package monitoring provides Prometheus metrics, OpenTelemetry tracing
// and recording helpers for the CoreDB operator. It exposes
// domain-specific gauges and counters that complement the generic
// controller-runtime metrics already registered by the framework.
//
// All metrics follow the naming convention coredb_operator_<metric>_<unit>
// and are registered against controller-runtime's default Prometheus
// registry on import.
//
// Usage in controllers:
//
//	monitoring.SetInstanceInfo(cdb.Name, cdb.Namespace, "running")
//	monitoring.SetInstanceReplicas(cdb.Name, cdb.Namespace, desired, ready)
//
// Usage in webhooks:
//
//	monitoring.RecordWebhookRequest("CREATE", "CoreDB", err, elapsed)
//
// Tracing is a noop until InitTracing finds an OTLP endpoint in the
// standard OTEL_* environment. Trace context survives the admission to
// reconcile boundary through object annotations, see InjectTraceContext
// and ExtractTraceContext.
package monitoring
