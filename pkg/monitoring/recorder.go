package monitoring

import "time"

// SetInstanceInfo sets the info-style gauge for a CoreDB instance.
// Old state labels are automatically cleaned up via DeletePartialMatch.
func SetInstanceInfo(name, namespace, state string) {
	instanceInfo.DeletePartialMatch(map[string]string{
		"name":      name,
		"namespace": namespace,
	})
	instanceInfo.WithLabelValues(name, namespace, state).Set(1)
}

// SetInstanceReplicas sets the desired and ready Postgres replica gauges
// for a CoreDB instance.
func SetInstanceReplicas(name, namespace string, desired, ready int32) {
	instanceReplicas.WithLabelValues(name, namespace, "desired").Set(float64(desired))
	instanceReplicas.WithLabelValues(name, namespace, "ready").Set(float64(ready))
}

// RecordReconcileFailure counts a reconcile failure attributed to one
// pipeline step, e.g. "secret" or "network_policy".
func RecordReconcileFailure(name, namespace, step string) {
	reconcileFailuresTotal.WithLabelValues(name, namespace, step).Inc()
}

// RecordExtensionChange counts an extension change attempt. The action is
// one of "install", "enable" or "disable".
func RecordExtensionChange(action string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	extensionChangesTotal.WithLabelValues(action, result).Inc()
}

// RecordHibernationTransition counts a hibernation flip to the given
// target state, "stopped" or "running".
func RecordHibernationTransition(name, namespace, to string) {
	hibernationTransitionsTotal.WithLabelValues(name, namespace, to).Inc()
}

// RecordWebhookRequest records a webhook admission request's result and duration.
func RecordWebhookRequest(operation, resource string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	webhookRequestTotal.WithLabelValues(operation, resource, result).Inc()
	webhookRequestDuration.WithLabelValues(operation, resource).Observe(duration.Seconds())
}

// DeleteInstanceMetrics drops all per-instance series for a CoreDB that
// is being deleted so stale gauges do not outlive the resource.
func DeleteInstanceMetrics(name, namespace string) {
	labels := map[string]string{
		"name":      name,
		"namespace": namespace,
	}
	instanceInfo.DeletePartialMatch(labels)
	instanceReplicas.DeletePartialMatch(labels)
	reconcileFailuresTotal.DeletePartialMatch(labels)
	hibernationTransitionsTotal.DeletePartialMatch(labels)
}
