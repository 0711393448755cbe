package coredb

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/yaml"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// metricsQueriesKey is the ConfigMap key the CNPG monitoring section
// mounts into postgres-exporter.
const metricsQueriesKey = "coredb-queries"

// reconcileMetricsConfigMap applies the ConfigMap carrying the
// user-defined exporter queries. Without queries there is nothing to
// mount and the step is a no-op; the Cluster builder drops the
// monitoring reference in the same case, so a stale ConfigMap is
// harmless.
func (r *CoreDBReconciler) reconcileMetricsConfigMap(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	if db.Spec.Metrics == nil || len(db.Spec.Metrics.Queries) == 0 {
		return nil
	}

	queries, err := yaml.Marshal(db.Spec.Metrics.Queries)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics queries: %w", err)
	}

	configMap := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.MetricsConfigMap(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Data: map[string]string{
			metricsQueriesKey: string(queries),
		},
	}
	if err := controllerutil.SetControllerReference(db, configMap, r.Scheme); err != nil {
		return fmt.Errorf("failed to set owner on metrics configmap: %w", err)
	}
	err = r.applyChild(ctx, configMap, corev1.SchemeGroupVersion.WithKind("ConfigMap"))
	if err != nil {
		return fmt.Errorf("failed to apply metrics configmap: %w", err)
	}
	return nil
}
