package coredb

import (
	"context"
	"fmt"

	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	traefikv1alpha1 "github.com/coredb-io/coredb-operator/api/traefik/v1alpha1"
	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/monitoring"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// Annotations CloudNativePG reacts to. Hibernation tears the pods down
// while keeping the volumes; the reconciliation loop annotation stops
// CNPG from processing the cluster at all.
const (
	hibernationAnnotation   = "cnpg.io/hibernation"
	reconcileLoopAnnotation = "cnpg.io/reconciliationLoop"

	hibernationOn  = "on"
	hibernationOff = "off"
)

// isHibernated reports whether the Cluster is told to hibernate. The
// annotation flips before the pods are gone; clusterReportsHibernated
// is the completion signal.
func isHibernated(cluster *cnpgv1.Cluster) bool {
	return cluster.Annotations[hibernationAnnotation] == hibernationOn
}

func clusterReportsHibernated(cluster *cnpgv1.Cluster) bool {
	for _, cond := range cluster.Status.Conditions {
		if cond.Type == hibernationAnnotation {
			return cond.Status == metav1.ConditionTrue
		}
	}
	return false
}

// reconcileHibernation drives the instance and everything scaling with
// it toward spec.stop: app service replicas, the read-only route, the
// backup schedules, the pooler, and finally the cluster's hibernation
// annotation. While stopped the pass ends here on a jittered requeue,
// so the instance keeps being watched without burning through the rest
// of the reconcilers.
func (r *CoreDBReconciler) reconcileHibernation(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	cluster := &cnpgv1.Cluster{}
	err := r.Get(ctx, types.NamespacedName{Name: db.Name, Namespace: db.Namespace}, cluster)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch cluster: %w", err)
	}

	if err := r.scaleAppServiceDeployments(ctx, db); err != nil {
		return err
	}

	if db.Spec.Stop {
		route := &traefikv1alpha1.IngressRouteTCP{
			ObjectMeta: metav1.ObjectMeta{
				Name:      names.IndexedRoute(names.ReadOnlyRoutePrefix(db.Name), 0),
				Namespace: db.Namespace,
			},
		}
		if err := r.deleteIfFound(ctx, route); err != nil {
			return fmt.Errorf("failed to delete read-only route: %w", err)
		}
	}

	if err := r.syncScheduledBackupSuspension(ctx, db); err != nil {
		return err
	}
	if err := r.syncPoolerInstances(ctx, db); err != nil {
		return err
	}

	desired := hibernationOff
	if db.Spec.Stop {
		desired = hibernationOn
	}
	// CNPG reconciliation stays on until hibernation has completed;
	// freezing it earlier wedges the cluster mid-transition.
	loopValue := "enabled"
	if db.Spec.Stop && clusterReportsHibernated(cluster) {
		loopValue = "disabled"
	}

	previous, hadAnnotation := cluster.Annotations[hibernationAnnotation]

	patch := client.MergeFrom(cluster.DeepCopy())
	if cluster.Annotations == nil {
		cluster.Annotations = map[string]string{}
	}
	cluster.Annotations[hibernationAnnotation] = desired
	cluster.Annotations[reconcileLoopAnnotation] = loopValue
	if err := r.Patch(ctx, cluster, patch); err != nil {
		return fmt.Errorf("failed to patch hibernation annotations: %w", err)
	}

	if hadAnnotation && previous == desired {
		if db.Spec.Stop {
			if err := r.deleteStalledBackups(ctx, db); err != nil {
				return err
			}
			monitoring.SetInstanceInfo(db.Name, db.Namespace, "hibernated")
			logger.Info("Fully reconciled stopped instance")
			return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal), nil)
		}
		return nil
	}

	// Transition: the running flag and the postmaster time flip
	// together, in both directions.
	if err := r.patchStatusHibernation(ctx, db, !db.Spec.Stop); err != nil {
		return err
	}
	logger.Info("Toggled hibernation", "hibernation", desired)
	r.Recorder.Eventf(db, "Normal", eventReasonHibernation(db.Spec.Stop),
		"Hibernation turned %s", desired)
	monitoring.RecordHibernationTransition(db.Name, db.Namespace, desired)

	if db.Spec.Stop {
		return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal), nil)
	}
	return nil
}

func eventReasonHibernation(stop bool) string {
	if stop {
		return "Hibernated"
	}
	return "Woken"
}

// scaleAppServiceDeployments aligns every app service deployment with
// the hibernation state, touching only the ones that differ.
func (r *CoreDBReconciler) scaleAppServiceDeployments(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	replicas := int32(1)
	if db.Spec.Stop {
		replicas = 0
	}

	var deployments appsv1.DeploymentList
	err := r.List(ctx, &deployments,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.AppServiceSelector(db.Name)))
	if err != nil {
		return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal),
			fmt.Errorf("failed to list app service deployments: %w", err))
	}

	for i := range deployments.Items {
		deployment := &deployments.Items[i]
		if ptr.Deref(deployment.Spec.Replicas, 1) == replicas {
			continue
		}
		patch := client.MergeFrom(deployment.DeepCopy())
		deployment.Spec.Replicas = ptr.To(replicas)
		if err := r.Patch(ctx, deployment, patch); err != nil {
			return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal),
				fmt.Errorf("failed to scale deployment %s: %w", deployment.Name, err))
		}
	}
	return nil
}

// syncScheduledBackupSuspension suspends both backup schedules while
// stopped and resumes them on wake.
func (r *CoreDBReconciler) syncScheduledBackupSuspension(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	backupNames := []string{db.Name, names.SnapshotScheduledBackup(db.Name)}
	for _, name := range backupNames {
		backup := &cnpgv1.ScheduledBackup{}
		err := r.Get(ctx, types.NamespacedName{Name: name, Namespace: db.Namespace}, backup)
		if apierrors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch scheduled backup %s: %w", name, err)
		}
		if ptr.Deref(backup.Spec.Suspend, false) == db.Spec.Stop {
			continue
		}
		patch := client.MergeFrom(backup.DeepCopy())
		backup.Spec.Suspend = ptr.To(db.Spec.Stop)
		if err := r.Patch(ctx, backup, patch); err != nil {
			return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal),
				fmt.Errorf("failed to suspend scheduled backup %s: %w", name, err))
		}
	}
	return nil
}

// syncPoolerInstances scales the pooler with the hibernation state.
func (r *CoreDBReconciler) syncPoolerInstances(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	pooler := &cnpgv1.Pooler{}
	err := r.Get(ctx, types.NamespacedName{Name: names.Pooler(db.Name), Namespace: db.Namespace}, pooler)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch pooler: %w", err)
	}

	desired := int32(1)
	if db.Spec.Stop {
		desired = 0
	}
	if ptr.Deref(pooler.Spec.Instances, 1) == desired {
		return nil
	}
	patch := client.MergeFrom(pooler.DeepCopy())
	pooler.Spec.Instances = ptr.To(desired)
	if err := r.Patch(ctx, pooler, patch); err != nil {
		return requeueAfter(jittered(r.Config.ReconcileTTL, jitterNormal),
			fmt.Errorf("failed to scale pooler: %w", err))
	}
	return nil
}

// deleteStalledBackups removes Backup resources that never completed.
// A backup caught by hibernation can neither finish nor fail, and CNPG
// will not start a fresh one on wake while it lingers.
func (r *CoreDBReconciler) deleteStalledBackups(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	var backups cnpgv1.BackupList
	err := r.List(ctx, &backups,
		client.InNamespace(db.Namespace),
		client.MatchingLabels{metadata.LabelCNPGCluster: db.Name})
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	for i := range backups.Items {
		backup := &backups.Items[i]
		if backup.Status.Phase == cnpgv1.BackupPhaseCompleted {
			continue
		}
		logger.Info("Deleting stalled backup", "backup", backup.Name)
		if err := client.IgnoreNotFound(r.Delete(ctx, backup)); err != nil {
			return fmt.Errorf("failed to delete stalled backup %s: %w", backup.Name, err)
		}
	}
	return nil
}
