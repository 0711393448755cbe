package coredb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	barmancloudv1 "github.com/coredb-io/coredb-operator/api/barmancloud/v1"
	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// defaultBackupSchedule fires daily at midnight. CNPG cron expressions
// carry a leading seconds field.
const defaultBackupSchedule = "0 0 0 * * *"

// reconcileScheduledBackups applies the base backup schedules: one
// ScheduledBackup archiving to the barman object store and, when volume
// snapshots are on, a second one taking snapshots. The Cluster has to
// exist first because CNPG rejects schedules referencing no cluster.
func (r *CoreDBReconciler) reconcileScheduledBackups(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	if !r.Config.EnableBackup {
		for _, name := range []string{db.Name, names.SnapshotScheduledBackup(db.Name)} {
			err := r.deleteIfFound(ctx, &cnpgv1.ScheduledBackup{
				ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: db.Namespace},
			})
			if err != nil {
				return fmt.Errorf("failed to delete scheduled backup %s: %w", name, err)
			}
		}
		return nil
	}

	cluster := &cnpgv1.Cluster{}
	err := r.Get(ctx, types.NamespacedName{Name: db.Name, Namespace: db.Namespace}, cluster)
	if apierrors.IsNotFound(err) {
		return requeueAfter(30*time.Second, fmt.Errorf("cluster %s does not exist yet", db.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch cluster: %w", err)
	}

	backup, err := buildScheduledBackup(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build scheduled backup: %w", err)
	}
	if err := r.applyChild(ctx, backup, cnpgv1.SchemeGroupVersion.WithKind("ScheduledBackup")); err != nil {
		return fmt.Errorf("failed to apply scheduled backup: %w", err)
	}

	if !r.snapshotBackupEnabled(db) {
		return nil
	}
	snapshot, err := buildSnapshotScheduledBackup(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build snapshot scheduled backup: %w", err)
	}
	if err := r.applyChild(ctx, snapshot, cnpgv1.SchemeGroupVersion.WithKind("ScheduledBackup")); err != nil {
		return fmt.Errorf("failed to apply snapshot scheduled backup: %w", err)
	}
	return nil
}

func (r *CoreDBReconciler) snapshotBackupEnabled(db *coredbv1alpha1.CoreDB) bool {
	return r.Config.EnableVolumeSnapshot &&
		db.Spec.Backup.VolumeSnapshot != nil &&
		db.Spec.Backup.VolumeSnapshot.Enabled
}

func buildScheduledBackup(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*cnpgv1.ScheduledBackup, error) {
	backup := scheduledBackup(db, db.Name, cnpgv1.BackupMethodBarmanObjectStore)
	if err := controllerutil.SetControllerReference(db, backup, scheme); err != nil {
		return nil, err
	}
	return backup, nil
}

func buildSnapshotScheduledBackup(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*cnpgv1.ScheduledBackup, error) {
	backup := scheduledBackup(db, names.SnapshotScheduledBackup(db.Name), cnpgv1.BackupMethodVolumeSnapshot)
	if err := controllerutil.SetControllerReference(db, backup, scheme); err != nil {
		return nil, err
	}
	return backup, nil
}

func scheduledBackup(db *coredbv1alpha1.CoreDB, name string, method cnpgv1.BackupMethod) *cnpgv1.ScheduledBackup {
	return &cnpgv1.ScheduledBackup{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Spec: cnpgv1.ScheduledBackupSpec{
			// Suspension tracks hibernation, so the periodic apply and
			// the hibernation flow agree on the field.
			Suspend:              ptr.To(db.Spec.Stop),
			Immediate:            ptr.To(true),
			Schedule:             backupSchedule(db),
			Cluster:              cnpgv1.LocalObjectReference{Name: db.Name},
			BackupOwnerReference: "cluster",
			Method:               method,
		},
	}
}

// backupSchedule validates the spec schedule and falls back to the
// daily default. Five-term expressions get a leading seconds field;
// terms may only be integers or "*".
func backupSchedule(db *coredbv1alpha1.CoreDB) string {
	if db.Spec.Backup.Schedule == nil {
		return defaultBackupSchedule
	}
	terms := strings.Fields(*db.Spec.Backup.Schedule)
	switch len(terms) {
	case 5:
		terms = append([]string{"0"}, terms...)
	case 6:
	default:
		return defaultBackupSchedule
	}
	for _, term := range terms {
		if term == "*" {
			continue
		}
		if _, err := strconv.Atoi(term); err != nil {
			return defaultBackupSchedule
		}
	}
	return strings.Join(terms, " ")
}

// reconcileObjectStore keeps the Barman Cloud plugin view of the object
// store in step with the Cluster's backup section, and removes it when
// no store is configured.
func (r *CoreDBReconciler) reconcileObjectStore(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	store := barmanObjectStore(db)
	if !r.Config.EnableBackup || store == nil {
		err := r.deleteIfFound(ctx, &barmancloudv1.ObjectStore{
			ObjectMeta: metav1.ObjectMeta{Name: db.Name, Namespace: db.Namespace},
		})
		if err != nil {
			return fmt.Errorf("failed to delete object store: %w", err)
		}
		return nil
	}

	objectStore := &barmancloudv1.ObjectStore{
		ObjectMeta: metav1.ObjectMeta{
			Name:      db.Name,
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Spec: barmancloudv1.ObjectStoreSpec{
			Configuration:   *store,
			RetentionPolicy: retentionDays(db.Spec.Backup.RetentionPolicy),
		},
	}
	if err := controllerutil.SetControllerReference(db, objectStore, r.Scheme); err != nil {
		return fmt.Errorf("failed to build object store: %w", err)
	}
	if err := r.applyChild(ctx, objectStore, barmancloudv1.GroupVersion.WithKind("ObjectStore")); err != nil {
		return fmt.Errorf("failed to apply object store: %w", err)
	}
	return nil
}

// firstRecoverabilityTime is the stoppedAt of the oldest completed
// Backup of the cluster, the earliest point the instance can be
// restored to. Nil while no backup has completed.
func (r *CoreDBReconciler) firstRecoverabilityTime(ctx context.Context, db *coredbv1alpha1.CoreDB) (*metav1.Time, error) {
	var backups cnpgv1.BackupList
	err := r.List(ctx, &backups,
		client.InNamespace(db.Namespace),
		client.MatchingLabels{metadata.LabelCNPGCluster: db.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var oldest *metav1.Time
	for i := range backups.Items {
		status := backups.Items[i].Status
		if status.Phase != cnpgv1.BackupPhaseCompleted || status.StoppedAt == nil {
			continue
		}
		if oldest == nil || status.StoppedAt.Before(oldest) {
			oldest = status.StoppedAt
		}
	}
	return oldest, nil
}
