package coredb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// patchStatusMerge issues a merge patch against the CoreDB status
// subresource. Keys absent from the fragment stay untouched on the
// server, so each writer carries only the fields it owns; array fields
// are merged client side and sent whole.
func (r *CoreDBReconciler) patchStatusMerge(ctx context.Context, db *coredbv1alpha1.CoreDB, status map[string]any) error {
	payload, err := json.Marshal(map[string]any{"status": status})
	if err != nil {
		return fmt.Errorf("marshaling status patch: %w", err)
	}
	target := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: db.Name, Namespace: db.Namespace},
	}
	if err := r.Status().Patch(ctx, target, client.RawPatch(types.MergePatchType, payload)); err != nil {
		return requeueAfter(requeueOnError, err)
	}
	return nil
}

func (r *CoreDBReconciler) patchStatusRunning(ctx context.Context, db *coredbv1alpha1.CoreDB, running bool) error {
	return r.patchStatusMerge(ctx, db, map[string]any{"running": running})
}

func (r *CoreDBReconciler) patchStatusExtensionsUpdating(ctx context.Context, db *coredbv1alpha1.CoreDB, updating bool) error {
	return r.patchStatusMerge(ctx, db, map[string]any{"extensionsUpdating": updating})
}

// patchStatusHibernation records a hibernation transition. The running
// flag and the postmaster time move together: a stopped instance has
// neither, a woken one gets the time back on the next full pass.
func (r *CoreDBReconciler) patchStatusHibernation(ctx context.Context, db *coredbv1alpha1.CoreDB, running bool) error {
	conditions, err := r.transitionConditions(ctx, db, running)
	if err != nil {
		return err
	}
	return r.patchStatusMerge(ctx, db, map[string]any{
		"running":               running,
		"pgPostmasterStartTime": nil,
		"conditions":            conditions,
	})
}

// transitionConditions rewrites the condition array for a hibernation
// transition. Waking leaves Available unknown until a pass confirms
// the instance answers queries again.
func (r *CoreDBReconciler) transitionConditions(ctx context.Context, db *coredbv1alpha1.CoreDB, running bool) ([]metav1.Condition, error) {
	fresh := &coredbv1alpha1.CoreDB{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(db), fresh); err != nil {
		return nil, fmt.Errorf("failed to fetch instance for condition update: %w", err)
	}
	conditions := fresh.Status.Conditions

	if running {
		meta.SetStatusCondition(&conditions, metav1.Condition{
			Type:               coredbv1alpha1.ConditionAvailable,
			Status:             metav1.ConditionUnknown,
			Reason:             "Waking",
			Message:            "Instance is waking from hibernation",
			ObservedGeneration: db.Generation,
		})
		meta.SetStatusCondition(&conditions, metav1.Condition{
			Type:               coredbv1alpha1.ConditionProgressing,
			Status:             metav1.ConditionTrue,
			Reason:             "Waking",
			ObservedGeneration: db.Generation,
		})
		return conditions, nil
	}

	meta.SetStatusCondition(&conditions, metav1.Condition{
		Type:               coredbv1alpha1.ConditionAvailable,
		Status:             metav1.ConditionFalse,
		Reason:             "Hibernated",
		Message:            "Instance is stopped",
		ObservedGeneration: db.Generation,
	})
	meta.SetStatusCondition(&conditions, metav1.Condition{
		Type:               coredbv1alpha1.ConditionProgressing,
		Status:             metav1.ConditionFalse,
		Reason:             "Hibernated",
		ObservedGeneration: db.Generation,
	})
	return conditions, nil
}

// updateFinalStatus is the last step of a successful pass. It mirrors
// the applied spec into status, records the recoverability window, and
// refreshes the fully-reconciled timestamp once its TTL has expired so
// steady-state passes do not patch status every time.
func (r *CoreDBReconciler) updateFinalStatus(ctx context.Context, db *coredbv1alpha1.CoreDB, postmasterStart *metav1.Time) error {
	fresh := &coredbv1alpha1.CoreDB{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(db), fresh); err != nil {
		return fmt.Errorf("failed to fetch instance for status update: %w", err)
	}

	recoverability, err := r.firstRecoverabilityTime(ctx, db)
	if err != nil {
		return err
	}

	conditions := fresh.Status.Conditions
	meta.SetStatusCondition(&conditions, metav1.Condition{
		Type:               coredbv1alpha1.ConditionAvailable,
		Status:             metav1.ConditionTrue,
		Reason:             "InstanceReady",
		Message:            "Postgres is up and accepting connections",
		ObservedGeneration: db.Generation,
	})
	meta.SetStatusCondition(&conditions, metav1.Condition{
		Type:               coredbv1alpha1.ConditionProgressing,
		Status:             metav1.ConditionFalse,
		Reason:             "ReconcileComplete",
		ObservedGeneration: db.Generation,
	})

	status := map[string]any{
		"running":               true,
		"observedGeneration":    db.Generation,
		"conditions":            conditions,
		"storage":               db.Spec.Storage,
		"resources":             db.Spec.Resources,
		"runtimeConfig":         db.Spec.RuntimeConfig,
		"pgPostmasterStartTime": postmasterStart,
	}
	if recoverability != nil {
		status["firstRecoverabilityTime"] = recoverability
	}
	if shouldRefreshReconcileTimestamp(fresh.Status.LastFullyReconciledAt, r.Config.ReconcileTimestampTTL) {
		status["lastFullyReconciledAt"] = metav1.Now()
	}
	return r.patchStatusMerge(ctx, db, status)
}

func shouldRefreshReconcileTimestamp(last *metav1.Time, ttl time.Duration) bool {
	return last == nil || time.Since(last.Time) > ttl
}
