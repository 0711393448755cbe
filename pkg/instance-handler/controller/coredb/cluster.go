package coredb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

// restartAnnotation requests an instance restart. The value is an
// RFC3339 timestamp; propagating a changed value onto the Cluster makes
// CloudNativePG roll every pod.
const restartAnnotation = "cnpg.io/restartedAt"

// postmasterTimeLayouts cover the two offset spellings
// pg_postmaster_start_time() prints depending on the server timezone.
var postmasterTimeLayouts = []string{
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
}

// reconcileCluster renders and applies the CNPG Cluster. Against a live
// cluster, a requested restart and an image change roll through
// dedicated merge patches first; folding them into the big apply would
// race CNPG's own rollout bookkeeping.
func (r *CoreDBReconciler) reconcileCluster(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	cluster, err := buildCluster(db, r.Config, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build cluster: %w", err)
	}

	existing := &cnpgv1.Cluster{}
	err = r.Get(ctx, client.ObjectKeyFromObject(cluster), existing)
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to fetch cluster: %w", err)
	}
	exists := err == nil

	// While hibernated there are no pods to restart or probe, and the
	// running flag belongs to the hibernation flow.
	if exists && !db.Spec.Stop && !isHibernated(existing) {
		if err := r.rollRequestedRestart(ctx, db, existing); err != nil {
			return err
		}
		if err := r.patchClusterImage(ctx, db, existing); err != nil {
			return err
		}
		fresh := &coredbv1alpha1.CoreDB{}
		if err := r.Get(ctx, client.ObjectKeyFromObject(db), fresh); err != nil {
			return fmt.Errorf("failed to fetch instance: %w", err)
		}
		if !fresh.Status.Running {
			logger.Info("Instance is not running, holding Cluster apply")
			return requeueAfter(10*time.Second, errors.New("instance is not running"))
		}
	}

	switch {
	case !exists:
		// On first creation none of the extension files exist yet.
		// Preload libraries come back once the install pipeline has
		// put them on disk.
		cluster.Spec.PostgresConfiguration.AdditionalLibraries = nil
	case db.Spec.Stop || isHibernated(existing):
		cluster.Spec.PostgresConfiguration.AdditionalLibraries =
			existing.Spec.PostgresConfiguration.AdditionalLibraries
	default:
		if err := r.filterPreloadLibraries(ctx, db, cluster, existing); err != nil {
			return err
		}
	}

	if err := r.applyChild(ctx, cluster, cnpgv1.SchemeGroupVersion.WithKind("Cluster")); err != nil {
		return fmt.Errorf("failed to apply cluster: %w", err)
	}
	return nil
}

// rollRequestedRestart propagates the restart annotation onto the live
// Cluster. On a new request the instance is marked not running and the
// pass held until the primary postmaster has started after the request,
// then the running flag recovers.
func (r *CoreDBReconciler) rollRequestedRestart(ctx context.Context, db *coredbv1alpha1.CoreDB, cluster *cnpgv1.Cluster) error {
	logger := log.FromContext(ctx)

	requested, ok := db.Annotations[restartAnnotation]
	if !ok {
		return nil
	}

	if cluster.Annotations[restartAnnotation] != requested {
		logger.Info("Restarting instance", "restartedAt", requested)

		patch := client.MergeFrom(cluster.DeepCopy())
		if cluster.Annotations == nil {
			cluster.Annotations = map[string]string{}
		}
		cluster.Annotations[restartAnnotation] = requested
		if err := r.Patch(ctx, cluster, patch); err != nil {
			return fmt.Errorf("failed to propagate restart annotation: %w", err)
		}

		if err := r.patchStatusRunning(ctx, db, false); err != nil {
			return err
		}
		if _, err := r.postmasterStartTime(ctx, db); err != nil {
			return err
		}
	}

	fresh := &coredbv1alpha1.CoreDB{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(db), fresh); err != nil {
		return fmt.Errorf("failed to fetch instance: %w", err)
	}
	if !fresh.Status.Running {
		if err := r.patchStatusRunning(ctx, db, true); err != nil {
			return err
		}
		logger.Info("Instance restart complete")
	}
	return nil
}

// patchClusterImage rolls an image change through its own merge patch
// so the rollout starts before any other spec drift is applied.
func (r *CoreDBReconciler) patchClusterImage(ctx context.Context, db *coredbv1alpha1.CoreDB, cluster *cnpgv1.Cluster) error {
	if cluster.Spec.ImageName == "" || cluster.Spec.ImageName == db.Spec.Image {
		return nil
	}
	log.FromContext(ctx).Info("Updating instance image",
		"from", cluster.Spec.ImageName, "to", db.Spec.Image)

	patch := client.MergeFrom(cluster.DeepCopy())
	cluster.Spec.ImageName = db.Spec.Image
	if err := r.Patch(ctx, cluster, patch); err != nil {
		return fmt.Errorf("failed to patch cluster image: %w", err)
	}
	return nil
}

// filterPreloadLibraries drops desired preload libraries whose shared
// object is not on disk in the primary yet. Configuring a library
// before its file exists crash-loops the postmaster, so the library
// list trails the extension install pipeline.
func (r *CoreDBReconciler) filterPreloadLibraries(ctx context.Context, db *coredbv1alpha1.CoreDB, desired, existing *cnpgv1.Cluster) error {
	logger := log.FromContext(ctx)

	want := desired.Spec.PostgresConfiguration.AdditionalLibraries
	if len(want) == 0 {
		return nil
	}
	current := existing.Spec.PostgresConfiguration.AdditionalLibraries
	if slices.Equal(want, current) {
		return nil
	}

	primary, err := r.primaryPodReadyOrNot(ctx, db)
	if err != nil {
		return err
	}
	out, err := r.Exec.Exec(ctx, db.Namespace, primary.Name,
		[]string{"/bin/sh", "-c", "ls $(pg_config --pkglibdir)"})
	if err != nil {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to list extension files: %w", err))
	}
	if !out.Success {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to list extension files: %s", out.Stderr))
	}
	available := strings.Split(out.Stdout, "\n")

	installed := make([]string, 0, len(want))
	for _, lib := range want {
		if slices.Contains(available, lib+".so") {
			installed = append(installed, lib)
			continue
		}
		logger.Info("Preload library not installed yet, dropping it from the Cluster", "library", lib)
	}
	desired.Spec.PostgresConfiguration.AdditionalLibraries = installed
	return nil
}

// postmasterStartTime reads pg_postmaster_start_time() from the primary
// and holds the pass on a short requeue while the postmaster predates a
// pending restart request.
func (r *CoreDBReconciler) postmasterStartTime(ctx context.Context, db *coredbv1alpha1.CoreDB) (*metav1.Time, error) {
	primary, err := r.primaryPodReadyOrNot(ctx, db)
	if err != nil {
		return nil, err
	}

	out, err := podexec.Psql(ctx, r.Exec, db.Namespace, primary.Name,
		"postgres", "SELECT pg_postmaster_start_time();")
	if err != nil {
		return nil, requeueAfter(5*time.Second, fmt.Errorf("failed to query postmaster start time: %w", err))
	}
	raw := out.Field(0)
	if !out.Success || raw == "" {
		return nil, requeueAfter(5*time.Second, fmt.Errorf("no postmaster start time from %s: %s", primary.Name, out.Stderr))
	}

	var started time.Time
	var parseErr error
	for _, layout := range postmasterTimeLayouts {
		started, parseErr = time.Parse(layout, raw)
		if parseErr == nil {
			break
		}
	}
	if parseErr != nil {
		return nil, requeueAfter(5*time.Second, fmt.Errorf("failed to parse postmaster start time %q: %w", raw, parseErr))
	}

	if requestedRaw, ok := db.Annotations[restartAnnotation]; ok {
		requested, err := time.Parse(time.RFC3339, requestedRaw)
		if err == nil && started.Before(requested) {
			return nil, requeueAfter(5*time.Second,
				fmt.Errorf("instance is restarting, postmaster started %s before request %s", started, requested))
		}
	}

	return &metav1.Time{Time: started.UTC()}, nil
}
