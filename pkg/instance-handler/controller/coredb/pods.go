package coredb

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// Pod discovery goes through labels stamped by CloudNativePG, not
// through owner references: the Pods are owned by the Cluster, one
// level removed from the CoreDB.

// primaryPod returns the current primary instance Pod with a ready
// postgres container. A missing or not-yet-ready primary requeues
// quickly because instance startup usually completes within seconds.
func (r *CoreDBReconciler) primaryPod(ctx context.Context, db *coredbv1alpha1.CoreDB) (*corev1.Pod, error) {
	pod, err := r.primaryPodReadyOrNot(ctx, db)
	if err != nil {
		return nil, err
	}
	if !isPostgresReady(pod) {
		return nil, requeueAfter(5*time.Second, fmt.Errorf("primary pod %s is not ready", pod.Name))
	}
	return pod, nil
}

// primaryPodReadyOrNot returns the current primary instance Pod
// regardless of container readiness, for callers that talk to a
// database that may be mid-restart.
func (r *CoreDBReconciler) primaryPodReadyOrNot(ctx context.Context, db *coredbv1alpha1.CoreDB) (*corev1.Pod, error) {
	var pods corev1.PodList
	err := r.List(ctx, &pods,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.PrimaryPodSelector(db.Name)))
	if err != nil {
		return nil, requeueAfter(requeueOnError, fmt.Errorf("failed to list primary pod: %w", err))
	}
	if len(pods.Items) == 0 {
		return nil, requeueAfter(5*time.Second, fmt.Errorf("no primary pod found for %s", db.Name))
	}
	return &pods.Items[0], nil
}

// clusterPods returns every instance Pod of the cluster that reports
// the Ready condition. At least one ready Pod is required; none at
// all requeues on a medium delay.
func (r *CoreDBReconciler) clusterPods(ctx context.Context, db *coredbv1alpha1.CoreDB) ([]corev1.Pod, error) {
	pods, err := r.clusterPodsReadyOrNot(ctx, db)
	if err != nil {
		return nil, err
	}
	ready := make([]corev1.Pod, 0, len(pods))
	for _, pod := range pods {
		if isPodReady(&pod) {
			ready = append(ready, pod)
		}
	}
	if len(ready) == 0 {
		return nil, requeueAfter(30*time.Second, fmt.Errorf("no ready pods found for %s", db.Name))
	}
	return ready, nil
}

// clusterPodsReadyOrNot returns every instance Pod of the cluster,
// primary first, without filtering on readiness.
func (r *CoreDBReconciler) clusterPodsReadyOrNot(ctx context.Context, db *coredbv1alpha1.CoreDB) ([]corev1.Pod, error) {
	var primaries corev1.PodList
	err := r.List(ctx, &primaries,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.PrimaryPodSelector(db.Name)))
	if err != nil {
		return nil, requeueAfter(requeueOnError, fmt.Errorf("failed to list primary pods: %w", err))
	}

	var replicas corev1.PodList
	err = r.List(ctx, &replicas,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.ReplicaPodSelector(db.Name)))
	if err != nil {
		return nil, requeueAfter(requeueOnError, fmt.Errorf("failed to list replica pods: %w", err))
	}

	pods := append(primaries.Items, replicas.Items...)
	if len(pods) == 0 {
		return nil, requeueAfter(30*time.Second, fmt.Errorf("no pods found for %s", db.Name))
	}
	return pods, nil
}

// checkReplicasMatchPods requeues on a short delay while the number of
// instance Pods disagrees with spec.replicas, so that steps touching
// every pod do not run against a cluster that is still scaling.
func (r *CoreDBReconciler) checkReplicasMatchPods(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	pods, err := r.clusterPodsReadyOrNot(ctx, db)
	if err != nil {
		return err
	}
	if int32(len(pods)) != db.Spec.Replicas {
		return requeueAfter(10*time.Second,
			fmt.Errorf("expected %d pods for %s, found %d", db.Spec.Replicas, db.Name, len(pods)))
	}
	return nil
}

func isPodReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

func isPostgresReady(pod *corev1.Pod) bool {
	for _, status := range pod.Status.ContainerStatuses {
		if status.Name == podexec.PostgresContainerName {
			return status.Ready
		}
	}
	return false
}

func podNames(pods []corev1.Pod) []string {
	names := make([]string, 0, len(pods))
	for _, pod := range pods {
		names = append(names, pod.Name)
	}
	return names
}
