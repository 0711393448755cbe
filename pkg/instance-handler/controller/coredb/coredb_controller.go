package coredb

import (
	"context"
	"errors"
	"fmt"
	"time"

	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	"go.opentelemetry.io/otel/trace"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	barmancloudv1 "github.com/coredb-io/coredb-operator/api/barmancloud/v1"
	traefikv1alpha1 "github.com/coredb-io/coredb-operator/api/traefik/v1alpha1"
	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/config"
	"github.com/coredb-io/coredb-operator/pkg/defaults"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/extensions"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/monitoring"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

const (
	finalizerName = "coredbs.coredb.io/finalizer"

	// watchAnnotation short-circuits the whole reconcile when set to
	// "false", leaving every child exactly as it is. An escape hatch for
	// manual surgery on a live instance.
	watchAnnotation = "coredbs.coredb.io/watch"
)

// CoreDBReconciler reconciles a CoreDB object.
type CoreDBReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Config   config.Config
	Exec     podexec.PodExecutor
}

// reconcileStep is one fixed-order stage of an apply pass. The name
// labels failure metrics and log lines.
type reconcileStep struct {
	name string
	fn   func(context.Context, *coredbv1alpha1.CoreDB) error
}

// steps returns the apply chain. The order is load-bearing: later
// stages reference names and resources produced by earlier ones, the
// Cluster exists before hibernation is evaluated, and the extension
// pipeline only runs against an instance the rest of the chain has
// already converged.
func (r *CoreDBReconciler) steps() []reconcileStep {
	return []reconcileStep{
		{"rbac", r.reconcileRBAC},
		{"connection-secret", r.reconcileConnectionSecret},
		{"readonly-secret", r.reconcileReadOnlyRoleSecret},
		{"network-policies", r.reconcileNetworkPolicies},
		{"ingress-routes", r.reconcileIngressRoutes},
		{"metrics-configmap", r.reconcileMetricsConfigMap},
		{"cluster", r.reconcileCluster},
		{"object-store", r.reconcileObjectStore},
		{"scheduled-backups", r.reconcileScheduledBackups},
		{"hibernation", r.reconcileHibernation},
		{"pooler", r.reconcilePooler},
		{"app-services", r.reconcileAppServices},
		{"extensions", r.reconcileExtensions},
	}
}

// Reconcile drives one CoreDB toward its spec: finalizer bookkeeping,
// the fixed apply chain, then the final status update. Failures never
// return an error to controller-runtime; they translate into a requeue
// with a delay picked per failure class, so one broken instance cannot
// put the workqueue into exponential backoff for everyone else.
//
// +kubebuilder:rbac:groups=coredb.io,resources=coredbs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=coredb.io,resources=coredbs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=coredb.io,resources=coredbs/finalizers,verbs=update
// +kubebuilder:rbac:groups=postgresql.cnpg.io,resources=clusters;poolers;scheduledbackups;backups,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=barmancloud.cnpg.io,resources=objectstores,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=traefik.io,resources=ingressroutes;ingressroutetcps;middlewares,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=secrets;configmaps;serviceaccounts;services;pods,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=pods/exec,verbs=create
// +kubebuilder:rbac:groups="",resources=endpoints,verbs=get;list;watch
// +kubebuilder:rbac:groups=rbac.authorization.k8s.io,resources=roles;rolebindings,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=networkpolicies,verbs=get;list;watch;create;update;patch;delete
func (r *CoreDBReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	db := &coredbv1alpha1.CoreDB{}
	if err := r.Get(ctx, req.NamespacedName, db); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, fmt.Errorf("failed to get CoreDB: %w", err)
	}

	// Resume the trace the admission webhook started, unless it has
	// gone stale since the annotation was stamped.
	if parent, stale := monitoring.ExtractTraceContext(db.Annotations); !stale {
		ctx = trace.ContextWithRemoteSpanContext(ctx, trace.SpanContextFromContext(parent))
	}
	ctx, span := monitoring.StartReconcileSpan(ctx, "Reconcile", db.Name, db.Namespace, "CoreDB")
	defer span.End()
	ctx = monitoring.EnrichLoggerWithTrace(ctx)
	logger := log.FromContext(ctx)

	if db.Annotations[watchAnnotation] == "false" {
		logger.Info("Instance is unwatched, skipping reconcile")
		return ctrl.Result{}, nil
	}

	if !db.DeletionTimestamp.IsZero() {
		return r.handleDelete(ctx, db)
	}

	// The finalizer lands in its own update before any child exists, so
	// a delete arriving mid-creation still runs cleanup.
	if !controllerutil.ContainsFinalizer(db, finalizerName) {
		controllerutil.AddFinalizer(db, finalizerName)
		if err := r.Update(ctx, db); err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to add finalizer: %w", err)
		}
		return ctrl.Result{}, nil
	}

	// In-memory only: the webhook defaults new objects, but objects
	// created before the webhook existed still reconcile correctly.
	defaults.PopulateCoreDBDefaults(db)

	for _, step := range r.steps() {
		if err := step.fn(ctx, db); err != nil {
			return r.stepResult(ctx, db, step.name, err)
		}
	}

	postmasterStart, err := r.postmasterStartTime(ctx, db)
	if err != nil {
		return r.stepResult(ctx, db, "postmaster-start-time", err)
	}
	if err := r.updateFinalStatus(ctx, db, postmasterStart); err != nil {
		return r.stepResult(ctx, db, "status", err)
	}

	monitoring.SetInstanceInfo(db.Name, db.Namespace, "running")
	if pods, err := r.clusterPodsReadyOrNot(ctx, db); err == nil {
		ready := int32(0)
		for i := range pods {
			if isPodReady(&pods[i]) {
				ready++
			}
		}
		monitoring.SetInstanceReplicas(db.Name, db.Namespace, db.Spec.Replicas, ready)
	}
	logger.V(1).Info("Fully reconciled instance")
	return ctrl.Result{RequeueAfter: jittered(r.Config.ReconcileTTL, jitterNormal)}, nil
}

// stepResult turns a step failure into a requeue. A requeue that
// carries no underlying error is a planned stop, a hibernated instance
// or a pod still starting, and is not reported as a failure.
func (r *CoreDBReconciler) stepResult(ctx context.Context, db *coredbv1alpha1.CoreDB, step string, err error) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	var planned *requeueAfterError
	if errors.As(err, &planned) && planned.err == nil {
		return ctrl.Result{RequeueAfter: planned.after}, nil
	}

	logger.Error(err, "Reconcile step failed", "step", step)
	monitoring.RecordReconcileFailure(db.Name, db.Namespace, step)
	r.Recorder.Eventf(db, "Warning", "FailedApply", "Step %s failed: %v", step, err)
	return resultFor(err)
}

// reconcileExtensions runs the trunk install and extension toggle
// pipeline against the live pods. extensionsUpdating brackets the run
// so status consumers can tell a half-written extension array from a
// settled one; the flag clears even when the pipeline bails out with a
// requeue, because nothing will be mutating until the next pass.
func (r *CoreDBReconciler) reconcileExtensions(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	if len(db.Spec.TrunkInstalls) == 0 && len(db.Spec.Extensions) == 0 &&
		len(db.Status.TrunkInstalls) == 0 && len(db.Status.Extensions) == 0 {
		return nil
	}

	// Installs touch every pod; running against a half-scaled cluster
	// would leave new pods without the extension files.
	if err := r.checkReplicasMatchPods(ctx, db); err != nil {
		return err
	}
	pods, err := r.clusterPods(ctx, db)
	if err != nil {
		return err
	}
	primary, err := r.primaryPod(ctx, db)
	if err != nil {
		return err
	}

	if err := r.patchStatusExtensionsUpdating(ctx, db, true); err != nil {
		return err
	}
	pipeline := &extensions.Reconciler{Client: r.Client, Exec: r.Exec}
	_, _, pipelineErr := pipeline.Reconcile(ctx, db, primary.Name, podNames(pods))
	if err := r.patchStatusExtensionsUpdating(ctx, db, false); err != nil {
		return err
	}
	return pipelineErr
}

// handleDelete tears the instance down. The Cluster is deleted first
// and the finalizer held until CNPG reports it gone, so the pods and
// volumes are released before garbage collection sweeps the rest of
// the children through their owner references.
func (r *CoreDBReconciler) handleDelete(ctx context.Context, db *coredbv1alpha1.CoreDB) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(db, finalizerName) {
		return ctrl.Result{}, nil
	}

	cluster := &cnpgv1.Cluster{}
	err := r.Get(ctx, types.NamespacedName{Name: db.Name, Namespace: db.Namespace}, cluster)
	switch {
	case apierrors.IsNotFound(err):
		// Cluster is gone, fall through to the rest of the cleanup.
	case err != nil:
		return ctrl.Result{}, fmt.Errorf("failed to fetch cluster during cleanup: %w", err)
	default:
		if cluster.DeletionTimestamp.IsZero() {
			if err := client.IgnoreNotFound(r.Delete(ctx, cluster)); err != nil {
				return ctrl.Result{}, fmt.Errorf("failed to delete cluster: %w", err)
			}
		}
		r.Recorder.Event(db, "Normal", "Cleanup", "Waiting for Cluster deletion")
		return ctrl.Result{RequeueAfter: 5 * time.Second}, nil
	}

	// Deleted explicitly rather than left to garbage collection: the
	// pooler and the schedules act on their own and must stop before
	// the instance is considered gone.
	for _, obj := range []client.Object{
		&cnpgv1.Pooler{ObjectMeta: objectMeta(names.Pooler(db.Name), db.Namespace)},
		&cnpgv1.ScheduledBackup{ObjectMeta: objectMeta(db.Name, db.Namespace)},
		&cnpgv1.ScheduledBackup{ObjectMeta: objectMeta(names.SnapshotScheduledBackup(db.Name), db.Namespace)},
	} {
		if err := r.deleteIfFound(ctx, obj); err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to delete %s during cleanup: %w", obj.GetName(), err)
		}
	}

	monitoring.DeleteInstanceMetrics(db.Name, db.Namespace)

	controllerutil.RemoveFinalizer(db, finalizerName)
	if err := r.Update(ctx, db); err != nil {
		return ctrl.Result{}, fmt.Errorf("failed to remove finalizer: %w", err)
	}
	logger.Info("Released instance for deletion")
	return ctrl.Result{}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *CoreDBReconciler) SetupWithManager(mgr ctrl.Manager, opts ...controller.Options) error {
	controllerOpts := controller.Options{}
	if len(opts) > 0 {
		controllerOpts = opts[0]
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&coredbv1alpha1.CoreDB{}).
		Owns(&cnpgv1.Cluster{}).
		Owns(&cnpgv1.Pooler{}).
		Owns(&cnpgv1.ScheduledBackup{}).
		Owns(&barmancloudv1.ObjectStore{}).
		Owns(&corev1.Secret{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.ServiceAccount{}).
		Owns(&corev1.Service{}).
		Owns(&rbacv1.Role{}).
		Owns(&rbacv1.RoleBinding{}).
		Owns(&networkingv1.NetworkPolicy{}).
		Owns(&appsv1.Deployment{}).
		Owns(&traefikv1alpha1.IngressRouteTCP{}).
		Owns(&traefikv1alpha1.IngressRoute{}).
		Owns(&traefikv1alpha1.Middleware{}).
		WithOptions(controllerOpts).
		Complete(r)
}
