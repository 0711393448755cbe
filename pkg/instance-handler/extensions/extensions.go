package extensions

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

// Reconciler runs the extension pipeline for one CoreDB. The client
// reads and patches the CoreDB status; the executor runs trunk and
// psql inside the instance pods.
type Reconciler struct {
	client.Client
	Exec podexec.PodExecutor
}

// Reconcile installs missing trunk packages into the given pods, then
// converges per-database extension toggles against the primary pod. It
// returns the trunk install and extension statuses as written back to
// the CoreDB, which the caller mirrors into its status update.
func (r *Reconciler) Reconcile(ctx context.Context, cdb *coredbv1alpha1.CoreDB, primaryPod string, pods []string) ([]coredbv1alpha1.TrunkInstallStatus, []coredbv1alpha1.ExtensionStatus, error) {
	trunkInstalls, err := r.ReconcileTrunkInstalls(ctx, cdb, pods)
	if err != nil {
		return nil, nil, err
	}
	extensionStatuses, err := r.ReconcileExtensionToggles(ctx, cdb, primaryPod)
	if err != nil {
		return nil, nil, err
	}
	return trunkInstalls, extensionStatuses, nil
}
