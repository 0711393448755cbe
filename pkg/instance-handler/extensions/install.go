package extensions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/monitoring"
)

const trunkRegistry = "https://registry.pgtrunk.io"

// missingVersionMessage is recorded for spec entries without a version.
// The entry is a spec defect, not a transient fault, so no install is
// attempted.
const missingVersionMessage = "Missing version"

// trunkInstallsToRemove returns the names of recorded outcomes whose
// spec entry is gone. Removing and re-adding an entry is how a user
// retries a terminal failure.
func trunkInstallsToRemove(cdb *coredbv1alpha1.CoreDB) []string {
	var remove []string
	for _, recorded := range cdb.Status.TrunkInstalls {
		if !hasTrunkInstall(cdb.Spec.TrunkInstalls, recorded.Name) {
			remove = append(remove, recorded.Name)
		}
	}
	return remove
}

func hasTrunkInstall(installs []coredbv1alpha1.TrunkInstall, name string) bool {
	for _, install := range installs {
		if install.Name == name {
			return true
		}
	}
	return false
}

// trunkInstallsForPod returns the spec entries with no recorded outcome
// covering the given pod. A recorded failure is terminal and covers
// every pod; a recorded success covers only the pods it lists, so an
// instance scaling out picks up missing installs on the new pod.
func trunkInstallsForPod(cdb *coredbv1alpha1.CoreDB, pod string) []coredbv1alpha1.TrunkInstall {
	var installs []coredbv1alpha1.TrunkInstall
	for _, install := range cdb.Spec.TrunkInstalls {
		covered := false
		for _, recorded := range cdb.Status.TrunkInstalls {
			if recorded.Name != install.Name {
				continue
			}
			if recorded.Error || contains(recorded.InstalledToPods, pod) {
				covered = true
			}
			break
		}
		if !covered {
			installs = append(installs, install)
		}
	}
	return installs
}

// ReconcileTrunkInstalls converges status.trunkInstalls with the spec:
// outcomes without a spec entry are pruned, then every spec entry not
// yet recorded is installed into each pod that misses it. The returned
// list reflects the status as written back.
func (r *Reconciler) ReconcileTrunkInstalls(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pods []string) ([]coredbv1alpha1.TrunkInstallStatus, error) {
	logger := log.FromContext(ctx)

	if err := r.removeTrunkInstallsFromStatus(ctx, cdb, trunkInstallsToRemove(cdb)); err != nil {
		return nil, err
	}

	var results []coredbv1alpha1.TrunkInstallStatus
	installed := false
	for _, pod := range pods {
		installs := trunkInstallsForPod(cdb, pod)
		if len(installs) == 0 {
			continue
		}
		podResults, err := r.installExtensionsToPod(ctx, cdb, installs, pod)
		if err != nil {
			return nil, err
		}
		results = podResults
		installed = true
	}

	if !installed {
		// Nothing attempted this pass. Report the recorded state after
		// pruning so a pruned entry stays pruned.
		fresh, err := r.freshCoreDB(ctx, cdb)
		if err != nil {
			return nil, err
		}
		return fresh.Status.TrunkInstalls, nil
	}

	logger.Info("Completed trunk install reconciliation", "installs", len(results))
	return results, nil
}

// installExtensionsToPod runs every pending install against one pod,
// recording each outcome as it lands. A transport failure skips the
// affected item without recording anything and requeues the pass once
// the remaining items were attempted.
func (r *Reconciler) installExtensionsToPod(ctx context.Context, cdb *coredbv1alpha1.CoreDB, installs []coredbv1alpha1.TrunkInstall, pod string) ([]coredbv1alpha1.TrunkInstallStatus, error) {
	logger := log.FromContext(ctx)
	logger.Info("Installing extensions", "pod", pod, "count", len(installs))

	results := cdb.Status.TrunkInstalls
	var transportErr error
	for _, install := range installs {
		status, err := r.runTrunkInstall(ctx, cdb, install, pod)
		if err != nil {
			logger.Error(err, "Trunk install did not run, will retry", "extension", install.Name, "pod", pod)
			transportErr = err
			continue
		}
		if status.Error {
			logger.Info("Trunk install failed",
				"extension", install.Name, "pod", pod, "message", ptr.Deref(status.ErrorMessage, ""))
		}
		updated, err := r.addTrunkInstallToStatus(ctx, cdb, status)
		if err != nil {
			return nil, err
		}
		results = updated
	}
	if transportErr != nil {
		return nil, requeueAfter(10*time.Second, transportErr)
	}
	return results, nil
}

// runTrunkInstall executes one trunk install inside the pod and
// classifies the result. The returned error is reserved for transport
// failures where the tool never ran.
func (r *Reconciler) runTrunkInstall(ctx context.Context, cdb *coredbv1alpha1.CoreDB, install coredbv1alpha1.TrunkInstall, pod string) (coredbv1alpha1.TrunkInstallStatus, error) {
	if install.Version == nil {
		monitoring.RecordExtensionChange("install", errors.New(missingVersionMessage))
		return coredbv1alpha1.TrunkInstallStatus{
			Name:         install.Name,
			Error:        true,
			ErrorMessage: ptr.To(missingVersionMessage),
		}, nil
	}

	command := []string{
		"trunk", "install",
		"-r", trunkRegistry,
		install.Name,
		"--version", *install.Version,
	}
	out, err := r.Exec.Exec(ctx, cdb.Namespace, pod, command)
	if err != nil {
		monitoring.RecordExtensionChange("install", err)
		return coredbv1alpha1.TrunkInstallStatus{}, fmt.Errorf("executing trunk install of %s: %w", install.Name, err)
	}

	if !out.Success {
		monitoring.RecordExtensionChange("install", errors.New("trunk install exited non-zero"))
		return coredbv1alpha1.TrunkInstallStatus{
			Name:            install.Name,
			Version:         install.Version,
			Error:           true,
			ErrorMessage:    ptr.To(combinedOutput(out.Stdout, out.Stderr)),
			InstalledToPods: []string{pod},
		}, nil
	}

	monitoring.RecordExtensionChange("install", nil)
	return coredbv1alpha1.TrunkInstallStatus{
		Name:            install.Name,
		Version:         install.Version,
		InstalledToPods: []string{pod},
	}, nil
}

// combinedOutput joins the captured streams the way the status records
// them, substituting placeholders for silent streams.
func combinedOutput(stdout, stderr string) string {
	if stdout == "" {
		stdout = "Nothing in stdout"
	}
	if stderr == "" {
		stderr = "Nothing in stderr"
	}
	return stdout + "\n" + stderr
}
