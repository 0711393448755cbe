package extensions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// patchStatusMerge issues a merge patch against the CoreDB status
// subresource. Keys absent from the fragment are left untouched by the
// API server, so each write-back carries only the arrays it owns.
func (r *Reconciler) patchStatusMerge(ctx context.Context, cdb *coredbv1alpha1.CoreDB, status map[string]any) error {
	payload, err := json.Marshal(map[string]any{"status": status})
	if err != nil {
		return fmt.Errorf("marshaling status patch: %w", err)
	}
	target := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: cdb.Name, Namespace: cdb.Namespace},
	}
	if err := r.Status().Patch(ctx, target, client.RawPatch(types.MergePatchType, payload)); err != nil {
		return requeueAfter(300*time.Second, err)
	}
	return nil
}

// freshCoreDB re-reads the instance so every read-modify-write merge
// starts from the latest recorded state, not from the possibly stale
// reconcile snapshot.
func (r *Reconciler) freshCoreDB(ctx context.Context, cdb *coredbv1alpha1.CoreDB) (*coredbv1alpha1.CoreDB, error) {
	fresh := &coredbv1alpha1.CoreDB{}
	if err := r.Get(ctx, client.ObjectKeyFromObject(cdb), fresh); err != nil {
		return nil, requeueAfter(10*time.Second, err)
	}
	return fresh, nil
}

// removeTrunkInstallsFromStatus drops the named entries from
// status.trunkInstalls. Pruning a recorded outcome is what makes the
// matching spec entry eligible for another attempt.
func (r *Reconciler) removeTrunkInstallsFromStatus(ctx context.Context, cdb *coredbv1alpha1.CoreDB, names []string) error {
	if len(names) == 0 {
		return nil
	}
	logger := log.FromContext(ctx)
	logger.Info("Removing trunk installs from status", "names", names)

	fresh, err := r.freshCoreDB(ctx, cdb)
	if err != nil {
		return err
	}
	if len(fresh.Status.TrunkInstalls) == 0 {
		return nil
	}

	kept := make([]coredbv1alpha1.TrunkInstallStatus, 0, len(fresh.Status.TrunkInstalls))
	for _, install := range fresh.Status.TrunkInstalls {
		if !contains(names, install.Name) {
			kept = append(kept, install)
		}
	}
	sortTrunkInstalls(kept)

	return r.patchStatusMerge(ctx, cdb, map[string]any{"trunkInstalls": kept})
}

// addTrunkInstallToStatus merges one install outcome into
// status.trunkInstalls and returns the list as written.
func (r *Reconciler) addTrunkInstallToStatus(ctx context.Context, cdb *coredbv1alpha1.CoreDB, install coredbv1alpha1.TrunkInstallStatus) ([]coredbv1alpha1.TrunkInstallStatus, error) {
	fresh, err := r.freshCoreDB(ctx, cdb)
	if err != nil {
		return nil, err
	}

	updated := mergeTrunkInstall(fresh.Status.TrunkInstalls, install)
	if err := r.patchStatusMerge(ctx, cdb, map[string]any{"trunkInstalls": updated}); err != nil {
		return nil, err
	}
	return updated, nil
}

// mergeTrunkInstall inserts or replaces one entry keyed by name. When
// the recorded entry carries the same version, the pod lists are
// unioned so an install extending to a new pod accumulates instead of
// resetting. The result is sorted by name with duplicates collapsed.
func mergeTrunkInstall(current []coredbv1alpha1.TrunkInstallStatus, incoming coredbv1alpha1.TrunkInstallStatus) []coredbv1alpha1.TrunkInstallStatus {
	updated := make([]coredbv1alpha1.TrunkInstallStatus, 0, len(current)+1)
	merged := false
	for _, existing := range current {
		if existing.Name != incoming.Name {
			updated = append(updated, existing)
			continue
		}
		if merged {
			continue
		}
		if ptrEqual(existing.Version, incoming.Version) {
			entry := incoming
			entry.InstalledToPods = unionSorted(existing.InstalledToPods, incoming.InstalledToPods)
			updated = append(updated, entry)
		} else {
			updated = append(updated, incoming)
		}
		merged = true
	}
	if !merged {
		updated = append(updated, incoming)
	}
	sortTrunkInstalls(updated)
	return updated
}

// updateExtensionsStatus replaces status.extensions wholesale with the
// given list.
func (r *Reconciler) updateExtensionsStatus(ctx context.Context, cdb *coredbv1alpha1.CoreDB, extensions []coredbv1alpha1.ExtensionStatus) error {
	return r.patchStatusMerge(ctx, cdb, map[string]any{"extensions": extensions})
}

// updateExtensionLocationInStatus merges one location outcome into the
// current status.extensions and writes the result back.
func (r *Reconciler) updateExtensionLocationInStatus(ctx context.Context, cdb *coredbv1alpha1.CoreDB, extensionName string, loc coredbv1alpha1.ExtensionInstallLocationStatus) ([]coredbv1alpha1.ExtensionStatus, error) {
	fresh, err := r.freshCoreDB(ctx, cdb)
	if err != nil {
		return nil, err
	}
	if fresh.Status.Extensions == nil {
		// The toggle pass always records the full extension status
		// before toggling, so there is nothing sane to merge into.
		return nil, requeueAfter(300*time.Second, errors.New("no extension status present to merge a location into"))
	}

	updated := mergeLocationStatus(fresh.Status.Extensions, extensionName, loc)
	if err := r.updateExtensionsStatus(ctx, cdb, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// mergeLocationStatus sets one location in a list of extension
// statuses, keyed by (extension, database, schema): replace when the
// key exists, append otherwise, creating the extension entry if needed.
func mergeLocationStatus(current []coredbv1alpha1.ExtensionStatus, extensionName string, loc coredbv1alpha1.ExtensionInstallLocationStatus) []coredbv1alpha1.ExtensionStatus {
	updated := make([]coredbv1alpha1.ExtensionStatus, len(current))
	copy(updated, current)

	for i := range updated {
		if updated[i].Name != extensionName {
			continue
		}
		locations := make([]coredbv1alpha1.ExtensionInstallLocationStatus, len(updated[i].Locations))
		copy(locations, updated[i].Locations)
		replaced := false
		for j := range locations {
			if locations[j].Database == loc.Database && locations[j].Schema == loc.Schema {
				locations[j] = loc
				replaced = true
				break
			}
		}
		if !replaced {
			locations = append(locations, loc)
		}
		sortLocations(locations)
		updated[i].Locations = locations
		return updated
	}

	updated = append(updated, coredbv1alpha1.ExtensionStatus{
		Name:      extensionName,
		Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{loc},
	})
	sortExtensions(updated)
	return updated
}

func sortTrunkInstalls(installs []coredbv1alpha1.TrunkInstallStatus) {
	sort.SliceStable(installs, func(i, j int) bool { return installs[i].Name < installs[j].Name })
}

func sortExtensions(extensions []coredbv1alpha1.ExtensionStatus) {
	sort.SliceStable(extensions, func(i, j int) bool { return extensions[i].Name < extensions[j].Name })
}

func sortLocations(locations []coredbv1alpha1.ExtensionInstallLocationStatus) {
	sort.SliceStable(locations, func(i, j int) bool {
		if locations[i].Database != locations[j].Database {
			return locations[i].Database < locations[j].Database
		}
		return locations[i].Schema < locations[j].Schema
	})
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func unionSorted(a, b []string) []string {
	seen := map[string]bool{}
	var union []string
	for _, item := range append(append([]string{}, a...), b...) {
		if !seen[item] {
			seen[item] = true
			union = append(union, item)
		}
	}
	sort.Strings(union)
	return union
}
