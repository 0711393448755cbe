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
	"github.com/coredb-io/coredb-operator/pkg/pgconfig"
)

// ReconcileExtensionToggles converges the enabled state of every
// extension location against the primary pod. The observed state is
// written to the status first, so a toggle only ever runs against a
// location whose status was just refreshed.
func (r *Reconciler) ReconcileExtensionToggles(ctx context.Context, cdb *coredbv1alpha1.CoreDB, primaryPod string) ([]coredbv1alpha1.ExtensionStatus, error) {
	installed, err := r.allInstalledExtensions(ctx, cdb, primaryPod)
	if err != nil {
		return nil, err
	}
	updates := determineUpdatedExtensionsStatus(cdb, installed)
	if err := r.updateExtensionsStatus(ctx, cdb, updates); err != nil {
		return nil, err
	}
	fresh, err := r.freshCoreDB(ctx, cdb)
	if err != nil {
		return nil, err
	}
	toggles := extensionLocationsToToggle(fresh)
	return r.toggleExtensions(ctx, fresh, primaryPod, updates, toggles)
}

// toggleExtensions applies the pending toggles one location at a time.
// Terminal failures are recorded on the location status and do not stop
// the loop; transport failures requeue the pass.
func (r *Reconciler) toggleExtensions(ctx context.Context, cdb *coredbv1alpha1.CoreDB, primaryPod string, updates []coredbv1alpha1.ExtensionStatus, toggles []coredbv1alpha1.Extension) ([]coredbv1alpha1.ExtensionStatus, error) {
	logger := log.FromContext(ctx)

	preloaded, err := r.listSharedPreloadLibraries(ctx, cdb, primaryPod)
	if err != nil {
		return nil, err
	}

	for _, ext := range toggles {
		for _, loc := range ext.Locations {
			if loc.Enabled && requiresLoadLibrary(ext.Name) && !contains(preloaded, ext.Name) {
				if expectingSharedPreloadLibrary(cdb, ext.Name) {
					// The library is configured but the server has not
					// restarted with it yet. Hold off until it has.
					logger.Info("Waiting for configured library to be preloaded before enabling extension",
						"extension", ext.Name)
					return nil, requeueAfter(10*time.Second,
						fmt.Errorf("extension %s requires a library that is not preloaded yet", ext.Name))
				}
				logger.Info("Extension requires a library that is not configured for preload, attempting anyway",
					"extension", ext.Name)
			}

			err := r.createOrDropExtension(ctx, cdb, primaryPod, ext.Name, loc)
			monitoring.RecordExtensionChange(toggleAction(loc), err)
			if err == nil {
				continue
			}
			var locErr *LocationError
			if !errors.As(err, &locErr) {
				return nil, err
			}
			status := locationStatusFor(cdb, ext.Name, loc.Database)
			if status == nil {
				// Locations only reach the toggle list with a recorded
				// status, so this path means the status was lost since.
				logger.Info("No recorded status for toggled location, recording the failure fresh",
					"extension", ext.Name, "database", loc.Database)
				status = &coredbv1alpha1.ExtensionInstallLocationStatus{Database: loc.Database}
			}
			status.Error = ptr.To(true)
			status.ErrorMessage = ptr.To(locErr.Message)
			updated, err := r.updateExtensionLocationInStatus(ctx, cdb, ext.Name, *status)
			if err != nil {
				return nil, err
			}
			updates = updated
		}
	}
	return updates, nil
}

func toggleAction(loc coredbv1alpha1.ExtensionInstallLocation) string {
	if loc.Enabled {
		return "enable"
	}
	return "disable"
}

// expectingSharedPreloadLibrary reports whether the merged
// configuration asks for the library, meaning a pending restart will
// bring it into shared_preload_libraries.
func expectingSharedPreloadLibrary(cdb *coredbv1alpha1.CoreDB, library string) bool {
	for _, cfg := range pgconfig.Merge(&cdb.Spec) {
		if cfg.Name != pgconfig.ParamSharedPreloadLibraries {
			continue
		}
		return contains(pgconfig.Values(cfg.Value), library)
	}
	return false
}

// determineUpdatedExtensionsStatus builds the next extensions status
// from the actually-installed view. Recorded errors are retained while
// the location's schema is unchanged and cleared once the actual state
// matches the desired one. Spec locations that want an extension which
// is not installed at all are surfaced as errored entries.
func determineUpdatedExtensionsStatus(cdb *coredbv1alpha1.CoreDB, installed []coredbv1alpha1.ExtensionStatus) []coredbv1alpha1.ExtensionStatus {
	var updates []coredbv1alpha1.ExtensionStatus
	for _, actual := range installed {
		ext := coredbv1alpha1.ExtensionStatus{
			Name:        actual.Name,
			Description: actual.Description,
		}
		for _, actualLoc := range actual.Locations {
			loc := coredbv1alpha1.ExtensionInstallLocationStatus{
				Enabled:  actualLoc.Enabled,
				Database: actualLoc.Database,
				Schema:   actualLoc.Schema,
				Version:  actualLoc.Version,
				Error:    ptr.To(false),
			}
			if current := locationStatusFor(cdb, actual.Name, actualLoc.Database); current != nil && current.Schema == actualLoc.Schema {
				loc.Error = current.Error
				loc.ErrorMessage = current.ErrorMessage
			}
			if desired := locationSpecFor(cdb, actual.Name, actualLoc.Database); desired != nil &&
				actualLoc.Enabled != nil && *actualLoc.Enabled == desired.Enabled {
				loc.Error = ptr.To(false)
				loc.ErrorMessage = nil
			}
			ext.Locations = append(ext.Locations, loc)
		}
		ext.Locations = dedupeLocationsByDatabase(ext.Locations)
		sortLocations(ext.Locations)
		updates = append(updates, ext)
	}

	for _, desired := range cdb.Spec.Extensions {
		for _, desiredLoc := range desired.Locations {
			if !desiredLoc.Enabled || locationStatusInList(updates, desired.Name, desiredLoc.Database) != nil {
				continue
			}
			updates = mergeLocationStatus(updates, desired.Name, coredbv1alpha1.ExtensionInstallLocationStatus{
				Database:     desiredLoc.Database,
				Version:      desiredLoc.Version,
				Error:        ptr.To(true),
				ErrorMessage: ptr.To("Extension is not installed"),
			})
		}
	}

	updates = dedupeExtensionsByName(updates)
	sortExtensions(updates)
	return updates
}

// extensionLocationsToToggle selects spec locations whose recorded
// state is healthy, known and different from the desired state. Errored
// or unevaluated locations are left alone until a later pass refreshes
// them.
func extensionLocationsToToggle(cdb *coredbv1alpha1.CoreDB) []coredbv1alpha1.Extension {
	var toggles []coredbv1alpha1.Extension
	for _, desired := range cdb.Spec.Extensions {
		toggle := coredbv1alpha1.Extension{
			Name:        desired.Name,
			Description: desired.Description,
		}
		for _, desiredLoc := range desired.Locations {
			status := locationStatusFor(cdb, desired.Name, desiredLoc.Database)
			if status == nil || status.Error == nil {
				continue
			}
			if !*status.Error && status.Enabled != nil && *status.Enabled != desiredLoc.Enabled {
				toggle.Locations = append(toggle.Locations, desiredLoc)
			}
		}
		if len(toggle.Locations) > 0 {
			toggles = append(toggles, toggle)
		}
	}
	return toggles
}

// extensionStatusFor returns the recorded status entry of one
// extension, or nil when none is recorded.
func extensionStatusFor(cdb *coredbv1alpha1.CoreDB, name string) *coredbv1alpha1.ExtensionStatus {
	for i := range cdb.Status.Extensions {
		if cdb.Status.Extensions[i].Name == name {
			return &cdb.Status.Extensions[i]
		}
	}
	return nil
}

// locationStatusFor returns a copy of the recorded status of one
// extension location, matched by database.
func locationStatusFor(cdb *coredbv1alpha1.CoreDB, extensionName, database string) *coredbv1alpha1.ExtensionInstallLocationStatus {
	return locationStatusInList(cdb.Status.Extensions, extensionName, database)
}

func locationStatusInList(extensions []coredbv1alpha1.ExtensionStatus, extensionName, database string) *coredbv1alpha1.ExtensionInstallLocationStatus {
	for _, ext := range extensions {
		if ext.Name != extensionName {
			continue
		}
		for _, loc := range ext.Locations {
			if loc.Database == database {
				return &loc
			}
		}
	}
	return nil
}

// locationSpecFor returns the desired spec of one extension location,
// matched by database.
func locationSpecFor(cdb *coredbv1alpha1.CoreDB, extensionName, database string) *coredbv1alpha1.ExtensionInstallLocation {
	for _, ext := range cdb.Spec.Extensions {
		if ext.Name != extensionName {
			continue
		}
		for _, loc := range ext.Locations {
			if loc.Database == database {
				return &loc
			}
		}
	}
	return nil
}

func dedupeLocationsByDatabase(locations []coredbv1alpha1.ExtensionInstallLocationStatus) []coredbv1alpha1.ExtensionInstallLocationStatus {
	seen := make(map[string]struct{})
	var out []coredbv1alpha1.ExtensionInstallLocationStatus
	for _, loc := range locations {
		if _, dup := seen[loc.Database]; dup {
			continue
		}
		seen[loc.Database] = struct{}{}
		out = append(out, loc)
	}
	return out
}

func dedupeExtensionsByName(extensions []coredbv1alpha1.ExtensionStatus) []coredbv1alpha1.ExtensionStatus {
	seen := make(map[string]struct{})
	var out []coredbv1alpha1.ExtensionStatus
	for _, ext := range extensions {
		if _, dup := seen[ext.Name]; dup {
			continue
		}
		seen[ext.Name] = struct{}{}
		out = append(out, ext)
	}
	return out
}
