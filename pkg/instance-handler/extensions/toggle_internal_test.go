package extensions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/pgconfig"
)

func TestDetermineUpdatedExtensionsStatusEmpty(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample"},
	}
	if got := determineUpdatedExtensionsStatus(cdb, nil); got != nil {
		t.Errorf("determineUpdatedExtensionsStatus = %v, want nil", got)
	}
}

// TestToggleStateMachine walks one extension through every interesting
// combination of desired, recorded and actual state: plain enables and
// disables, locations missing from the recorded status, stale errors
// that should clear once the state converges, and errors that must be
// retained so a failed location is not retried forever.
func TestToggleStateMachine(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			Extensions: []coredbv1alpha1.Extension{
				{
					Name: "ext3",
					Locations: []coredbv1alpha1.ExtensionInstallLocation{
						{Enabled: true, Database: "db1"},
					},
				},
				{
					Name: "ext1",
					Locations: []coredbv1alpha1.ExtensionInstallLocation{
						{Enabled: true, Database: "db_disabled"},
						{Enabled: false, Database: "db_enabled"},
						{Enabled: true, Database: "db_disabled_missing_from_status"},
						{Enabled: false, Database: "db_enabled_missing_from_status"},
						{Enabled: false, Database: "db_enable_failed_now_reverted"},
						{Enabled: false, Database: "db_enable_failed_because_missing_now_reverted"},
						{Enabled: true, Database: "db_not_available"},
						{Enabled: true, Database: "db_enable_failed"},
					},
				},
				{
					Name: "ext2",
					Locations: []coredbv1alpha1.ExtensionInstallLocation{
						{Enabled: false, Database: "db1"},
					},
				},
			},
		},
		Status: coredbv1alpha1.CoreDBStatus{
			Extensions: []coredbv1alpha1.ExtensionStatus{
				{
					Name: "ext1",
					Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
						{Enabled: ptr.To(false), Database: "db_disabled", Schema: "public", Error: ptr.To(false)},
						{Enabled: ptr.To(true), Database: "db_enabled", Schema: "public", Error: ptr.To(false)},
						{
							Enabled: ptr.To(false), Database: "db_enable_failed_now_reverted", Schema: "public",
							Error: ptr.To(true), ErrorMessage: ptr.To("Failed to enable extension"),
						},
						{
							Database: "db_enable_failed_because_missing_now_reverted", Schema: "public",
							Error: ptr.To(true), ErrorMessage: ptr.To("Extension is not installed"),
						},
						{
							Enabled: ptr.To(false), Database: "db_enable_failed", Schema: "public",
							Error: ptr.To(true), ErrorMessage: ptr.To("Failed to enable extension"),
						},
					},
				},
			},
		},
	}

	installed := []coredbv1alpha1.ExtensionStatus{
		{
			Name: "ext1",
			Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
				{Enabled: ptr.To(false), Database: "db_disabled", Schema: "public"},
				{Enabled: ptr.To(true), Database: "db_enabled", Schema: "public"},
				{Enabled: ptr.To(false), Database: "db_disabled_missing_from_status", Schema: "public"},
				{Enabled: ptr.To(true), Database: "db_enabled_missing_from_status", Schema: "public"},
				{Enabled: ptr.To(false), Database: "db_enable_failed_now_reverted", Schema: "public"},
				{Enabled: ptr.To(false), Database: "db_enable_failed", Schema: "public"},
			},
		},
		{
			Name: "ext2",
			Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
				{Enabled: ptr.To(true), Database: "db2", Schema: "public"},
				{Enabled: ptr.To(true), Database: "db1", Schema: "public"},
			},
		},
	}

	updates := determineUpdatedExtensionsStatus(cdb, installed)

	wantEnabled := map[string]*bool{
		"db_disabled":                     ptr.To(false),
		"db_enabled":                      ptr.To(true),
		"db_disabled_missing_from_status": ptr.To(false),
		"db_enabled_missing_from_status":  ptr.To(true),
	}
	for database, want := range wantEnabled {
		loc := locationStatusInList(updates, "ext1", database)
		if loc == nil {
			t.Fatalf("no status for ext1 in %s", database)
		}
		if diff := cmp.Diff(want, loc.Enabled); diff != "" {
			t.Errorf("enabled mismatch for %s (-want +got):\n%s", database, diff)
		}
	}

	// Reverting a failed enable converges the state, so the error clears.
	loc := locationStatusInList(updates, "ext1", "db_enable_failed_now_reverted")
	if loc == nil {
		t.Fatal("no status for ext1 in db_enable_failed_now_reverted")
	}
	if loc.Error == nil || *loc.Error {
		t.Errorf("error = %v, want false after reverting", loc.Error)
	}
	if loc.ErrorMessage != nil {
		t.Errorf("errorMessage = %q, want cleared after reverting", *loc.ErrorMessage)
	}

	// Reverting an enable that failed because the extension was missing
	// drops the location from the status entirely.
	if loc := locationStatusInList(updates, "ext1", "db_enable_failed_because_missing_now_reverted"); loc != nil {
		t.Errorf("status for reverted missing extension should be dropped, got %+v", loc)
	}

	// An enable that is still requested and still failed keeps its error.
	loc = locationStatusInList(updates, "ext1", "db_enable_failed")
	if loc == nil {
		t.Fatal("no status for ext1 in db_enable_failed")
	}
	if loc.Error == nil || !*loc.Error {
		t.Errorf("error = %v, want retained", loc.Error)
	}
	if loc.ErrorMessage == nil {
		t.Error("errorMessage should be retained")
	}

	// Requesting an extension that is not installed surfaces an errored
	// placeholder with no known enabled state.
	loc = locationStatusInList(updates, "ext1", "db_not_available")
	if loc == nil {
		t.Fatal("no status for ext1 in db_not_available")
	}
	if loc.Enabled != nil {
		t.Errorf("enabled = %v, want unknown", *loc.Enabled)
	}
	if loc.Error == nil || !*loc.Error {
		t.Errorf("error = %v, want true", loc.Error)
	}
	if loc.ErrorMessage == nil || *loc.ErrorMessage != "Extension is not installed" {
		t.Errorf("errorMessage = %v, want not-installed message", loc.ErrorMessage)
	}

	// Feed the refreshed status back and determine what to toggle.
	cdb.Status.Extensions = updates
	toggles := extensionLocationsToToggle(cdb)
	specCheck := &coredbv1alpha1.CoreDB{
		Spec: coredbv1alpha1.CoreDBSpec{Extensions: toggles},
	}

	wantToggled := map[string]bool{
		"db_disabled":                     true,
		"db_enabled":                      false,
		"db_disabled_missing_from_status": true,
		"db_enabled_missing_from_status":  false,
	}
	for database, wantEnable := range wantToggled {
		loc := locationSpecFor(specCheck, "ext1", database)
		if loc == nil {
			t.Fatalf("expected toggle for ext1 in %s", database)
		}
		if loc.Enabled != wantEnable {
			t.Errorf("toggle for %s enabled = %v, want %v", database, loc.Enabled, wantEnable)
		}
	}

	for _, database := range []string{
		"db_enable_failed_now_reverted",
		"db_enable_failed_because_missing_now_reverted",
		"db_not_available",
		"db_enable_failed",
	} {
		if loc := locationSpecFor(specCheck, "ext1", database); loc != nil {
			t.Errorf("unexpected toggle for ext1 in %s: %+v", database, loc)
		}
	}

	// A healthy location whose actual state differs from the desired one
	// toggles even without a prior status entry.
	if loc := locationSpecFor(specCheck, "ext2", "db1"); loc == nil || loc.Enabled {
		t.Errorf("toggle for ext2 in db1 = %+v, want disable", loc)
	}
	// A not-installed extension never toggles.
	if loc := locationSpecFor(specCheck, "ext3", "db1"); loc != nil {
		t.Errorf("unexpected toggle for ext3 in db1: %+v", loc)
	}
}

func TestMergeLocationStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current   []coredbv1alpha1.ExtensionStatus
		extension string
		loc       coredbv1alpha1.ExtensionInstallLocationStatus
		want      []coredbv1alpha1.ExtensionStatus
	}{
		"Replace Existing Location": {
			current: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(false), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
				},
			}},
			extension: "ext1",
			loc:       coredbv1alpha1.ExtensionInstallLocationStatus{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
			want: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
				},
			}},
		},
		"Append New Location": {
			current: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(false), Database: "db2", Schema: "schema2", Error: ptr.To(false)},
				},
			}},
			extension: "ext1",
			loc:       coredbv1alpha1.ExtensionInstallLocationStatus{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
			want: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
					{Enabled: ptr.To(false), Database: "db2", Schema: "schema2", Error: ptr.To(false)},
				},
			}},
		},
		"Same Database Different Schema Appends": {
			current: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
				},
			}},
			extension: "ext1",
			loc:       coredbv1alpha1.ExtensionInstallLocationStatus{Enabled: ptr.To(true), Database: "db1", Schema: "schema2", Error: ptr.To(false)},
			want: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext1",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema2", Error: ptr.To(false)},
				},
			}},
		},
		"Append New Extension": {
			current: []coredbv1alpha1.ExtensionStatus{{
				Name: "ext2",
				Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
					{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
				},
			}},
			extension: "ext1",
			loc:       coredbv1alpha1.ExtensionInstallLocationStatus{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
			want: []coredbv1alpha1.ExtensionStatus{
				{
					Name: "ext1",
					Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
						{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
					},
				},
				{
					Name: "ext2",
					Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{
						{Enabled: ptr.To(true), Database: "db1", Schema: "schema1", Error: ptr.To(false)},
					},
				},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := mergeLocationStatus(tc.current, tc.extension, tc.loc)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mergeLocationStatus mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpectingSharedPreloadLibrary(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		runtimeConfig []coredbv1alpha1.PgConfig
		library       string
		want          bool
	}{
		"Library Configured": {
			runtimeConfig: []coredbv1alpha1.PgConfig{
				{Name: pgconfig.ParamSharedPreloadLibraries, Value: "pg_cron,pg_stat_statements"},
			},
			library: "pg_cron",
			want:    true,
		},
		"Other Library Configured": {
			runtimeConfig: []coredbv1alpha1.PgConfig{
				{Name: pgconfig.ParamSharedPreloadLibraries, Value: "pg_cron,pg_stat_statements"},
			},
			library: "pgaudit",
			want:    false,
		},
		"Nothing Configured": {
			library: "pg_cron",
			want:    false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cdb := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{Name: "sample"},
				Spec:       coredbv1alpha1.CoreDBSpec{RuntimeConfig: tc.runtimeConfig},
			}
			if got := expectingSharedPreloadLibrary(cdb, tc.library); got != tc.want {
				t.Errorf("expectingSharedPreloadLibrary(%q) = %v, want %v", tc.library, got, tc.want)
			}
		})
	}
}
