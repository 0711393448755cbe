package extensions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

func TestTrunkInstallsToRemove(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "coredb1"},
		Spec: coredbv1alpha1.CoreDBSpec{
			TrunkInstalls: []coredbv1alpha1.TrunkInstall{
				{Name: "install1", Version: ptr.To("1.0")},
				{Name: "install2", Version: ptr.To("1.0")},
			},
		},
		Status: coredbv1alpha1.CoreDBStatus{
			TrunkInstalls: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "install1", Version: ptr.To("1.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
				{Name: "install2", Version: ptr.To("1.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
				{Name: "install3", Version: ptr.To("1.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
		},
	}

	got := trunkInstallsToRemove(cdb)
	if diff := cmp.Diff([]string{"install3"}, got); diff != "" {
		t.Errorf("trunkInstallsToRemove mismatch (-want +got):\n%s", diff)
	}
}

func TestTrunkInstallsForPod(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec   []coredbv1alpha1.TrunkInstall
		status []coredbv1alpha1.TrunkInstallStatus
		pod    string
		want   []string
	}{
		"Missing From Status": {
			spec: []coredbv1alpha1.TrunkInstall{
				{Name: "install1", Version: ptr.To("1.0")},
				{Name: "install2", Version: ptr.To("1.0")},
				{Name: "install3", Version: ptr.To("1.0")},
			},
			status: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "install1", Version: ptr.To("1.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			pod:  "test-coredb-24631-1",
			want: []string{"install2", "install3"},
		},
		"Recorded Failure Is Not Retried": {
			spec: []coredbv1alpha1.TrunkInstall{
				{Name: "install1", Version: ptr.To("1.0")},
			},
			status: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "install1", Version: ptr.To("1.0"), Error: true, ErrorMessage: ptr.To("compile failed")},
			},
			pod:  "test-coredb-24631-1",
			want: nil,
		},
		"Installed On Other Pod Only": {
			spec: []coredbv1alpha1.TrunkInstall{
				{Name: "install1", Version: ptr.To("1.0")},
			},
			status: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "install1", Version: ptr.To("1.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			pod:  "test-coredb-24631-2",
			want: []string{"install1"},
		},
		"No Status": {
			spec: []coredbv1alpha1.TrunkInstall{
				{Name: "install1", Version: ptr.To("1.0")},
			},
			pod:  "test-coredb-24631-1",
			want: []string{"install1"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cdb := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{Name: "coredb1"},
				Spec:       coredbv1alpha1.CoreDBSpec{TrunkInstalls: tc.spec},
				Status:     coredbv1alpha1.CoreDBStatus{TrunkInstalls: tc.status},
			}

			var got []string
			for _, install := range trunkInstallsForPod(cdb, tc.pod) {
				got = append(got, install.Name)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("trunkInstallsForPod mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeTrunkInstall(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current  []coredbv1alpha1.TrunkInstallStatus
		incoming coredbv1alpha1.TrunkInstallStatus
		want     []coredbv1alpha1.TrunkInstallStatus
	}{
		"Existing Entry Without Pods": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pg_stat_statements", Version: ptr.To("1.0")},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "pg_stat_statements", Version: ptr.To("1.0"),
				InstalledToPods: []string{"pod-1", "pod-2"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pg_stat_statements", Version: ptr.To("1.0"), InstalledToPods: []string{"pod-1", "pod-2"}},
			},
		},
		"Same Name New Pod": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "test_name", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "test_name", Version: ptr.To("1.0.0"),
				InstalledToPods: []string{"test-coredb-24631-2"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "test_name", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"}},
			},
		},
		"Second Entry Same Name New Pod": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "test_name", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"}},
				{Name: "test_name2", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "test_name2", Version: ptr.To("1.0.0"),
				InstalledToPods: []string{"test-coredb-24631-2"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "test_name", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"}},
				{Name: "test_name2", Version: ptr.To("1.0.0"), InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"}},
			},
		},
		"Version Change Replaces Entry": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pg_partman", Version: ptr.To("4.7.3"), InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"}},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "pg_partman", Version: ptr.To("5.0.0"),
				InstalledToPods: []string{"test-coredb-24631-1"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pg_partman", Version: ptr.To("5.0.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
		},
		"Failure Replaces Success Outcome": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pgmq", Version: ptr.To("0.10.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "pgmq", Version: ptr.To("0.10.0"),
				Error: true, ErrorMessage: ptr.To("make failed\nNothing in stderr"),
				InstalledToPods: []string{"test-coredb-24631-2"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{
					Name: "pgmq", Version: ptr.To("0.10.0"),
					Error: true, ErrorMessage: ptr.To("make failed\nNothing in stderr"),
					InstalledToPods: []string{"test-coredb-24631-1", "test-coredb-24631-2"},
				},
			},
		},
		"New Name Appended Sorted": {
			current: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pgmq", Version: ptr.To("0.10.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
			incoming: coredbv1alpha1.TrunkInstallStatus{
				Name: "pg_partman", Version: ptr.To("4.7.3"),
				InstalledToPods: []string{"test-coredb-24631-1"},
			},
			want: []coredbv1alpha1.TrunkInstallStatus{
				{Name: "pg_partman", Version: ptr.To("4.7.3"), InstalledToPods: []string{"test-coredb-24631-1"}},
				{Name: "pgmq", Version: ptr.To("0.10.0"), InstalledToPods: []string{"test-coredb-24631-1"}},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := mergeTrunkInstall(tc.current, tc.incoming)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mergeTrunkInstall mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCombinedOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stdout string
		stderr string
		want   string
	}{
		"Both Streams": {stdout: "installing", stderr: "warning", want: "installing\nwarning"},
		"Stdout Only":  {stdout: "installing", want: "installing\nNothing in stderr"},
		"Stderr Only":  {stderr: "compile error", want: "Nothing in stdout\ncompile error"},
		"Both Silent":  {want: "Nothing in stdout\nNothing in stderr"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := combinedOutput(tc.stdout, tc.stderr); got != tc.want {
				t.Errorf("combinedOutput = %q, want %q", got, tc.want)
			}
		})
	}
}
