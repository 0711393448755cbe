package extensions_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/extensions"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

// fakeExec scripts pod command outcomes and records every call.
type fakeExec struct {
	calls [][]string
	run   func(namespace, pod string, command []string) (*podexec.ExecOutput, error)
}

func (f *fakeExec) Exec(_ context.Context, namespace, pod string, command []string) (*podexec.ExecOutput, error) {
	f.calls = append(f.calls, command)
	return f.run(namespace, pod, command)
}

func (f *fakeExec) trunkCalls() [][]string {
	var calls [][]string
	for _, call := range f.calls {
		if call[0] == "trunk" {
			calls = append(calls, call)
		}
	}
	return calls
}

func (f *fakeExec) sqlCalls(fragment string) int {
	count := 0
	for _, call := range f.calls {
		if call[0] == "psql" && strings.Contains(call[3], fragment) {
			count++
		}
	}
	return count
}

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := coredbv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("adding scheme: %v", err)
	}
	return scheme
}

func newCoreDBClient(t *testing.T, cdb *coredbv1alpha1.CoreDB) client.Client {
	t.Helper()
	return fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(cdb).
		WithStatusSubresource(&coredbv1alpha1.CoreDB{}).
		Build()
}

func TestReconcileTrunkInstallsInstallsToEveryPod(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			TrunkInstalls: []coredbv1alpha1.TrunkInstall{
				{Name: "pgmq", Version: ptr.To("1.1.0")},
			},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, _ []string) (*podexec.ExecOutput, error) {
		return &podexec.ExecOutput{Success: true, Stdout: "installed pgmq 1.1.0"}, nil
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileTrunkInstalls(context.Background(), cdb, []string{"sample-1", "sample-2"})
	if err != nil {
		t.Fatalf("ReconcileTrunkInstalls returned error: %v", err)
	}

	want := []coredbv1alpha1.TrunkInstallStatus{{
		Name:            "pgmq",
		Version:         ptr.To("1.1.0"),
		InstalledToPods: []string{"sample-1", "sample-2"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	wantCmd := []string{"trunk", "install", "-r", "https://registry.pgtrunk.io", "pgmq", "--version", "1.1.0"}
	trunkCalls := exec.trunkCalls()
	if len(trunkCalls) != 2 {
		t.Fatalf("trunk ran %d times, want 2", len(trunkCalls))
	}
	if diff := cmp.Diff(wantCmd, trunkCalls[0]); diff != "" {
		t.Errorf("trunk command mismatch (-want +got):\n%s", diff)
	}

	stored := &coredbv1alpha1.CoreDB{}
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(cdb), stored); err != nil {
		t.Fatalf("reading back CoreDB: %v", err)
	}
	if diff := cmp.Diff(want, stored.Status.TrunkInstalls); diff != "" {
		t.Errorf("stored status mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileTrunkInstallsDoesNotRetryRecordedFailure(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			TrunkInstalls: []coredbv1alpha1.TrunkInstall{
				{Name: "plrust", Version: ptr.To("1.2.3")},
			},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, _ []string) (*podexec.ExecOutput, error) {
		return &podexec.ExecOutput{Success: false, Stderr: "error: rustc not found"}, nil
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileTrunkInstalls(context.Background(), cdb, []string{"sample-1"})
	if err != nil {
		t.Fatalf("ReconcileTrunkInstalls returned error: %v", err)
	}

	want := []coredbv1alpha1.TrunkInstallStatus{{
		Name:            "plrust",
		Version:         ptr.To("1.2.3"),
		Error:           true,
		ErrorMessage:    ptr.To("Nothing in stdout\nerror: rustc not found"),
		InstalledToPods: []string{"sample-1"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if len(exec.trunkCalls()) != 1 {
		t.Fatalf("trunk ran %d times, want 1", len(exec.trunkCalls()))
	}

	// A second pass with the same spec sees the recorded failure and
	// leaves the pod alone.
	fresh := &coredbv1alpha1.CoreDB{}
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(cdb), fresh); err != nil {
		t.Fatalf("reading back CoreDB: %v", err)
	}
	got, err = r.ReconcileTrunkInstalls(context.Background(), fresh, []string{"sample-1"})
	if err != nil {
		t.Fatalf("second ReconcileTrunkInstalls returned error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("second result mismatch (-want +got):\n%s", diff)
	}
	if len(exec.trunkCalls()) != 1 {
		t.Errorf("trunk ran %d times after second pass, want still 1", len(exec.trunkCalls()))
	}
}

func TestReconcileTrunkInstallsMissingVersion(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			TrunkInstalls: []coredbv1alpha1.TrunkInstall{
				{Name: "pgmq"},
			},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		return nil, fmt.Errorf("unexpected command %v", command)
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileTrunkInstalls(context.Background(), cdb, []string{"sample-1"})
	if err != nil {
		t.Fatalf("ReconcileTrunkInstalls returned error: %v", err)
	}

	want := []coredbv1alpha1.TrunkInstallStatus{{
		Name:         "pgmq",
		Error:        true,
		ErrorMessage: ptr.To("Missing version"),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if len(exec.calls) != 0 {
		t.Errorf("exec ran %d times, want none for a missing version", len(exec.calls))
	}
}

func TestReconcileTrunkInstallsPrunesRemovedEntries(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Status: coredbv1alpha1.CoreDBStatus{
			TrunkInstalls: []coredbv1alpha1.TrunkInstallStatus{{
				Name:            "old_ext",
				Version:         ptr.To("0.1.0"),
				Error:           true,
				ErrorMessage:    ptr.To("Nothing in stdout\nbuild failed"),
				InstalledToPods: []string{"sample-1"},
			}},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		return nil, fmt.Errorf("unexpected command %v", command)
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileTrunkInstalls(context.Background(), cdb, []string{"sample-1"})
	if err != nil {
		t.Fatalf("ReconcileTrunkInstalls returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("result = %+v, want pruned empty list", got)
	}

	stored := &coredbv1alpha1.CoreDB{}
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(cdb), stored); err != nil {
		t.Fatalf("reading back CoreDB: %v", err)
	}
	if len(stored.Status.TrunkInstalls) != 0 {
		t.Errorf("stored status = %+v, want pruned empty list", stored.Status.TrunkInstalls)
	}
}

func TestReconcileTrunkInstallsTransportErrorRequeues(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			TrunkInstalls: []coredbv1alpha1.TrunkInstall{
				{Name: "pg_partman", Version: ptr.To("4.7.3")},
				{Name: "pgmq", Version: ptr.To("1.1.0")},
			},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		if command[4] == "pg_partman" {
			return nil, errors.New("dial tcp: connection refused")
		}
		return &podexec.ExecOutput{Success: true, Stdout: "installed"}, nil
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	_, err := r.ReconcileTrunkInstalls(context.Background(), cdb, []string{"sample-1"})
	var requeue *extensions.RequeueError
	if !errors.As(err, &requeue) {
		t.Fatalf("error = %v, want RequeueError", err)
	}
	if requeue.After != 10*time.Second {
		t.Errorf("requeue after %s, want 10s", requeue.After)
	}

	// The remaining install still ran and its outcome was recorded, only
	// the unreachable one is left for the retry.
	stored := &coredbv1alpha1.CoreDB{}
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(cdb), stored); err != nil {
		t.Fatalf("reading back CoreDB: %v", err)
	}
	want := []coredbv1alpha1.TrunkInstallStatus{{
		Name:            "pgmq",
		Version:         ptr.To("1.1.0"),
		InstalledToPods: []string{"sample-1"},
	}}
	if diff := cmp.Diff(want, stored.Status.TrunkInstalls); diff != "" {
		t.Errorf("stored status mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileExtensionTogglesEnablesExtension(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			Extensions: []coredbv1alpha1.Extension{{
				Name: "pgmq",
				Locations: []coredbv1alpha1.ExtensionInstallLocation{
					{Enabled: true, Database: "postgres"},
				},
			}},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		if command[0] == "/bin/bash" {
			return &podexec.ExecOutput{Success: true, Stdout: "pgmq\n"}, nil
		}
		sql := command[3]
		switch {
		case strings.Contains(sql, "pg_database"):
			return &podexec.ExecOutput{Success: true, Stdout: ` datname
----------
 postgres
(1 row)
`}, nil
		case strings.Contains(sql, "pg_available_extensions"):
			return &podexec.ExecOutput{Success: true, Stdout: ` name | version | enabled | schema | description
------+---------+---------+--------+--------------
 pgmq | 1.1.0   | f       | public | message queue
(1 row)
`}, nil
		case strings.Contains(sql, "shared_preload_libraries"):
			return &podexec.ExecOutput{Success: true, Stdout: ` shared_preload_libraries
--------------------------
(0 rows)
`}, nil
		case strings.Contains(sql, "CREATE EXTENSION"):
			return &podexec.ExecOutput{Success: true, Stdout: "CREATE EXTENSION"}, nil
		}
		return nil, fmt.Errorf("unexpected sql %q", sql)
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileExtensionToggles(context.Background(), cdb, "sample-1")
	if err != nil {
		t.Fatalf("ReconcileExtensionToggles returned error: %v", err)
	}

	want := []coredbv1alpha1.ExtensionStatus{{
		Name:        "pgmq",
		Description: "message queue",
		Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{{
			Enabled:  ptr.To(false),
			Database: "postgres",
			Schema:   "public",
			Version:  ptr.To("1.1.0"),
			Error:    ptr.To(false),
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	if calls := exec.sqlCalls(`CREATE EXTENSION IF NOT EXISTS "pgmq" CASCADE;`); calls != 1 {
		t.Errorf("CREATE EXTENSION ran %d times, want 1", calls)
	}

	stored := &coredbv1alpha1.CoreDB{}
	if err := c.Get(context.Background(), client.ObjectKeyFromObject(cdb), stored); err != nil {
		t.Fatalf("reading back CoreDB: %v", err)
	}
	if diff := cmp.Diff(want, stored.Status.Extensions); diff != "" {
		t.Errorf("stored status mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileExtensionTogglesWaitsForPreload(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			Extensions: []coredbv1alpha1.Extension{{
				Name: "pg_cron",
				Locations: []coredbv1alpha1.ExtensionInstallLocation{
					{Enabled: true, Database: "postgres"},
				},
			}},
			RuntimeConfig: []coredbv1alpha1.PgConfig{
				{Name: "shared_preload_libraries", Value: "pg_cron"},
			},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		if command[0] == "/bin/bash" {
			return &podexec.ExecOutput{Success: true, Stdout: "pg_cron\n"}, nil
		}
		sql := command[3]
		switch {
		case strings.Contains(sql, "pg_database"):
			return &podexec.ExecOutput{Success: true, Stdout: ` datname
----------
 postgres
(1 row)
`}, nil
		case strings.Contains(sql, "pg_available_extensions"):
			return &podexec.ExecOutput{Success: true, Stdout: ` name | version | enabled | schema | description
------+---------+---------+--------+--------------
(0 rows)
`}, nil
		case strings.Contains(sql, "shared_preload_libraries"):
			return &podexec.ExecOutput{Success: true, Stdout: ` shared_preload_libraries
--------------------------
(0 rows)
`}, nil
		}
		return nil, fmt.Errorf("unexpected sql %q", sql)
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	_, err := r.ReconcileExtensionToggles(context.Background(), cdb, "sample-1")
	var requeue *extensions.RequeueError
	if !errors.As(err, &requeue) {
		t.Fatalf("error = %v, want RequeueError while awaiting restart", err)
	}
	if requeue.After != 10*time.Second {
		t.Errorf("requeue after %s, want 10s", requeue.After)
	}
	if calls := exec.sqlCalls("CREATE EXTENSION"); calls != 0 {
		t.Errorf("CREATE EXTENSION ran %d times, want none while awaiting restart", calls)
	}
}

func TestReconcileExtensionTogglesRecordsMissingExtension(t *testing.T) {
	t.Parallel()

	cdb := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: "sample", Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			Extensions: []coredbv1alpha1.Extension{{
				Name: "pgvector",
				Locations: []coredbv1alpha1.ExtensionInstallLocation{
					{Enabled: true, Database: "postgres", Version: ptr.To("0.5.0")},
				},
			}},
		},
	}
	c := newCoreDBClient(t, cdb)
	exec := &fakeExec{run: func(_, _ string, command []string) (*podexec.ExecOutput, error) {
		if command[0] == "/bin/bash" {
			return &podexec.ExecOutput{Success: true, Stdout: "plpgsql\n"}, nil
		}
		sql := command[3]
		switch {
		case strings.Contains(sql, "pg_database"):
			return &podexec.ExecOutput{Success: true, Stdout: ` datname
----------
 postgres
(1 row)
`}, nil
		case strings.Contains(sql, "pg_available_extensions"):
			return &podexec.ExecOutput{Success: true, Stdout: ` name | version | enabled | schema | description
------+---------+---------+--------+--------------
(0 rows)
`}, nil
		case strings.Contains(sql, "shared_preload_libraries"):
			return &podexec.ExecOutput{Success: true, Stdout: ` shared_preload_libraries
--------------------------
(0 rows)
`}, nil
		}
		return nil, fmt.Errorf("unexpected sql %q", sql)
	}}
	r := &extensions.Reconciler{Client: c, Exec: exec}

	got, err := r.ReconcileExtensionToggles(context.Background(), cdb, "sample-1")
	if err != nil {
		t.Fatalf("ReconcileExtensionToggles returned error: %v", err)
	}

	want := []coredbv1alpha1.ExtensionStatus{{
		Name: "pgvector",
		Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{{
			Database:     "postgres",
			Version:      ptr.To("0.5.0"),
			Error:        ptr.To(true),
			ErrorMessage: ptr.To("Extension is not installed"),
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if calls := exec.sqlCalls("CREATE EXTENSION"); calls != 0 {
		t.Errorf("CREATE EXTENSION ran %d times, want none for a missing extension", calls)
	}
}
