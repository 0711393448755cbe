package podexec_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

// fakeExecutor records the last call and replays canned results.
type fakeExecutor struct {
	out *podexec.ExecOutput
	err error

	gotNamespace string
	gotPod       string
	gotCommand   []string
}

func (f *fakeExecutor) Exec(_ context.Context, namespace, pod string, command []string) (*podexec.ExecOutput, error) {
	f.gotNamespace = namespace
	f.gotPod = pod
	f.gotCommand = command
	return f.out, f.err
}

func TestExecOutputField(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stdout string
		index  int
		want   string
	}{
		"Single Column Single Row": {
			stdout: " shared_preload_libraries \n" +
				"---------------------------\n" +
				" pg_stat_statements\n" +
				"(1 row)\n",
			index: 0,
			want:  "pg_stat_statements",
		},
		"Second Column": {
			stdout: "     name     | setting \n" +
				"--------------+---------\n" +
				" max_wal_size | 1024\n" +
				"(1 row)\n",
			index: 1,
			want:  "1024",
		},
		"First Column Of Multi Column Row": {
			stdout: "     name     | setting \n" +
				"--------------+---------\n" +
				" max_wal_size | 1024\n" +
				"(1 row)\n",
			index: 0,
			want:  "max_wal_size",
		},
		"Index Past Last Column": {
			stdout: " shared_preload_libraries \n" +
				"---------------------------\n" +
				" pg_stat_statements\n" +
				"(1 row)\n",
			index: 3,
			want:  "",
		},
		"No Data Rows": {
			stdout: " datname \n---------\n",
			index:  0,
			want:   "",
		},
		"Empty Output": {
			stdout: "",
			index:  0,
			want:   "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out := &podexec.ExecOutput{Stdout: tc.stdout, Success: true}
			if got := out.Field(tc.index); got != tc.want {
				t.Errorf("Field(%d) = %q, want %q", tc.index, got, tc.want)
			}
		})
	}
}

func TestPsql(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("error dialing backend: EOF")

	tests := map[string]struct {
		execOut *podexec.ExecOutput
		execErr error
		wantOut *podexec.ExecOutput
		wantErr error
	}{
		"Successful Query": {
			execOut: &podexec.ExecOutput{
				Stdout:  " datname \n---------\n postgres\n(1 row)\n",
				Success: true,
			},
			wantOut: &podexec.ExecOutput{
				Stdout:  " datname \n---------\n postgres\n(1 row)\n",
				Success: true,
			},
		},
		"Query Error Is Not A Transport Error": {
			execOut: &podexec.ExecOutput{
				Stderr:  `ERROR:  relation "missing" does not exist`,
				Success: false,
			},
			wantOut: &podexec.ExecOutput{
				Stderr:  `ERROR:  relation "missing" does not exist`,
				Success: false,
			},
		},
		"Server Shutting Down Is Retryable": {
			execOut: &podexec.ExecOutput{
				Stderr:  "psql: error: FATAL:  the database system is shutting down\n",
				Success: false,
			},
			wantErr: podexec.ErrDatabaseShuttingDown,
		},
		"Transport Error Propagates": {
			execErr: transportErr,
			wantErr: transportErr,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			exec := &fakeExecutor{out: tc.execOut, err: tc.execErr}
			got, err := podexec.Psql(context.Background(), exec, "default", "test-db-1", "app", "SELECT datname FROM pg_database;")

			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Psql() error = %v, want %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.wantOut, got); diff != "" {
				t.Errorf("Psql() output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPsqlCommand(t *testing.T) {
	t.Parallel()

	exec := &fakeExecutor{out: &podexec.ExecOutput{Success: true}}
	if _, err := podexec.Psql(context.Background(), exec, "prod", "orders-db-1", "orders", "SELECT 1;"); err != nil {
		t.Fatalf("Psql() unexpected error: %v", err)
	}

	wantCommand := []string{
		"psql",
		"postgres://?dbname=orders&application_name=coredb-system",
		"-c",
		"SELECT 1;",
	}
	if diff := cmp.Diff(wantCommand, exec.gotCommand); diff != "" {
		t.Errorf("psql command mismatch (-want +got):\n%s", diff)
	}
	if exec.gotNamespace != "prod" || exec.gotPod != "orders-db-1" {
		t.Errorf("Exec() called with %s/%s, want prod/orders-db-1", exec.gotNamespace, exec.gotPod)
	}
}
