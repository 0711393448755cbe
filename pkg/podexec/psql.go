package podexec

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDatabaseShuttingDown reports that psql reached the server while it
// was stopping. Callers retry after a short delay instead of recording
// a failure.
var ErrDatabaseShuttingDown = errors.New("the database system is shutting down")

// Psql runs a single SQL command through psql in the named pod,
// connecting over the local socket to the given database. The
// application_name marks the session as operator-issued in
// pg_stat_activity.
func Psql(ctx context.Context, exec PodExecutor, namespace, pod, database, sql string) (*ExecOutput, error) {
	command := []string{
		"psql",
		fmt.Sprintf("postgres://?dbname=%s&application_name=coredb-system", database),
		"-c",
		sql,
	}
	out, err := exec.Exec(ctx, namespace, pod, command)
	if err != nil {
		return nil, err
	}
	if !out.Success && strings.Contains(out.Stderr, "the database system is shutting down") {
		return nil, ErrDatabaseShuttingDown
	}
	return out, nil
}
