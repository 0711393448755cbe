// Package podexec runs commands inside the Postgres container of an
// instance pod over the Kubernetes exec subresource.
//
// Command outcomes are split into two classes. A command that ran and
// exited, successfully or not, yields an ExecOutput with the captured
// streams and Success reflecting the exit status. A command that never
// ran to completion, because the SPDY stream could not be established
// or broke mid-flight, yields an error; callers treat that class as
// retryable.
package podexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"
)

// PostgresContainerName is the container commands are executed in. Every
// instance pod carries exactly one container by this name.
const PostgresContainerName = "postgres"

// ExecOutput holds the captured streams of a command that ran to
// completion inside a pod.
type ExecOutput struct {
	Stdout  string
	Stderr  string
	Success bool
}

// Field returns the i-th column of the first data row of aligned psql
// output, with surrounding whitespace trimmed. psql prints a header
// row, a separator row, then data rows with columns separated by pipes.
// It returns "" when the output has no data row or fewer columns.
func (o *ExecOutput) Field(i int) string {
	lines := strings.Split(o.Stdout, "\n")
	if len(lines) < 3 {
		return ""
	}
	fields := strings.Split(lines[2], "|")
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// PodExecutor runs a command in the Postgres container of a pod.
// Implementations return (output, nil) whenever the command ran to an
// exit status, and a non-nil error only for transport failures.
type PodExecutor interface {
	Exec(ctx context.Context, namespace, pod string, command []string) (*ExecOutput, error)
}

// SPDYExecutor executes commands through the API server's exec
// subresource using a SPDY stream.
type SPDYExecutor struct {
	restConfig *rest.Config
	clientset  kubernetes.Interface
}

var _ PodExecutor = &SPDYExecutor{}

// NewSPDYExecutor builds an executor from a rest config, typically the
// manager's.
func NewSPDYExecutor(cfg *rest.Config) (*SPDYExecutor, error) {
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating clientset for pod exec: %w", err)
	}
	return &SPDYExecutor{restConfig: cfg, clientset: clientset}, nil
}

// Exec runs command in the Postgres container of the named pod and
// captures stdout and stderr. A non-zero exit status is reported
// through ExecOutput.Success, not as an error.
func (e *SPDYExecutor) Exec(ctx context.Context, namespace, pod string, command []string) (*ExecOutput, error) {
	req := e.clientset.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Namespace(namespace).
		Name(pod).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: PostgresContainerName,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(e.restConfig, http.MethodPost, req.URL())
	if err != nil {
		return nil, fmt.Errorf("creating SPDY executor for pod %s/%s: %w", namespace, pod, err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})

	out := &ExecOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	switch {
	case err == nil:
		out.Success = true
		return out, nil
	case isExitError(err):
		// The command ran and exited non-zero. The streams carry
		// whatever the tool printed.
		return out, nil
	default:
		return nil, fmt.Errorf("exec into pod %s/%s: %w", namespace, pod, err)
	}
}

// isExitError reports whether err is the stream layer's encoding of a
// non-zero exit status, as opposed to a transport failure.
func isExitError(err error) bool {
	var exitErr utilexec.ExitError
	return errors.As(err, &exitErr)
}
