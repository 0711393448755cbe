package podexec

import (
	"errors"
	"fmt"
	"testing"

	utilexec "k8s.io/client-go/util/exec"
)

func TestIsExitError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want bool
	}{
		"Code Exit Error": {
			err:  utilexec.CodeExitError{Err: errors.New("command terminated with exit code 1"), Code: 1},
			want: true,
		},
		"Wrapped Code Exit Error": {
			err:  fmt.Errorf("running command: %w", utilexec.CodeExitError{Err: errors.New("command terminated with exit code 2"), Code: 2}),
			want: true,
		},
		"Transport Error": {
			err:  errors.New("error dialing backend: EOF"),
			want: false,
		},
		"Nil": {
			err:  nil,
			want: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := isExitError(tc.err); got != tc.want {
				t.Errorf("isExitError(%v) = %t, want %t", tc.err, got, tc.want)
			}
		})
	}
}
