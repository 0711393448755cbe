package coredb

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/coredb-io/coredb-operator/pkg/instance-handler/extensions"
)

// Requeue delays per failure class. Transient infrastructure failures
// back off for five minutes, API throttling for roughly a minute, and
// exec transport failures retry quickly because the pod is usually
// seconds away from being reachable again.
const (
	requeueOnError     = 5 * time.Minute
	requeueOnThrottle  = time.Minute
	requeueOnTransport = 10 * time.Second

	jitterNormal   = 60 * time.Second
	jitterThrottle = 120 * time.Second
)

// requeueAfterError asks the reconcile loop to run the whole pass
// again after a fixed delay without recording a terminal failure. It
// plays the same role as the extension pipeline's RequeueError but for
// the orchestrator's own steps.
type requeueAfterError struct {
	after time.Duration
	err   error
}

func (e *requeueAfterError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("requeue after %s", e.after)
	}
	return fmt.Sprintf("requeue after %s: %v", e.after, e.err)
}

func (e *requeueAfterError) Unwrap() error { return e.err }

func requeueAfter(after time.Duration, err error) *requeueAfterError {
	return &requeueAfterError{after: after, err: err}
}

// jittered spreads requeues of many instances over a window so they
// do not reconcile in lockstep.
func jittered(base, window time.Duration) time.Duration {
	return base + rand.N(window)
}

// resultFor translates a reconcile step failure into a requeue. The
// delay honors an explicit requeue request when the error carries one,
// otherwise it is picked from the failure class.
func resultFor(err error) (ctrl.Result, error) {
	var step *requeueAfterError
	if errors.As(err, &step) {
		return ctrl.Result{RequeueAfter: step.after}, nil
	}
	var ext *extensions.RequeueError
	if errors.As(err, &ext) {
		return ctrl.Result{RequeueAfter: ext.After}, nil
	}
	if apierrors.IsTooManyRequests(err) {
		return ctrl.Result{RequeueAfter: jittered(requeueOnThrottle, jitterThrottle)}, nil
	}
	return ctrl.Result{RequeueAfter: requeueOnError}, nil
}
