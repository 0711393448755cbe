package extensions

import (
	"fmt"
	"time"
)

// RequeueError asks the caller to run the whole pass again after a
// fixed delay. It marks transient conditions, transport failures and
// mid-restart states, that must not be recorded in status.
type RequeueError struct {
	After time.Duration
	Err   error
}

func (e *RequeueError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("requeue after %s", e.After)
	}
	return fmt.Sprintf("requeue after %s: %v", e.After, e.Err)
}

func (e *RequeueError) Unwrap() error { return e.Err }

func requeueAfter(after time.Duration, err error) *RequeueError {
	return &RequeueError{After: after, Err: err}
}

// LocationError is a terminal failure of one extension location. It is
// recorded into that location's status instead of failing the pass.
type LocationError struct {
	Message string
}

func (e *LocationError) Error() string { return e.Message }
