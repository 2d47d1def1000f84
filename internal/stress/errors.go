package stress

import (
	"context"
	"errors"
	"fmt"

	"github.com/aalhour/docstore"
)

// ErrTimeout is returned when the run exceeds Config.Timeout.
var ErrTimeout = errors.New("stress: run timed out")

// SetupError reports a failure before mutation began: dropping leftovers,
// creating the index, or seeding.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("stress: setup %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// MutationError reports a failed lookup, remove or insert in the worker loop.
type MutationError struct {
	Iteration int
	Op        string
	Key       int64
	ID        docstore.ID
	Err       error
}

func (e *MutationError) Error() string {
	if e.ID.IsZero() {
		return fmt.Sprintf("stress: mutation iteration %d: %s(%d): %v", e.Iteration, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("stress: mutation iteration %d: %s(%s) for key %d: %v", e.Iteration, e.Op, e.ID, e.Key, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// CorruptionError is the signal the harness exists to detect: a scan result
// that carried an error. Item is the 0-based ordinal of the result within the
// scan, or -1 if the cursor could not be opened.
type CorruptionError struct {
	Repetition int
	Item       int
	Err        error
}

func (e *CorruptionError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("stress: corruption at repetition %d (opening scan): %v", e.Repetition, e.Err)
	}
	return fmt.Sprintf("stress: corruption at repetition %d, result %d: %v", e.Repetition, e.Item, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// TeardownError reports a failed drop after a successful run. It does not
// fail the run.
type TeardownError struct {
	Err error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("stress: teardown: %v", e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

// Class names the error category of err, for logs and artifacts. A caller
// cancellation is "canceled" whichever step it interrupted.
func Class(err error) string {
	var (
		setup    *SetupError
		mutation *MutationError
		corrupt  *CorruptionError
		teardown *TeardownError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &corrupt):
		return "corruption"
	case errors.As(err, &mutation):
		return "mutation"
	case errors.As(err, &setup):
		return "setup"
	case errors.As(err, &teardown):
		return "teardown"
	default:
		return "unknown"
	}
}
