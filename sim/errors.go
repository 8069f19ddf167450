package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidOperation is the single error kind raised by the kernel. Every
// precondition violation (unknown id, endpoint mismatch, upstream merge,
// removal of an in-use segment, disallowed oversubscription, inconsistent
// plan) wraps it with a human-readable reason. Use errors.Is to test for it.
var ErrInvalidOperation = errors.New("invalid operation")

func invalidOpf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

// ActionError reports the action that stopped an Update batch. The actions
// before Index were applied.
type ActionError struct {
	// Index is the zero-based position of the rejected action.
	Index int
	Total int
	Kind  ActionKind
	Err   error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %d of %d (%s): %v", e.Index+1, e.Total, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
