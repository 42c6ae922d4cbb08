package gitstore

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds named in the design: Precondition,
// Unsupported, Conflict, Coordination. Network/Remote faults never reach
// the caller as an error at all — they are logged and swallowed in the
// pull prelude and push epilogue.
var (
	// ErrPrecondition is raised for calls before activation or with
	// obviously invalid arguments (null remote name, etc).
	ErrPrecondition = errors.New("gitstore: precondition failed")

	// ErrUnsupported is raised by delete_version, which is deliberately
	// not implemented.
	ErrUnsupported = errors.New("gitstore: operation not supported")

	// ErrConflict names a merge outcome other than already-up-to-date
	// under the "theirs" strategy. No operation in this package returns
	// it: reconciliation reports such a merge only as a published change.
	ErrConflict = errors.New("gitstore: merge produced a conflict resolution")

	// ErrCoordination wraps a failed Attribute Store call.
	ErrCoordination = errors.New("gitstore: attribute store call failed")
)

// OperationError wraps any error raised inside a write_op body (or a
// read_op body) with the operation name and the branch that was checked
// out when it failed, then is re-raised to the caller per the
// propagation policy: anything thrown inside the body is wrapped and
// returned; anything thrown by the pull prelude or push epilogue is
// logged and swallowed instead.
type OperationError struct {
	Op     string
	Branch string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Branch != "" {
		return fmt.Sprintf("gitstore: %s on %s: %v", e.Op, e.Branch, e.Err)
	}
	return fmt.Sprintf("gitstore: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// wrapOp builds an *OperationError, or returns nil if err is nil.
func wrapOp(op, branch string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Branch: branch, Err: err}
}

// Precondition raises ErrPrecondition with a formatted message, for
// facade operations to reject invalid arguments before ever acquiring
// the serializer.
func Precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
