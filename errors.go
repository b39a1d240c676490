package settle

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

var (
	// ErrAllFailed is matched by every *AggregateError.
	ErrAllFailed = errors.New("settle: all tasks failed")

	// ErrNilTask is the failure reason of an input built from a nil TaskFunc.
	ErrNilTask = errors.New("settle: nil task")

	// ErrTaskExited is the failure reason of a task whose goroutine ended
	// without returning, for example through runtime.Goexit.
	ErrTaskExited = errors.New("settle: task exited without returning")
)

// AggregateError is returned when every input of a race with zero or at
// least two inputs has failed.
type AggregateError struct {
	// Reasons holds one failure reason per input, in input order.
	Reasons []error
}

func (e *AggregateError) Error() string {
	if len(e.Reasons) == 0 {
		return "settle: no tasks to race"
	}
	return fmt.Sprintf("settle: all %d tasks failed: %v", len(e.Reasons), multierr.Combine(e.Reasons...))
}

// Unwrap exposes the reasons to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Reasons
}

// Errors lets multierr.Errors split the aggregate into its reasons.
func (e *AggregateError) Errors() []error {
	return e.Reasons
}

// Is reports whether target is ErrAllFailed.
func (e *AggregateError) Is(target error) bool {
	return target == ErrAllFailed
}
