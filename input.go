package settle

import "context"

// TaskFunc is a unit of work raced by Start.
type TaskFunc[T any] func(context.Context) (T, error)

// Input is one position in a race: either a value that has already
// succeeded or a task that will succeed or fail later.
type Input[T any] struct {
	value     T
	fn        TaskFunc[T]
	immediate bool
}

// Value returns an input that has already succeeded with v.
func Value[T any](v T) Input[T] {
	return Input[T]{value: v, immediate: true}
}

// Task returns an input backed by fn. A nil fn fails with ErrNilTask.
func Task[T any](fn TaskFunc[T]) Input[T] {
	return Input[T]{fn: fn}
}

// Tasks wraps each fn with Task, keeping order.
func Tasks[T any](fns ...TaskFunc[T]) []Input[T] {
	inputs := make([]Input[T], len(fns))
	for i, fn := range fns {
		inputs[i] = Task(fn)
	}
	return inputs
}

// IsValue reports whether the input has already succeeded.
func (in Input[T]) IsValue() bool {
	return in.immediate
}
