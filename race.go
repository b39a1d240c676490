package settle

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type outcome[T any] struct {
	index int
	value T
	err   error
}

// ledger is the per-call bookkeeping owned by the manager goroutine.
type ledger struct {
	reasons  []error
	failures int
	settled  bool
}

func newLedger(n int) *ledger {
	return &ledger{reasons: make([]error, n)}
}

// fail records the reason for index i and reports whether every input has now failed.
func (l *ledger) fail(i int, reason error) bool {
	l.reasons[i] = reason
	l.failures++
	return l.failures == len(l.reasons)
}

// err builds the aggregate failure. A single input keeps its bare reason.
func (l *ledger) err() error {
	if len(l.reasons) == 1 {
		return l.reasons[0]
	}
	return &AggregateError{Reasons: l.reasons}
}

// Future is the pending outcome of one race.
type Future[T any] struct {
	done        chan struct{}
	managerDone chan struct{}
	eg          errgroup.Group

	value T
	err   error
}

// Start ingests inputs, starts every task concurrently and returns without
// waiting for the outcome.
//
// Tasks receive ctx unchanged. Start never cancels a task; tasks that lose
// the race run to completion and their outcomes are discarded.
func Start[T any](ctx context.Context, inputs []Input[T], opts ...Option) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	f := &Future[T]{
		done:        make(chan struct{}),
		managerDone: make(chan struct{}),
	}

	n := len(inputs)
	cfg.logger.Debug("race started", zap.Int("inputs", n))
	if n == 0 {
		var zero T
		f.resolve(zero, &AggregateError{Reasons: []error{}})
		close(f.managerDone)
		return f
	}

	// Buffered to n so no task blocks once the race has settled.
	evtCh := make(chan outcome[T], n)

	// Inputs that are already settled are queued ahead of any task goroutine.
	for i, in := range inputs {
		switch {
		case in.IsValue():
			evtCh <- outcome[T]{index: i, value: in.value}
		case in.fn == nil:
			evtCh <- outcome[T]{index: i, err: ErrNilTask}
		}
	}

	go f.runManager(newLedger(n), evtCh, cfg.logger)

	for i, in := range inputs {
		if in.IsValue() || in.fn == nil {
			continue
		}
		i, in := i, in
		f.eg.Go(func() error {
			// Reported from a defer so a task that calls runtime.Goexit still
			// counts toward settlement.
			out := outcome[T]{index: i, err: ErrTaskExited}
			defer func() { evtCh <- out }()

			out = runTask(ctx, i, in.fn, cfg.panicToError)
			return nil
		})
	}

	return f
}

// Race starts inputs and blocks until the race settles.
//
// It returns the value of the first input to succeed. If every input fails
// it returns *AggregateError, except for a single input, whose own reason is
// returned.
func Race[T any](ctx context.Context, inputs []Input[T], opts ...Option) (T, error) {
	return Start(ctx, inputs, opts...).Wait()
}

// Done returns a channel that is closed once the race has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the race settles. Every call returns the same result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// Await is Wait bounded by the caller context. It returns ctx.Err() if ctx
// ends first; the race itself keeps going.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Drain blocks until every task has returned and its outcome has been
// consumed.
func (f *Future[T]) Drain() {
	_ = f.eg.Wait()
	<-f.managerDone
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

func (f *Future[T]) runManager(l *ledger, evtCh <-chan outcome[T], log *zap.Logger) {
	defer close(f.managerDone)

	for received := 0; received < len(l.reasons); received++ {
		evt := <-evtCh

		if l.settled {
			log.Debug("outcome discarded",
				zap.Int("index", evt.index),
				zap.Bool("failed", evt.err != nil),
			)
			continue
		}

		if evt.err == nil {
			l.settled = true
			f.resolve(evt.value, nil)
			log.Debug("race settled", zap.Int("index", evt.index))
			continue
		}

		if l.fail(evt.index, evt.err) {
			l.settled = true
			var zero T
			f.resolve(zero, l.err())
			log.Debug("race settled", zap.Int("failures", l.failures))
		}
	}
}

func runTask[T any](ctx context.Context, idx int, fn TaskFunc[T], panicToError bool) (out outcome[T]) {
	out.index = idx

	if panicToError {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				out.value = zero
				out.err = errors.Errorf("settle: panic recovered: %v", r)
			}
		}()
	}

	out.value, out.err = fn(ctx)
	return
}
