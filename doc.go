// Package settle races a fixed set of tasks and reports the first success.
//
// It combines:
//   - errgroup for spawning every task at once
//   - an internal actor-style manager loop that owns the per-call ledger
//
// Core behavior:
//   - build inputs with Value (already succeeded) or Task (deferred work)
//   - start the race with Start, or block on it with Race
//   - read the outcome from the returned Future via Wait, Await or Done
//   - join the remaining task goroutines with Drain
//
// Semantics:
//   - the first task to succeed, in completion order, settles the race
//   - a Value input has already succeeded; the lowest-index Value wins
//   - when every input fails, the error is *AggregateError and
//     Reasons[i] is the reason of input i, regardless of completion order
//   - with exactly one input, its failure reason is returned as is
//   - with zero inputs, the error is *AggregateError with no Reasons
//   - a task that exits via runtime.Goexit fails with ErrTaskExited
//   - losing tasks are not cancelled; their outcomes are discarded
//
// Policy options:
//   - WithPanicToError(true): convert panic to task failure (default)
//   - WithPanicToError(false): rethrow panic, crashing the process
//   - WithLogger(l): emit debug events to a zap logger
package settle
