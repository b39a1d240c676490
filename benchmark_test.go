package settle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type benchResult struct {
	value int
	err   error
}

type benchWorkload struct {
	name   string
	mixed  bool
	tasks  int
	winner int
}

var benchWorkloads = []benchWorkload{
	{name: "short/first_wins", mixed: false, tasks: 256, winner: 0},
	{name: "short/last_wins", mixed: false, tasks: 256, winner: 255},
	{name: "short/all_fail", mixed: false, tasks: 256, winner: -1},
	{name: "mixed/last_wins", mixed: true, tasks: 256, winner: 255},
	{name: "mixed/all_fail", mixed: true, tasks: 256, winner: -1},
}

func BenchmarkRace(b *testing.B) {
	for _, tc := range benchWorkloads {
		tc := tc
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := runRaceCase(tc.tasks, tc.mixed, tc.winner); err != nil {
					b.Fatalf("run failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkErrgroupChannel(b *testing.B) {
	for _, tc := range benchWorkloads {
		tc := tc
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := runErrgroupChannelCase(tc.tasks, tc.mixed, tc.winner); err != nil {
					b.Fatalf("run failed: %v", err)
				}
			}
		})
	}
}

func runRaceCase(tasks int, mixed bool, winner int) error {
	fns := make([]TaskFunc[int], tasks)
	for i := range fns {
		i := i
		fns[i] = func(ctx context.Context) (int, error) {
			return runBenchTask(ctx, i, mixed, winner)
		}
	}

	f := Start(context.Background(), Tasks(fns...))
	value, err := f.Wait()
	f.Drain()

	return checkBenchOutcome(tasks, winner, value, err)
}

func runErrgroupChannelCase(tasks int, mixed bool, winner int) error {
	var eg errgroup.Group
	results := make(chan benchResult, tasks)

	for i := 0; i < tasks; i++ {
		i := i
		eg.Go(func() error {
			value, err := runBenchTask(context.Background(), i, mixed, winner)
			results <- benchResult{value: value, err: err}
			return nil
		})
	}

	reasons := make([]error, 0, tasks)
	var (
		value int
		found bool
	)
	for n := 0; n < tasks; n++ {
		res := <-results
		if res.err != nil {
			reasons = append(reasons, res.err)
			continue
		}
		if !found {
			value, found = res.value, true
		}
	}
	_ = eg.Wait()

	if found {
		return checkBenchOutcome(tasks, winner, value, nil)
	}
	return checkBenchOutcome(tasks, winner, 0, &AggregateError{Reasons: reasons})
}

func checkBenchOutcome(tasks, winner, value int, err error) error {
	if winner < 0 {
		var agg *AggregateError
		if !errors.As(err, &agg) || len(agg.Reasons) != tasks {
			return fmt.Errorf("expected %d reasons, got %v", tasks, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	if value != winner {
		return fmt.Errorf("expected winner %d, got %d", winner, value)
	}
	return nil
}

func runBenchTask(ctx context.Context, idx int, mixed bool, winner int) (int, error) {
	if mixed && idx%8 == 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(200 * time.Microsecond):
		}
	}

	if idx != winner {
		return 0, errors.New("boom")
	}
	return idx, nil
}
