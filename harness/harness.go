// Package harness drives a fsbench.Controller through the benchmark
// lifecycle, keeping fixture repair outside the timed region.
//
// One call to Run is one measurement iteration: n timed invocations, each
// followed by a per-invocation repair for operations that destroy their
// fixture, then one per-iteration repair. testing.B calls a benchmark
// function several times with growing b.N, so each of those calls is an
// iteration.
//
// Repairs are not timed but still take wall time. For delete and rename,
// whose repair rewrites a 1 MiB payload, prefer -benchtime=Nx over a
// duration so that the run length stays predictable.
package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/fsbench"
)

// Timer controls the timed region. *testing.B satisfies it.
type Timer interface {
	StartTimer()
	StopTimer()
	ResetTimer()
}

// Target is the part of *fsbench.Controller the harness drives.
type Target interface {
	Invoke(ctx context.Context, op fsbench.Operation) error
	RepairAfterInvocation(ctx context.Context, op fsbench.Operation) error
	RepairAfterIteration(ctx context.Context) error
}

// Run performs one measurement iteration of op with n invocations.
// The timer is stopped around every repair and restarted afterwards.
func Run(ctx context.Context, t Target, op fsbench.Operation, n int, timer Timer) error {
	repair := op.NeedsInvocationRepair()

	for i := range n {
		if err := t.Invoke(ctx, op); err != nil {
			return fmt.Errorf("%s invocation %d: %w", op, i, err)
		}
		if repair {
			timer.StopTimer()
			if err := t.RepairAfterInvocation(ctx, op); err != nil {
				return fmt.Errorf("%s repair after invocation %d: %w", op, i, err)
			}
			timer.StartTimer()
		}
	}

	timer.StopTimer()
	defer timer.StartTimer()
	if err := t.RepairAfterIteration(ctx); err != nil {
		return fmt.Errorf("%s repair after iteration: %w", op, err)
	}
	return nil
}

// Benchmark adapts Run to a testing benchmark function.
func Benchmark(ctx context.Context, t Target, op fsbench.Operation) func(*testing.B) {
	return func(b *testing.B) {
		b.ResetTimer()
		if err := Run(ctx, t, op, b.N, b); err != nil {
			b.Fatal(err)
		}
	}
}

// Case is one named benchmark.
type Case struct {
	Name string
	Op   fsbench.Operation
	F    func(*testing.B)
}

// Suite returns one Case per operation in ops, or per fsbench.Operations()
// when ops is empty.
func Suite(ctx context.Context, t Target, ops ...fsbench.Operation) []Case {
	if len(ops) == 0 {
		ops = fsbench.Operations()
	}
	cases := make([]Case, 0, len(ops))
	for _, op := range ops {
		cases = append(cases, Case{
			Name: op.String(),
			Op:   op,
			F:    Benchmark(ctx, t, op),
		})
	}
	return cases
}
