package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/fsbench"
	"github.com/hupe1980/fsbench/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs timer and target calls in order, tagging each with the
// timer state at the time of the call.
type recorder struct {
	running bool
	events  []string

	invokeErr error
	repairErr error
}

func (r *recorder) StartTimer() { r.running = true; r.events = append(r.events, "start") }
func (r *recorder) StopTimer()  { r.running = false; r.events = append(r.events, "stop") }
func (r *recorder) ResetTimer() { r.events = append(r.events, "reset") }

func (r *recorder) state() string {
	if r.running {
		return "timed"
	}
	return "untimed"
}

func (r *recorder) Invoke(_ context.Context, op fsbench.Operation) error {
	r.events = append(r.events, "invoke:"+op.String()+":"+r.state())
	return r.invokeErr
}

func (r *recorder) RepairAfterInvocation(_ context.Context, op fsbench.Operation) error {
	r.events = append(r.events, "repair-invocation:"+op.String()+":"+r.state())
	return r.repairErr
}

func (r *recorder) RepairAfterIteration(context.Context) error {
	r.events = append(r.events, "repair-iteration:"+r.state())
	return nil
}

func TestRun_PerInvocationRepair(t *testing.T) {
	for _, op := range []fsbench.Operation{fsbench.OpDelete, fsbench.OpRename} {
		t.Run(op.String(), func(t *testing.T) {
			r := &recorder{running: true}
			require.NoError(t, Run(context.Background(), r, op, 2, r))

			name := op.String()
			assert.Equal(t, []string{
				"invoke:" + name + ":timed",
				"stop",
				"repair-invocation:" + name + ":untimed",
				"start",
				"invoke:" + name + ":timed",
				"stop",
				"repair-invocation:" + name + ":untimed",
				"start",
				"stop",
				"repair-iteration:untimed",
				"start",
			}, r.events)
		})
	}
}

func TestRun_IterationRepairOnly(t *testing.T) {
	for _, op := range []fsbench.Operation{fsbench.OpCreate, fsbench.OpAppend, fsbench.OpList, fsbench.OpGetStatus, fsbench.OpMkdirs} {
		t.Run(op.String(), func(t *testing.T) {
			r := &recorder{running: true}
			require.NoError(t, Run(context.Background(), r, op, 3, r))

			name := op.String()
			assert.Equal(t, []string{
				"invoke:" + name + ":timed",
				"invoke:" + name + ":timed",
				"invoke:" + name + ":timed",
				"stop",
				"repair-iteration:untimed",
				"start",
			}, r.events)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	boom := errors.New("boom")

	r := &recorder{running: true, invokeErr: boom}
	err := Run(context.Background(), r, fsbench.OpList, 3, r)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, r.events, 1)

	r = &recorder{running: true, repairErr: boom}
	err = Run(context.Background(), r, fsbench.OpDelete, 3, r)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "repair after invocation 0")
}

func TestSuite(t *testing.T) {
	cases := Suite(context.Background(), &recorder{})
	require.Len(t, cases, len(fsbench.Operations()))
	for i, op := range fsbench.Operations() {
		assert.Equal(t, op.String(), cases[i].Name)
		assert.Equal(t, op, cases[i].Op)
		assert.NotNil(t, cases[i].F)
	}

	cases = Suite(context.Background(), &recorder{}, fsbench.OpMkdirs)
	require.Len(t, cases, 1)
	assert.Equal(t, "mkdirs", cases[0].Name)
}

func TestRun_Controller(t *testing.T) {
	ctx := context.Background()
	c := fsbench.New(vfs.NewMemory(), fsbench.WithBaseDir("/bench"), fsbench.WithRandSeed(3))
	defer c.Teardown(ctx)
	require.NoError(t, c.Setup(ctx))

	r := &recorder{running: true}
	for _, op := range fsbench.Operations() {
		require.NoError(t, Run(ctx, c, op, 5, r), op.String())
	}

	entries, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, fsbench.DefaultIterationListFiles)

	ok, err := c.Rename(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBenchmark_Controller(t *testing.T) {
	if testing.Short() {
		t.Skip("runs testing.Benchmark")
	}
	ctx := context.Background()
	c := fsbench.New(vfs.NewMemory(), fsbench.WithBaseDir("/bench"), fsbench.WithPayloadSize(1024))
	defer c.Teardown(ctx)
	require.NoError(t, c.Setup(ctx))

	res := testing.Benchmark(Benchmark(ctx, c, fsbench.OpGetStatus))
	assert.Positive(t, res.N)
}
