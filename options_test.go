package fsbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions_Defaults(t *testing.T) {
	o := applyOptions(nil)

	assert.Equal(t, DefaultBaseDir, o.baseDir)
	assert.Equal(t, DefaultPayloadSize, o.payloadSize)
	assert.Equal(t, DefaultAppendSize, o.appendSize)
	assert.Equal(t, DefaultBaselineListFiles, o.baselineListFiles)
	assert.Equal(t, DefaultIterationListFiles, o.iterationListFiles)
	assert.Equal(t, DefaultFixtureWorkers, o.fixtureWorkers)
	assert.False(t, o.timestamp.IsZero())
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}

func TestApplyOptions_Overrides(t *testing.T) {
	ts := time.UnixMilli(42)
	o := applyOptions([]Option{
		WithBaseDir(DefaultConfig),
		WithTimestamp(ts),
		WithPayloadSize(1024),
		WithAppendSize(4096),
		WithListFileCounts(5, 2),
		WithFixtureWorkers(-1),
		WithRandSeed(9),
	})

	assert.Equal(t, DefaultBaseDir, o.baseDir)
	assert.Equal(t, ts, o.timestamp)
	assert.Equal(t, 1024, o.payloadSize)
	assert.Equal(t, 1024, o.appendSize, "append size is capped at the payload")
	assert.Equal(t, 5, o.baselineListFiles)
	assert.Equal(t, 2, o.iterationListFiles)
	assert.Equal(t, DefaultFixtureWorkers, o.fixtureWorkers)
	assert.Equal(t, uint64(9), o.seed)
}

func TestPayload_Deterministic(t *testing.T) {
	a := newPayload(applyOptions([]Option{WithRandSeed(1), WithPayloadSize(64)}))
	b := newPayload(applyOptions([]Option{WithRandSeed(1), WithPayloadSize(64)}))
	c := newPayload(applyOptions([]Option{WithRandSeed(2), WithPayloadSize(64)}))

	require.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	r := newPayload(applyOptions([]Option{WithPayloadSize(64)}))
	assert.NotEqual(t, make([]byte, 64), r)
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "getStatus", OpGetStatus.String())
	assert.Equal(t, "Operation(42)", Operation(42).String())
	assert.True(t, OpDelete.NeedsInvocationRepair())
	assert.True(t, OpRename.NeedsInvocationRepair())
	assert.False(t, OpCreate.NeedsInvocationRepair())

	op, err := ParseOperation("GETSTATUS")
	require.NoError(t, err)
	assert.Equal(t, OpGetStatus, op)

	ops, err := ParseOperations("create, rename")
	require.NoError(t, err)
	assert.Equal(t, []Operation{OpCreate, OpRename}, ops)

	ops, err = ParseOperations("all")
	require.NoError(t, err)
	assert.Equal(t, Operations(), ops)

	_, err = ParseOperations("create,chmod")
	assert.Error(t, err)
}

func TestProbeOutcome_String(t *testing.T) {
	assert.Equal(t, "supported", ProbeSupported.String())
	assert.Equal(t, "unsupported", ProbeUnsupported.String())
	assert.Equal(t, "failed", ProbeFailed.String())
}
