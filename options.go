package fsbench

import (
	"log/slog"
	"time"
)

const (
	// DefaultBaseDir is the directory under which the run root is created.
	DefaultBaseDir = "/tmp"

	// DefaultPayloadSize is the size of the random payload written to
	// data-bearing fixtures.
	DefaultPayloadSize = 1024 * 1024

	// DefaultAppendSize is the number of payload bytes one append writes.
	DefaultAppendSize = 8 * 1024

	// DefaultBaselineListFiles is the marker count created by PrepareBaseline.
	DefaultBaselineListFiles = 100

	// DefaultIterationListFiles is the marker count restored after each iteration.
	DefaultIterationListFiles = 10

	// DefaultFixtureWorkers bounds parallel marker creation.
	DefaultFixtureWorkers = 4
)

type options struct {
	baseDir            string
	runID              string
	timestamp          time.Time
	seed               uint64
	seeded             bool
	uniqueNames        bool
	payloadSize        int
	appendSize         int
	baselineListFiles  int
	iterationListFiles int
	fixtureWorkers     int
	fixtureIOLimit     int64
	logger             *Logger
	metricsCollector   MetricsCollector
}

// Option configures a Controller.
type Option func(*options)

// WithBaseDir sets the directory under which the run root is created.
// An empty value or "DEFAULT" selects DefaultBaseDir.
func WithBaseDir(dir string) Option {
	return func(o *options) {
		if dir == "" || dir == DefaultConfig {
			dir = DefaultBaseDir
		}
		o.baseDir = dir
	}
}

// WithRunID appends id to the run root name, so that parallel controllers
// started in the same millisecond get distinct roots.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// WithTimestamp fixes the run timestamp used to name the run root.
func WithTimestamp(ts time.Time) Option {
	return func(o *options) {
		o.timestamp = ts
	}
}

// WithRandSeed makes the payload and the random name suffixes deterministic.
func WithRandSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithUniqueNames prefixes random create and mkdirs suffixes with a
// monotonic sequence number, so names never collide within a run.
func WithUniqueNames(enabled bool) Option {
	return func(o *options) {
		o.uniqueNames = enabled
	}
}

// WithPayloadSize overrides DefaultPayloadSize.
func WithPayloadSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.payloadSize = n
		}
	}
}

// WithAppendSize overrides DefaultAppendSize. It is capped at the payload size.
func WithAppendSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.appendSize = n
		}
	}
}

// WithListFileCounts overrides the marker counts used at baseline and
// after each iteration.
func WithListFileCounts(baseline, iteration int) Option {
	return func(o *options) {
		if baseline >= 0 {
			o.baselineListFiles = baseline
		}
		if iteration >= 0 {
			o.iterationListFiles = iteration
		}
	}
}

// WithFixtureWorkers bounds the number of concurrent fixture writes.
func WithFixtureWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.fixtureWorkers = n
		}
	}
}

// WithFixtureIOLimit throttles fixture writes to bytesPerSec.
// Measured operations are never throttled. Zero disables the limit.
func WithFixtureIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.fixtureIOLimit = bytesPerSec
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fsbench.NewJSONLogger(slog.LevelInfo)
//	c, _ := fsbench.Open(ctx, "core-site.xml", fsbench.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel enables text logging to stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for fixture work.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fsbench.BasicMetricsCollector{}
//	c := fsbench.New(fsys, fsbench.WithMetricsCollector(metrics))
//	// ... run benchmarks ...
//	stats := metrics.GetStats()
//	fmt.Printf("Repairs: %d, Avg: %dns\n", stats.RepairCount, stats.RepairAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		baseDir:            DefaultBaseDir,
		payloadSize:        DefaultPayloadSize,
		appendSize:         DefaultAppendSize,
		baselineListFiles:  DefaultBaselineListFiles,
		iterationListFiles: DefaultIterationListFiles,
		fixtureWorkers:     DefaultFixtureWorkers,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.timestamp.IsZero() {
		o.timestamp = time.Now()
	}
	if !o.seeded {
		o.seed = uint64(o.timestamp.UnixNano())
	}
	if o.appendSize > o.payloadSize {
		o.appendSize = o.payloadSize
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
