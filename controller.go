package fsbench

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"path"

	"github.com/hupe1980/fsbench/internal/resource"
	"github.com/hupe1980/fsbench/vfs"
)

// nameSpace bounds the random suffix of create and mkdirs names.
const nameSpace = 1_000_000

// Controller owns one benchmark run: the connection, the run root below
// which all fixtures live, and the append capability.
//
// A Controller is not safe for concurrent use. Measured operations must be
// invoked serially; parallel runs use one Controller each, with distinct
// run roots (see WithRunID).
type Controller struct {
	fs      vfs.FileSystem
	paths   FixturePaths
	opts    options
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller

	payload []byte
	rng     *rand.Rand
	seq     uint64

	probe  ProbeResult
	probed bool
	closed bool
}

// Open resolves confRef and connects to the file system it names.
// An empty confRef or DefaultConfig selects the local file system.
//
// A missing or unreadable resource yields a *ConfigurationError; a backend
// that cannot be constructed yields a *ConnectionError.
func Open(ctx context.Context, confRef string, optFns ...Option) (*Controller, error) {
	o := applyOptions(optFns)

	props := DefaultProperties()
	if confRef != "" && confRef != DefaultConfig {
		var err error
		props, err = LoadProperties(confRef)
		if err != nil {
			o.logger.ErrorContext(ctx, "failed to load configuration", "path", confRef, "error", err)
			return nil, err
		}
		o.logger.InfoContext(ctx, "loaded configuration", "path", confRef)
	}

	fsys, err := Connect(ctx, props)
	o.logger.LogConnect(ctx, props.GetOr(KeyDefaultFS, "file:///"), err)
	if err != nil {
		return nil, err
	}
	return newController(fsys, o), nil
}

// New creates a Controller for an already open file system.
// The Controller takes ownership of fsys and closes it in Teardown.
func New(fsys vfs.FileSystem, optFns ...Option) *Controller {
	return newController(fsys, applyOptions(optFns))
}

func newController(fsys vfs.FileSystem, o options) *Controller {
	paths := NewFixturePaths(o.baseDir, o.timestamp, o.runID)

	c := &Controller{
		fs:      fsys,
		paths:   paths,
		opts:    o,
		logger:  o.logger.WithURI(fsys.URI()).WithRoot(paths.Root),
		metrics: o.metricsCollector,
		rc: resource.NewController(resource.Config{
			MaxWorkers:         int64(o.fixtureWorkers),
			IOLimitBytesPerSec: o.fixtureIOLimit,
		}),
		rng: rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)),
	}
	c.payload = newPayload(o)
	return c
}

func newPayload(o options) []byte {
	buf := make([]byte, o.payloadSize)
	if !o.seeded {
		// crypto/rand.Read never returns an error.
		_, _ = crand.Read(buf)
		return buf
	}
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], o.seed)
	_, _ = rand.NewChaCha8(seed).Read(buf)
	return buf
}

// FileSystem returns the connection.
func (c *Controller) FileSystem() vfs.FileSystem {
	return c.fs
}

// Paths returns the fixture layout of this run.
func (c *Controller) Paths() FixturePaths {
	return c.paths
}

// Payload returns the payload written to data-bearing fixtures.
// The slice must not be modified.
func (c *Controller) Payload() []byte {
	return c.payload
}

// Setup probes capabilities and prepares the baseline fixtures.
// It is the harness's one-time setup hook.
func (c *Controller) Setup(ctx context.Context) error {
	c.ProbeAppendSupport(ctx)
	return c.PrepareBaseline(ctx)
}

// ProbeAppendSupport runs the append probe once. Later calls return the
// first result, so the capability never changes during a run.
func (c *Controller) ProbeAppendSupport(ctx context.Context) ProbeResult {
	if c.probed {
		return c.probe
	}
	c.probe = ProbeAppend(ctx, c.fs, c.paths.ProbeScratch)
	c.probed = true

	c.logger.LogProbe(ctx, "append", c.probe)
	c.metrics.RecordProbe("append", c.probe.Outcome)
	return c.probe
}

// SupportsAppend reports whether the append probe succeeded.
// It is false until ProbeAppendSupport has run.
func (c *Controller) SupportsAppend() bool {
	return c.probed && c.probe.Supported()
}

// AppendProbe returns the append probe result and whether the probe has run.
func (c *Controller) AppendProbe() (ProbeResult, bool) {
	return c.probe, c.probed
}

// nextName returns prefix-<n>, or prefix-<seq>-<n> with unique names enabled.
// Without unique names two calls may collide with probability 1/nameSpace.
func (c *Controller) nextName(prefix string) string {
	n := c.rng.IntN(nameSpace)
	if c.opts.uniqueNames {
		c.seq++
		return fmt.Sprintf("%s-%d-%d", prefix, c.seq, n)
	}
	return fmt.Sprintf("%s-%d", prefix, n)
}

// Create creates and immediately closes an empty file with a random name
// in the create directory.
func (c *Controller) Create(ctx context.Context) error {
	f, err := c.fs.Create(ctx, path.Join(c.paths.Create, c.nextName("file")))
	if err != nil {
		return err
	}
	return f.Close()
}

// Append appends the first WithAppendSize payload bytes to the append
// target. It is a no-op when append is not supported.
func (c *Controller) Append(ctx context.Context) error {
	if !c.SupportsAppend() {
		return nil
	}
	f, err := c.fs.Append(ctx, c.paths.AppendTarget)
	if err != nil {
		return err
	}
	if _, err := f.Write(c.payload[:c.opts.appendSize]); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Delete deletes the delete target non-recursively.
func (c *Controller) Delete(ctx context.Context) (bool, error) {
	return c.fs.Delete(ctx, c.paths.DeleteTarget, false)
}

// List lists the list directory.
func (c *Controller) List(ctx context.Context) ([]vfs.FileStatus, error) {
	return c.fs.ListStatus(ctx, c.paths.List)
}

// Rename renames the rename source to the rename target.
func (c *Controller) Rename(ctx context.Context) (bool, error) {
	return c.fs.Rename(ctx, c.paths.RenameSource, c.paths.RenameTarget)
}

// GetStatus reads the status of the stat target.
func (c *Controller) GetStatus(ctx context.Context) (vfs.FileStatus, error) {
	return c.fs.GetFileStatus(ctx, c.paths.StatTarget)
}

// Mkdirs creates a directory with a random name in the mkdirs directory.
// Like Hadoop, it reports true when the directory already existed.
func (c *Controller) Mkdirs(ctx context.Context) (bool, error) {
	return c.fs.Mkdirs(ctx, path.Join(c.paths.Mkdirs, c.nextName("dir")))
}

// Invoke runs one measured operation and discards its result value.
func (c *Controller) Invoke(ctx context.Context, op Operation) error {
	var err error
	switch op {
	case OpCreate:
		err = c.Create(ctx)
	case OpAppend:
		err = c.Append(ctx)
	case OpDelete:
		_, err = c.Delete(ctx)
	case OpList:
		_, err = c.List(ctx)
	case OpRename:
		_, err = c.Rename(ctx)
	case OpGetStatus:
		_, err = c.GetStatus(ctx)
	case OpMkdirs:
		_, err = c.Mkdirs(ctx)
	default:
		err = fmt.Errorf("unknown operation %v", op)
	}
	return err
}
