package fsbench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/hupe1980/fsbench/internal/resource"
	"golang.org/x/sync/errgroup"
)

// Fixture names used in FixtureError and metrics.
const (
	FixtureRoot         = "root"
	FixtureCreateDir    = "create-dir"
	FixtureListDir      = "list-dir"
	FixtureDeleteTarget = "delete-target"
	FixtureAppendTarget = "append-target"
	FixtureRenamePair   = "rename-pair"
	FixtureMkdirsDir    = "mkdirs-dir"
	FixtureStatTarget   = "stat-target"
)

const (
	stageBaseline  = "baseline"
	stageIteration = "iteration"
)

var errMkdirsFailed = errors.New("mkdirs reported failure")

// PrepareBaseline creates the run root, its directories and every
// data-bearing fixture, then fills the list directory with the baseline
// marker count. It assumes an empty root and is called once per run.
// The append target is only written when the append probe succeeded.
func (c *Controller) PrepareBaseline(ctx context.Context) error {
	start := time.Now()
	err := c.prepareBaseline(ctx)
	c.observe(ctx, stageBaseline, start, err)
	return err
}

func (c *Controller) prepareBaseline(ctx context.Context) error {
	dirs := []struct{ fixture, path string }{
		{FixtureRoot, c.paths.Root},
		{FixtureCreateDir, c.paths.Create},
		{FixtureListDir, c.paths.List},
		{FixtureMkdirsDir, c.paths.Mkdirs},
	}
	for _, d := range dirs {
		if err := c.mkdirs(ctx, d.path); err != nil {
			return fixtureError(d.fixture, d.path, err)
		}
	}

	files := []struct{ fixture, path string }{
		{FixtureStatTarget, c.paths.StatTarget},
		{FixtureDeleteTarget, c.paths.DeleteTarget},
		{FixtureRenamePair, c.paths.RenameSource},
	}
	if c.SupportsAppend() {
		files = append(files, struct{ fixture, path string }{FixtureAppendTarget, c.paths.AppendTarget})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(func() error {
			return fixtureError(f.fixture, f.path, c.withWorker(gctx, func() error {
				return c.writeFixture(gctx, f.path, c.payload)
			}))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return fixtureError(FixtureListDir, c.paths.List, c.populateList(ctx, c.opts.baselineListFiles))
}

// RepairAfterIteration restores every fixture between measurement
// iterations: the create, list and mkdirs directories are emptied, the list
// directory is refilled with the iteration marker count, the delete target
// is recreated if absent, the append target is rewritten (append only), and
// the rename pair is reset to "source present, target absent".
//
// Each fixture is repaired independently. Failures are returned joined, so
// one broken fixture never prevents the others from being restored.
func (c *Controller) RepairAfterIteration(ctx context.Context) error {
	start := time.Now()

	repairs := []struct {
		fixture, path string
		fn            func(context.Context) error
	}{
		{FixtureCreateDir, c.paths.Create, func(ctx context.Context) error {
			return c.resetDir(ctx, c.paths.Create)
		}},
		{FixtureListDir, c.paths.List, func(ctx context.Context) error {
			if err := c.resetDir(ctx, c.paths.List); err != nil {
				return err
			}
			return c.populateList(ctx, c.opts.iterationListFiles)
		}},
		{FixtureDeleteTarget, c.paths.DeleteTarget, func(ctx context.Context) error {
			return c.ensureFixture(ctx, c.paths.DeleteTarget)
		}},
		{FixtureAppendTarget, c.paths.AppendTarget, func(ctx context.Context) error {
			if !c.SupportsAppend() {
				return nil
			}
			return c.writeFixture(ctx, c.paths.AppendTarget, c.payload)
		}},
		{FixtureRenamePair, c.paths.RenameSource, c.resetRenamePair},
		{FixtureMkdirsDir, c.paths.Mkdirs, func(ctx context.Context) error {
			return c.resetDir(ctx, c.paths.Mkdirs)
		}},
	}

	var errs []error
	for _, r := range repairs {
		if err := r.fn(ctx); err != nil {
			errs = append(errs, fixtureError(r.fixture, r.path, err))
		}
	}
	err := errors.Join(errs...)
	c.observe(ctx, stageIteration, start, err)
	return err
}

// RepairAfterInvocation undoes the side effect of one destructive call:
// after OpDelete the delete target is recreated with the payload, after
// OpRename the pair is reset to "source present, target absent". Every other
// operation is a no-op.
func (c *Controller) RepairAfterInvocation(ctx context.Context, op Operation) error {
	if !op.NeedsInvocationRepair() {
		return nil
	}

	start := time.Now()
	var err error
	switch op {
	case OpDelete:
		err = fixtureError(FixtureDeleteTarget, c.paths.DeleteTarget,
			c.writeFixture(ctx, c.paths.DeleteTarget, c.payload))
	case OpRename:
		err = fixtureError(FixtureRenamePair, c.paths.RenameSource, c.resetRenamePair(ctx))
	}
	c.observe(ctx, op.String(), start, err)
	return err
}

func (c *Controller) observe(ctx context.Context, stage string, start time.Time, err error) {
	d := time.Since(start)
	c.metrics.RecordRepair(stage, d, err)
	c.logger.LogFixture(ctx, stage, d, err)
}

// resetRenamePair removes the rename target and recreates the source with
// the payload if it is missing.
func (c *Controller) resetRenamePair(ctx context.Context) error {
	if _, err := c.fs.Delete(ctx, c.paths.RenameTarget, false); err != nil {
		return err
	}
	return c.ensureFixture(ctx, c.paths.RenameSource)
}

// ensureFixture writes the payload to name unless it already exists.
func (c *Controller) ensureFixture(ctx context.Context, name string) error {
	ok, err := c.fs.Exists(ctx, name)
	if err != nil || ok {
		return err
	}
	return c.writeFixture(ctx, name, c.payload)
}

// writeFixture creates name with data, honouring the fixture IO limit.
func (c *Controller) writeFixture(ctx context.Context, name string, data []byte) error {
	f, err := c.fs.Create(ctx, name)
	if err != nil {
		return err
	}
	w := resource.NewRateLimitedWriter(ctx, f, c.rc)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (c *Controller) mkdirs(ctx context.Context, name string) error {
	ok, err := c.fs.Mkdirs(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return errMkdirsFailed
	}
	return nil
}

// resetDir deletes dir recursively and recreates it empty.
func (c *Controller) resetDir(ctx context.Context, dir string) error {
	if _, err := c.fs.Delete(ctx, dir, true); err != nil {
		return err
	}
	return c.mkdirs(ctx, dir)
}

// populateList creates n empty marker files in the list directory, at most
// MaxWorkers at a time.
func (c *Controller) populateList(ctx context.Context, n int) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			return c.withWorker(gctx, func() error {
				return c.writeFixture(gctx, c.paths.ListMarker(i), nil)
			})
		})
	}
	return g.Wait()
}

func (c *Controller) withWorker(ctx context.Context, fn func() error) error {
	if err := c.rc.AcquireWorker(ctx); err != nil {
		return err
	}
	defer c.rc.ReleaseWorker()
	return fn()
}
