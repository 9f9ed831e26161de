package fsbench

import (
	"context"
	"errors"
	"time"
)

// Teardown removes the run root recursively and closes the connection.
// Failures are logged, never returned. Teardown is idempotent.
func (c *Controller) Teardown(ctx context.Context) {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	start := time.Now()

	_, delErr := c.fs.Delete(ctx, c.paths.Root, true)
	c.logger.LogTeardown(ctx, "delete root", c.paths.Root, delErr)

	closeErr := c.fs.Close()
	c.logger.LogTeardown(ctx, "close connection", c.fs.URI(), closeErr)

	c.metrics.RecordCleanup(time.Since(start), errors.Join(delErr, closeErr))
}
