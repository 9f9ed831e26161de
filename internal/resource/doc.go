// Package resource bounds the work done while building benchmark fixtures.
//
// Fixture preparation writes megabytes of payload and creates many marker
// files between timed invocations. The Controller keeps that work from
// saturating the backend:
//
//   - Workers: a weighted semaphore caps concurrent fixture tasks
//   - IO: a token bucket caps fixture write throughput
//
// # Worker Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers: 4,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 64 * 1024 * 1024, // 64MB/s
//	})
//
//	w := resource.NewRateLimitedWriter(ctx, file, rc)
//
// Requests larger than the bucket size are split into bucket-sized waits,
// so any write size can pass a small limit.
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
