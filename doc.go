// Package fsbench measures the latency of basic file system operations
// (create, append, delete, rename, mkdirs, stat, list) against a pluggable
// storage backend.
//
// The Controller owns one benchmark run. It connects to the file system,
// probes optional capabilities, and keeps every fixture in the state the
// next measured call expects, so that each call observes the same starting
// point.
//
// # Quick Start
//
//	ctx := context.Background()
//	c, err := fsbench.Open(ctx, "core-site.xml", fsbench.WithBaseDir("/bench"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Teardown(ctx)
//
//	if err := c.Setup(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	res := testing.Benchmark(harness.Benchmark(ctx, c, fsbench.OpRename))
//
// # Lifecycle
//
//	Open/New → Setup (probe + PrepareBaseline)
//	  → repeat: N × (measured op [→ RepairAfterInvocation]) → RepairAfterIteration
//	  → Teardown
//
// Only OpDelete and OpRename destroy their fixture and need a repair after
// every call. All other operations are repaired once per iteration. Package
// harness drives this protocol and keeps repair work outside the timed region.
//
// # Configuration
//
// Open takes a configuration reference. DefaultConfig (or "") selects the
// local file system. Any other value is a path to a Hadoop-style XML or a
// YAML file whose fs.defaultFS key selects the backend:
//
//	file:///                local file system
//	mem:///                 in-memory file system
//	s3://bucket/prefix      AWS S3 (fs.s3.* keys)
//	minio://bucket/prefix   MinIO (fs.minio.* keys)
//
// # Capability Probing
//
// Append is optional. ProbeAppend classifies the backend as supported,
// unsupported (vfs.ErrUnsupported) or failed. Probing never returns an
// error; unsupported and failed both turn the append benchmark into a no-op.
//
// # Fixture Layout
//
//	<base>/fs-benchmark-<unix-millis>/
//	    test-create/          create targets (file-<n>)
//	    test-list/            list-file-0 … list-file-99
//	    mkdirs-test-dir/      mkdirs targets (dir-<n>)
//	    test-file-status      1 MiB payload
//	    delete-file           1 MiB payload
//	    append-file           1 MiB payload (append only)
//	    rename-source-file    1 MiB payload
//	    rename-target-file    absent between calls
//
// # Error Handling
//
// Open returns *ConfigurationError or *ConnectionError. Setup and the
// repair hooks return *FixtureError. Each typed error matches its sentinel
// (ErrConfiguration, ErrConnection, ErrFixture) with errors.Is and exposes
// its cause with errors.Unwrap.
package fsbench
