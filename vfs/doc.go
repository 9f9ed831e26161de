// Package vfs provides the filesystem abstraction that fsbench measures.
//
// FileSystem is a small, Hadoop-flavoured interface: paths are slash-separated
// and absolute, Create makes missing parents, Delete and Rename report their
// outcome as a boolean, and Mkdirs succeeds when the directory already exists.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - Local: the local disk through the os package
//   - Memory: an in-memory tree, mostly for tests and dry runs
//   - object.FileSystem: directory emulation on top of an object store
//     (see packages vfs/s3 and vfs/minio)
//
// # Optional Operations
//
// Append is optional. Backends that cannot append return an error matching
// ErrUnsupported:
//
//	f, err := fsys.Append(ctx, "/data/log")
//	if errors.Is(err, vfs.ErrUnsupported) {
//	    // skip
//	}
package vfs
