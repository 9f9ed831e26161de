// Package object implements vfs.FileSystem on top of a flat object store.
//
// Object stores have no directories, no rename and no append. This package
// emulates the first two the way Hadoop's object-store connectors do:
//
//   - a directory is a zero-length marker object whose key ends in "/",
//     or any common prefix shared by at least one object
//   - Rename copies every affected object and then removes the sources
//   - Append always fails with vfs.ErrUnsupported
//
// A Bucket adapter supplies the five primitive calls. See packages vfs/s3
// and vfs/minio.
package object
