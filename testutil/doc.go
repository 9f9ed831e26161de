// Package testutil provides testing utilities for fsbench.
//
// This package is intended for use in tests only. It wraps a
// vfs.FileSystem to count calls and to inject failures.
//
// # Fault Injection
//
//	fsys := testutil.NewFaultFS(vfs.NewMemory())
//	fsys.FailOn(testutil.OpAppend, "", errors.New("boom")) // every path
//	fsys.FailOn(testutil.OpCreate, "/run/delete-file", vfs.ErrUnsupported)
//
// # Call Counting
//
//	fsys.Calls(testutil.OpCreate) // number of Create calls so far
package testutil
