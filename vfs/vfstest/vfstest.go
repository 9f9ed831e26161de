// Package vfstest provides a conformance suite for vfs.FileSystem implementations.
package vfstest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/hupe1980/fsbench/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Features describes optional capabilities of the backend under test.
type Features struct {
	// Append is true when Append is expected to work.
	Append bool
}

// Run executes the conformance suite. newFS must return an empty file system
// for every call.
func Run(t *testing.T, newFS func(t *testing.T) vfs.FileSystem, feat Features) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, fsys vfs.FileSystem, feat Features)
	}{
		{"CreateAndStatus", testCreateAndStatus},
		{"CreateTruncates", testCreateTruncates},
		{"Append", testAppend},
		{"DeleteFile", testDeleteFile},
		{"DeleteDirectory", testDeleteDirectory},
		{"Rename", testRename},
		{"Mkdirs", testMkdirs},
		{"ListStatus", testListStatus},
		{"Exists", testExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newFS(t)
			t.Cleanup(func() { _ = fsys.Close() })
			tt.fn(t, fsys, feat)
		})
	}
}

// WriteFile creates name with data.
func WriteFile(ctx context.Context, fsys vfs.FileSystem, name string, data []byte) error {
	f, err := fsys.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func mustWrite(t *testing.T, fsys vfs.FileSystem, name string, data []byte) {
	t.Helper()
	require.NoError(t, WriteFile(context.Background(), fsys, name, data))
}

func testCreateAndStatus(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/a/b/c.txt", []byte("0123456789"))

	st, err := fsys.GetFileStatus(ctx, "/a/b/c.txt")
	require.NoError(t, err)
	assert.False(t, st.IsDir)
	assert.Equal(t, int64(10), st.Length)
	assert.Equal(t, "c.txt", st.Name())

	parent, err := fsys.GetFileStatus(ctx, "/a/b")
	require.NoError(t, err)
	assert.True(t, parent.IsDir)

	_, err = fsys.GetFileStatus(ctx, "/a/missing")
	assert.ErrorIs(t, err, vfs.ErrNotFound)
}

func testCreateTruncates(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/f", []byte("long content"))
	mustWrite(t, fsys, "/f", []byte("x"))

	st, err := fsys.GetFileStatus(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Length)
}

func testAppend(t *testing.T, fsys vfs.FileSystem, feat Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/log", []byte("abc"))

	f, err := fsys.Append(ctx, "/log")
	if !feat.Append {
		require.ErrorIs(t, err, vfs.ErrUnsupported)
		return
	}
	require.NoError(t, err)
	_, err = f.Write([]byte("def"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	st, err := fsys.GetFileStatus(ctx, "/log")
	require.NoError(t, err)
	assert.Equal(t, int64(6), st.Length)
}

func testDeleteFile(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/dir/f", []byte("x"))

	ok, err := fsys.Delete(ctx, "/dir/f", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsys.Delete(ctx, "/dir/f", false)
	require.NoError(t, err)
	assert.False(t, ok, "deleting a missing file reports false")
}

func testDeleteDirectory(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/tree/x/1", []byte("1"))
	mustWrite(t, fsys, "/tree/2", []byte("2"))

	_, err := fsys.Delete(ctx, "/tree", false)
	assert.ErrorIs(t, err, vfs.ErrDirectoryNotEmpty)

	ok, err := fsys.Delete(ctx, "/tree", true)
	require.NoError(t, err)
	assert.True(t, ok)

	exists, err := fsys.Exists(ctx, "/tree/x/1")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = fsys.Exists(ctx, "/tree")
	require.NoError(t, err)
	assert.False(t, exists)
}

func testRename(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/r/src", []byte("payload"))

	ok, err := fsys.Rename(ctx, "/r/src", "/r/dst")
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := fsys.GetFileStatus(ctx, "/r/dst")
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.Length)

	exists, err := fsys.Exists(ctx, "/r/src")
	require.NoError(t, err)
	assert.False(t, exists)

	ok, err = fsys.Rename(ctx, "/r/src", "/r/other")
	require.NoError(t, err)
	assert.False(t, ok, "missing source")

	mustWrite(t, fsys, "/r/src", []byte("again"))
	ok, err = fsys.Rename(ctx, "/r/src", "/r/dst")
	require.NoError(t, err)
	assert.False(t, ok, "existing destination")
}

func testMkdirs(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()

	ok, err := fsys.Mkdirs(ctx, "/m/n/o")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsys.Mkdirs(ctx, "/m/n/o")
	require.NoError(t, err)
	assert.True(t, ok, "existing directory")

	st, err := fsys.GetFileStatus(ctx, "/m/n/o")
	require.NoError(t, err)
	assert.True(t, st.IsDir)

	mustWrite(t, fsys, "/m/file", []byte("x"))
	ok, err = fsys.Mkdirs(ctx, "/m/file")
	assert.False(t, ok)
	assert.Error(t, err)
}

func testListStatus(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()
	mustWrite(t, fsys, "/l/b", []byte("bb"))
	mustWrite(t, fsys, "/l/a", []byte("a"))
	mustWrite(t, fsys, "/l/sub/c", []byte("c"))

	entries, err := fsys.ListStatus(ctx, "/l")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name())
	assert.Equal(t, "b", entries[1].Name())
	assert.Equal(t, int64(2), entries[1].Length)
	assert.Equal(t, "sub", entries[2].Name())
	assert.True(t, entries[2].IsDir)

	entries, err = fsys.ListStatus(ctx, "/l/a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name())

	_, err = fsys.ListStatus(ctx, "/l/none")
	assert.ErrorIs(t, err, vfs.ErrNotFound)
}

func testExists(t *testing.T, fsys vfs.FileSystem, _ Features) {
	ctx := context.Background()

	ok, err := fsys.Exists(ctx, "/e")
	require.NoError(t, err)
	assert.False(t, ok)

	mustWrite(t, fsys, "/e", nil)
	ok, err = fsys.Exists(ctx, "/e")
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := fsys.GetFileStatus(ctx, "/e")
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Length)
}
