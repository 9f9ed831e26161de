package vfs_test

import (
	"context"
	"os"
	"testing"

	"github.com/hupe1980/fsbench/vfs"
	"github.com/hupe1980/fsbench/vfs/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Conformance(t *testing.T) {
	t.Run("WithAppend", func(t *testing.T) {
		vfstest.Run(t, func(t *testing.T) vfs.FileSystem {
			return vfs.NewMemory()
		}, vfstest.Features{Append: true})
	})

	t.Run("WithoutAppend", func(t *testing.T) {
		vfstest.Run(t, func(t *testing.T) vfs.FileSystem {
			return vfs.NewMemory(vfs.WithAppendSupport(false))
		}, vfstest.Features{Append: false})
	})
}

func TestMemory_CloseTwice(t *testing.T) {
	fsys := vfs.NewMemory()
	f, err := fsys.Create(context.Background(), "/f")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), os.ErrClosed)
}

func TestMemory_RenameIntoMissingParent(t *testing.T) {
	ctx := context.Background()
	fsys := vfs.NewMemory()
	require.NoError(t, vfstest.WriteFile(ctx, fsys, "/a", []byte("x")))

	ok, err := fsys.Rename(ctx, "/a", "/no/such/b")
	require.NoError(t, err)
	assert.False(t, ok)
	exists, err := fsys.Exists(ctx, "/a")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemory_RootSurvivesRecursiveDelete(t *testing.T) {
	ctx := context.Background()
	fsys := vfs.NewMemory()
	require.NoError(t, vfstest.WriteFile(ctx, fsys, "/x/y", nil))

	_, err := fsys.Delete(ctx, "/", true)
	require.NoError(t, err)

	st, err := fsys.GetFileStatus(ctx, "/")
	require.NoError(t, err)
	assert.True(t, st.IsDir)
	exists, err := fsys.Exists(ctx, "/x")
	require.NoError(t, err)
	assert.False(t, exists)
}
