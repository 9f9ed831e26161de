package object

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/fsbench/vfs"
	"github.com/hupe1980/fsbench/vfs/vfstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBucket is a flat key/value Bucket with S3 listing semantics.
type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: make(map[string][]byte)}
}

func (b *memBucket) URI() string { return "mem-bucket://test/" }

func (b *memBucket) Stat(_ context.Context, key string) (ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return ObjectInfo{}, &fs.PathError{Op: "stat", Path: key, Err: vfs.ErrNotFound}
	}
	return ObjectInfo{Key: key, Size: int64(len(data)), LastModified: time.Unix(0, 0)}, nil
}

func (b *memBucket) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = data
	return nil
}

func (b *memBucket) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBucket) Copy(_ context.Context, src, dst string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[src]
	if !ok {
		return &fs.PathError{Op: "copy", Path: src, Err: vfs.ErrNotFound}
	}
	b.objects[dst] = append([]byte(nil), data...)
	return nil
}

func (b *memBucket) List(_ context.Context, prefix string, recursive bool) ([]ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]bool)
	var out []ObjectInfo
	for k, data := range b.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if !recursive {
			if i := strings.Index(rest, "/"); i >= 0 {
				cp := prefix + rest[:i+1]
				if !seen[cp] {
					seen[cp] = true
					out = append(out, ObjectInfo{Key: cp, IsPrefix: true})
				}
				continue
			}
		}
		out = append(out, ObjectInfo{Key: k, Size: int64(len(data))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func TestConformance(t *testing.T) {
	vfstest.Run(t, func(t *testing.T) vfs.FileSystem {
		return New(newMemBucket())
	}, vfstest.Features{Append: false})
}

func TestCreate_CloseTwice(t *testing.T) {
	ctx := context.Background()
	fsys := New(newMemBucket())

	w, err := fsys.Create(ctx, "/pending")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), io.ErrClosedPipe)

	st, err := fsys.GetFileStatus(ctx, "/pending")
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.Length)
}

func TestCreate_PutErrorSurfacesOnClose(t *testing.T) {
	ctx := context.Background()
	b := newMemBucket()
	b.putErr = errors.New("upload failed")
	fsys := New(b)

	w, err := fsys.Create(ctx, "/f")
	require.NoError(t, err)
	_, _ = w.Write([]byte("x"))
	assert.EqualError(t, w.Close(), "upload failed")
}

func TestRename_Directory(t *testing.T) {
	ctx := context.Background()
	fsys := New(newMemBucket())

	_, err := fsys.Mkdirs(ctx, "/src")
	require.NoError(t, err)
	require.NoError(t, vfstest.WriteFile(ctx, fsys, "/src/a", []byte("a")))
	require.NoError(t, vfstest.WriteFile(ctx, fsys, "/src/sub/b", []byte("b")))

	ok, err := fsys.Rename(ctx, "/src", "/dst")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, p := range []string{"/dst", "/dst/a", "/dst/sub/b"} {
		exists, err := fsys.Exists(ctx, p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
	exists, err := fsys.Exists(ctx, "/src")
	require.NoError(t, err)
	assert.False(t, exists)

	ok, err = fsys.Rename(ctx, "/dst", "/dst/inner")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListStatus_SkipsOwnMarker(t *testing.T) {
	ctx := context.Background()
	fsys := New(newMemBucket())

	_, err := fsys.Mkdirs(ctx, "/d")
	require.NoError(t, err)
	_, err = fsys.Mkdirs(ctx, "/d/e")
	require.NoError(t, err)

	entries, err := fsys.ListStatus(ctx, "/d")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/d/e", entries[0].Path)
	assert.True(t, entries[0].IsDir)

	entries, err = fsys.ListStatus(ctx, "/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/d", entries[0].Path)
}

func TestAppend_Unsupported(t *testing.T) {
	fsys := New(newMemBucket())
	_, err := fsys.Append(context.Background(), "/x")
	assert.ErrorIs(t, err, vfs.ErrUnsupported)
}
