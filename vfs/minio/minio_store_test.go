package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/fsbench/vfs"
	"github.com/hupe1980/fsbench/vfs/object"
	"github.com/hupe1980/fsbench/vfs/vfstest"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURI(t *testing.T) {
	store := NewStore(nil, "bucket", "bench")
	assert.Equal(t, "minio://bucket/bench/", store.URI())
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	cfg := Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	}
	bucket := "test-fsbench"

	store, err := Dial(cfg, bucket, "")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	vfstest.Run(t, func(t *testing.T) vfs.FileSystem {
		prefix := t.Name()
		s := NewStore(store.client, bucket, prefix)
		t.Cleanup(func() {
			objs, _ := s.List(context.Background(), "", true)
			for _, o := range objs {
				_ = s.Remove(context.Background(), o.Key)
			}
		})
		return object.New(s)
	}, vfstest.Features{Append: false})
}
