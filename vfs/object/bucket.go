package object

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a single key returned by a Bucket.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	// IsPrefix marks a common prefix in a delimited listing.
	IsPrefix bool
}

// Bucket is the minimal object-store surface the FileSystem needs.
// Keys are relative to the adapter's root prefix and never start with "/".
type Bucket interface {
	// URI identifies the bucket, e.g. "s3://bucket/prefix".
	URI() string

	// Stat returns metadata for key or an error matching vfs.ErrNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// Put uploads r under key. size is -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Copy duplicates src to dst server-side.
	Copy(ctx context.Context, src, dst string) error

	// List returns keys under prefix sorted by key. When recursive is false
	// the listing is delimited by "/" and sub-prefixes are returned with
	// IsPrefix set.
	List(ctx context.Context, prefix string, recursive bool) ([]ObjectInfo, error)
}
