package minio

import (
	"context"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/hupe1980/fsbench/vfs"
	"github.com/hupe1980/fsbench/vfs/object"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultPartSize bounds the buffer used for uploads of unknown length.
const DefaultPartSize = 16 << 20

// Store implements object.Bucket for MinIO and S3-compatible storage.
type Store struct {
	client   *minio.Client
	bucket   string
	prefix   string
	partSize uint64
}

// NewStore creates a new MinIO bucket adapter.
// bucket is the MinIO bucket name.
// rootPrefix is prepended to all keys (e.g. "bench/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	prefix := strings.Trim(rootPrefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		partSize: DefaultPartSize,
	}
}

// Config holds the connection settings for Dial.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool
}

// Dial creates a MinIO client from cfg and wraps it in a Store.
func Dial(cfg Config, bucket, rootPrefix string) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return NewStore(client, bucket, rootPrefix), nil
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// URI returns minio://bucket/prefix.
func (s *Store) URI() string {
	return "minio://" + s.bucket + "/" + s.prefix
}

// Stat returns metadata for key.
func (s *Store) Stat(ctx context.Context, key string) (object.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key(key), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return object.ObjectInfo{}, &fs.PathError{Op: "stat", Path: key, Err: vfs.ErrNotFound}
		}
		return object.ObjectInfo{}, err
	}
	return object.ObjectInfo{
		Key:          key,
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

// Put uploads r under key.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	opts := minio.PutObjectOptions{}
	if size < 0 {
		opts.PartSize = s.partSize
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(key), r, size, opts)
	return err
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(key), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// Copy duplicates src to dst server-side.
func (s *Store) Copy(ctx context.Context, src, dst string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: s.key(dst)},
		minio.CopySrcOptions{Bucket: s.bucket, Object: s.key(src)},
	)
	if err != nil && isNotFound(err) {
		return &fs.PathError{Op: "copy", Path: src, Err: vfs.ErrNotFound}
	}
	return err
}

// List returns keys under prefix.
func (s *Store) List(ctx context.Context, prefix string, recursive bool) ([]object.ObjectInfo, error) {
	fullPrefix := s.key(prefix)

	var out []object.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: recursive,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// Delimited listings report common prefixes as keys ending in "/";
		// the listed prefix itself is a directory marker object.
		isPrefix := !recursive && obj.Key != fullPrefix && strings.HasSuffix(obj.Key, "/")
		out = append(out, object.ObjectInfo{
			Key:          strings.TrimPrefix(obj.Key, s.prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
			IsPrefix:     isPrefix,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func isNotFound(err error) bool {
	errResp := minio.ToErrorResponse(err)
	return errResp.Code == "NoSuchKey" || errResp.Code == "NotFound"
}

var _ object.Bucket = (*Store)(nil)
