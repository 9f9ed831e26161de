package fsbench

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/fsbench/vfs"
	miniofs "github.com/hupe1980/fsbench/vfs/minio"
	"github.com/hupe1980/fsbench/vfs/object"
	s3fs "github.com/hupe1980/fsbench/vfs/s3"
)

// Connect resolves fs.defaultFS and constructs the matching backend:
//
//	file:///                local file system
//	mem:///                 in-memory file system
//	s3://bucket/prefix      AWS S3 (or an S3-compatible endpoint)
//	minio://bucket/prefix   MinIO
//
// Any failure is returned as a *ConnectionError.
func Connect(ctx context.Context, props Properties) (vfs.FileSystem, error) {
	uri := props.GetOr(KeyDefaultFS, "file:///")

	fsys, err := connect(ctx, uri, props)
	if err != nil {
		return nil, &ConnectionError{URI: uri, cause: err}
	}
	return fsys, nil
}

func connect(ctx context.Context, uri string, props Properties) (vfs.FileSystem, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(u.Scheme) {
	case "file", "":
		root := u.Path
		if root == "/" {
			root = ""
		}
		return vfs.NewLocal(root), nil

	case "mem":
		appendOK, err := props.Bool(KeyMemAppendSupported, true)
		if err != nil {
			return nil, err
		}
		return vfs.NewMemory(vfs.WithAppendSupport(appendOK)), nil

	case "s3", "s3a":
		if u.Host == "" {
			return nil, fmt.Errorf("missing bucket in %q", uri)
		}
		pathStyle, err := props.Bool(KeyS3PathStyleAccess, false)
		if err != nil {
			return nil, err
		}
		opts := []s3fs.Option{
			s3fs.WithPrefix(u.Path),
			s3fs.WithPathStyle(pathStyle),
		}
		if v := props.Get(KeyS3Region); v != "" {
			opts = append(opts, s3fs.WithRegion(v))
		}
		if v := props.Get(KeyS3Endpoint); v != "" {
			opts = append(opts, s3fs.WithEndpoint(v))
		}
		if v := props.Get(KeyS3AccessKey); v != "" {
			opts = append(opts, s3fs.WithStaticCredentials(v, props.Get(KeyS3SecretKey)))
		}
		store, err := s3fs.New(ctx, u.Host, opts...)
		if err != nil {
			return nil, err
		}
		return object.New(store), nil

	case "minio":
		if u.Host == "" {
			return nil, fmt.Errorf("missing bucket in %q", uri)
		}
		secure, err := props.Bool(KeyMinioSecure, false)
		if err != nil {
			return nil, err
		}
		store, err := miniofs.Dial(miniofs.Config{
			Endpoint:  props.GetOr(KeyMinioEndpoint, "localhost:9000"),
			AccessKey: props.Get(KeyMinioAccessKey),
			SecretKey: props.Get(KeyMinioSecretKey),
			Region:    props.Get(KeyMinioRegion),
			Secure:    secure,
		}, u.Host, u.Path)
		if err != nil {
			return nil, err
		}
		return object.New(store), nil

	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
