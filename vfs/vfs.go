package vfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"time"
)

var (
	// ErrNotFound is returned when a path does not exist.
	//
	// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
	// The default maps to `os.ErrNotExist`.
	ErrNotFound = os.ErrNotExist

	// ErrUnsupported is returned by optional operations a backend cannot perform.
	ErrUnsupported = errors.ErrUnsupported

	// ErrNotDirectory is returned when a directory operation hits a file.
	ErrNotDirectory = errors.New("not a directory")

	// ErrIsDirectory is returned when a file operation hits a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrDirectoryNotEmpty is returned by a non-recursive delete of a non-empty directory.
	ErrDirectoryNotEmpty = errors.New("directory not empty")
)

// FileSystem is the abstraction every storage backend implements.
type FileSystem interface {
	// URI identifies the backend, e.g. "file:///" or "s3://bucket/prefix".
	URI() string

	// Create creates or truncates a file for writing, creating missing parents.
	Create(ctx context.Context, name string) (File, error)

	// Append opens an existing file for appending.
	// Backends without append support return ErrUnsupported.
	Append(ctx context.Context, name string) (File, error)

	// Delete removes a file or directory. It returns false if nothing existed.
	// Deleting a non-empty directory without recursive returns ErrDirectoryNotEmpty.
	Delete(ctx context.Context, name string, recursive bool) (bool, error)

	// Rename moves src to dst. It returns false without error if src is
	// missing or dst already exists.
	Rename(ctx context.Context, src, dst string) (bool, error)

	// Mkdirs creates a directory and all parents. It returns true if the
	// directory exists afterwards, including when it existed before.
	Mkdirs(ctx context.Context, name string) (bool, error)

	// ListStatus returns the entries of a directory sorted by name.
	// Listing a file returns the status of that file.
	ListStatus(ctx context.Context, name string) ([]FileStatus, error)

	// GetFileStatus returns metadata for a single path.
	GetFileStatus(ctx context.Context, name string) (FileStatus, error)

	// Exists reports whether a file or directory exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases the connection.
	Close() error
}

// File is a write handle returned by Create and Append.
// Data is durable in the backend once Close returns nil.
type File interface {
	io.WriteCloser
}

// FileStatus describes a file or directory.
type FileStatus struct {
	Path       string
	Length     int64
	IsDir      bool
	ModTime    time.Time
	AccessTime time.Time
	BlockSize  int64
	Mode       fs.FileMode
	Owner      string
	Group      string
}

// Name returns the last element of the path.
func (s FileStatus) Name() string {
	return path.Base(s.Path)
}

// Clean returns the canonical absolute form of name.
func Clean(name string) string {
	return path.Clean("/" + name)
}

func pathError(op, name string, err error) error {
	return &fs.PathError{Op: op, Path: name, Err: err}
}
