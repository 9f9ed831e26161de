package object

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/fsbench/vfs"
)

// FileSystem implements vfs.FileSystem over a Bucket.
type FileSystem struct {
	bucket Bucket
}

// New creates a FileSystem backed by bucket.
func New(bucket Bucket) *FileSystem {
	return &FileSystem{bucket: bucket}
}

// key maps an absolute path to an object key ("" is the root).
func key(name string) string {
	return strings.TrimPrefix(vfs.Clean(name), "/")
}

func dirKey(k string) string {
	if k == "" {
		return ""
	}
	return k + "/"
}

func pathFor(k string) string {
	return "/" + strings.TrimSuffix(k, "/")
}

// URI returns the bucket URI.
func (f *FileSystem) URI() string {
	return f.bucket.URI()
}

// Create starts a streaming upload. The object becomes visible on Close.
func (f *FileSystem) Create(ctx context.Context, name string) (vfs.File, error) {
	k := key(name)
	if k == "" {
		return nil, &fs.PathError{Op: "create", Path: name, Err: vfs.ErrIsDirectory}
	}
	pr, pw := io.Pipe()

	w := &writableObject{
		pw:   pw,
		done: make(chan error, 1),
	}

	// Start upload in background
	go func() {
		err := f.bucket.Put(ctx, k, pr, -1)
		// Close the reader end of the pipe after upload completes/fails
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

// Append is not available on object stores.
func (f *FileSystem) Append(_ context.Context, name string) (vfs.File, error) {
	return nil, &fs.PathError{Op: "append", Path: name, Err: vfs.ErrUnsupported}
}

// Delete removes a file, or a directory marker and everything below it.
func (f *FileSystem) Delete(ctx context.Context, name string, recursive bool) (bool, error) {
	st, err := f.GetFileStatus(ctx, name)
	if errors.Is(err, vfs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	k := key(name)
	if !st.IsDir {
		if err := f.bucket.Remove(ctx, k); err != nil {
			return false, err
		}
		return true, nil
	}

	dk := dirKey(k)
	children, err := f.bucket.List(ctx, dk, true)
	if err != nil {
		return false, err
	}
	if !recursive {
		for _, c := range children {
			if c.Key != dk {
				return false, &fs.PathError{Op: "delete", Path: name, Err: vfs.ErrDirectoryNotEmpty}
			}
		}
	}
	for _, c := range children {
		if err := f.bucket.Remove(ctx, c.Key); err != nil {
			return false, err
		}
	}
	if dk != "" {
		if err := f.bucket.Remove(ctx, dk); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Rename copies src to dst and removes src. Directories are renamed object by object.
func (f *FileSystem) Rename(ctx context.Context, src, dst string) (bool, error) {
	sk, dk := key(src), key(dst)
	if sk == "" || dk == "" || strings.HasPrefix(dk, sk+"/") {
		return false, nil
	}

	st, err := f.GetFileStatus(ctx, src)
	if errors.Is(err, vfs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if ok, err := f.Exists(ctx, dst); err != nil || ok {
		return false, err
	}

	if !st.IsDir {
		if err := f.bucket.Copy(ctx, sk, dk); err != nil {
			return false, err
		}
		if err := f.bucket.Remove(ctx, sk); err != nil {
			return false, err
		}
		return true, nil
	}

	srcDir := dirKey(sk)
	objs, err := f.bucket.List(ctx, srcDir, true)
	if err != nil {
		return false, err
	}
	if err := f.bucket.Put(ctx, dirKey(dk), strings.NewReader(""), 0); err != nil {
		return false, err
	}
	for _, o := range objs {
		if o.Key == srcDir {
			continue
		}
		if err := f.bucket.Copy(ctx, o.Key, dirKey(dk)+strings.TrimPrefix(o.Key, srcDir)); err != nil {
			return false, err
		}
	}
	for _, o := range objs {
		if err := f.bucket.Remove(ctx, o.Key); err != nil {
			return false, err
		}
	}
	if err := f.bucket.Remove(ctx, srcDir); err != nil {
		return false, err
	}
	return true, nil
}

// Mkdirs writes a directory marker. It fails if name is a file.
func (f *FileSystem) Mkdirs(ctx context.Context, name string) (bool, error) {
	k := key(name)
	if k == "" {
		return true, nil
	}
	st, err := f.GetFileStatus(ctx, name)
	switch {
	case err == nil && st.IsDir:
		return true, nil
	case err == nil:
		return false, &fs.PathError{Op: "mkdirs", Path: name, Err: vfs.ErrNotDirectory}
	case !errors.Is(err, vfs.ErrNotFound):
		return false, err
	}
	if err := f.bucket.Put(ctx, dirKey(k), strings.NewReader(""), 0); err != nil {
		return false, err
	}
	return true, nil
}

// ListStatus returns the direct children of a directory.
func (f *FileSystem) ListStatus(ctx context.Context, name string) ([]vfs.FileStatus, error) {
	st, err := f.GetFileStatus(ctx, name)
	if err != nil {
		return nil, err
	}
	if !st.IsDir {
		return []vfs.FileStatus{st}, nil
	}

	dk := dirKey(key(name))
	objs, err := f.bucket.List(ctx, dk, false)
	if err != nil {
		return nil, err
	}

	out := make([]vfs.FileStatus, 0, len(objs))
	for _, o := range objs {
		if o.Key == dk {
			// Marker of the listed directory itself.
			continue
		}
		out = append(out, toStatus(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// GetFileStatus resolves name as a file, then as a directory marker, then
// as an implicit directory (a prefix with at least one object).
func (f *FileSystem) GetFileStatus(ctx context.Context, name string) (vfs.FileStatus, error) {
	k := key(name)
	if k == "" {
		return vfs.FileStatus{Path: "/", IsDir: true, Mode: os.ModeDir | 0o755}, nil
	}

	info, err := f.bucket.Stat(ctx, k)
	if err == nil {
		return toStatus(info), nil
	}
	if !errors.Is(err, vfs.ErrNotFound) {
		return vfs.FileStatus{}, err
	}

	info, err = f.bucket.Stat(ctx, dirKey(k))
	if err == nil {
		return toStatus(info), nil
	}
	if !errors.Is(err, vfs.ErrNotFound) {
		return vfs.FileStatus{}, err
	}

	objs, err := f.bucket.List(ctx, dirKey(k), false)
	if err != nil {
		return vfs.FileStatus{}, err
	}
	if len(objs) > 0 {
		return vfs.FileStatus{Path: pathFor(k), IsDir: true, Mode: os.ModeDir | 0o755}, nil
	}
	return vfs.FileStatus{}, &fs.PathError{Op: "stat", Path: name, Err: vfs.ErrNotFound}
}

// Exists reports whether name resolves to a file or directory.
func (f *FileSystem) Exists(ctx context.Context, name string) (bool, error) {
	_, err := f.GetFileStatus(ctx, name)
	if errors.Is(err, vfs.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Close is a no-op; bucket clients hold no per-connection state.
func (f *FileSystem) Close() error {
	return nil
}

func toStatus(o ObjectInfo) vfs.FileStatus {
	isDir := o.IsPrefix || strings.HasSuffix(o.Key, "/")
	st := vfs.FileStatus{
		Path:       pathFor(o.Key),
		IsDir:      isDir,
		ModTime:    o.LastModified,
		AccessTime: o.LastModified,
		Mode:       0o644,
	}
	if isDir {
		st.Mode = os.ModeDir | 0o755
	} else {
		st.Length = o.Size
	}
	return st
}

// writableObject streams writes into a background Put.
type writableObject struct {
	pw     *io.PipeWriter
	done   chan error
	closed atomic.Bool
}

func (w *writableObject) Write(p []byte) (int, error) {
	if w.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return w.pw.Write(p)
}

func (w *writableObject) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return io.ErrClosedPipe
	}
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

var _ vfs.FileSystem = (*FileSystem)(nil)
