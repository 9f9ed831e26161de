package vfs

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Local implements FileSystem using the local file system.
type Local struct {
	root string
}

// NewLocal creates a new Local filesystem rooted at the given directory.
// An empty root resolves paths against the OS root, like file:///.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) toLocal(name string) string {
	if l.root == "" {
		return filepath.FromSlash(name)
	}
	return filepath.Join(l.root, filepath.FromSlash(Clean(name)))
}

// URI returns file:// followed by the root.
func (l *Local) URI() string {
	if l.root == "" {
		return "file:///"
	}
	return "file://" + filepath.ToSlash(l.root)
}

// Create creates or truncates a file, creating missing parents.
func (l *Local) Create(_ context.Context, name string) (File, error) {
	p := l.toLocal(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Append opens an existing file for appending.
func (l *Local) Append(_ context.Context, name string) (File, error) {
	f, err := os.OpenFile(l.toLocal(name), os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a file or directory.
func (l *Local) Delete(_ context.Context, name string, recursive bool) (bool, error) {
	p := l.toLocal(name)
	fi, err := os.Lstat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if fi.IsDir() {
		if recursive {
			return true, os.RemoveAll(p)
		}
		empty, err := isEmptyDir(p)
		if err != nil {
			return false, err
		}
		if !empty {
			return false, pathError("delete", name, ErrDirectoryNotEmpty)
		}
	}
	if err := os.Remove(p); err != nil {
		return false, err
	}
	return true, nil
}

// Rename moves src to dst.
func (l *Local) Rename(_ context.Context, src, dst string) (bool, error) {
	s, d := l.toLocal(src), l.toLocal(dst)
	if _, err := os.Lstat(s); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if _, err := os.Lstat(d); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.Rename(s, d); err != nil {
		return false, err
	}
	return true, nil
}

// Mkdirs creates a directory and all parents.
func (l *Local) Mkdirs(_ context.Context, name string) (bool, error) {
	if err := os.MkdirAll(l.toLocal(name), 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// ListStatus returns the entries of a directory sorted by name.
func (l *Local) ListStatus(_ context.Context, name string) ([]FileStatus, error) {
	p := l.toLocal(name)
	st, err := statPath(p)
	if err != nil {
		return nil, err
	}
	if !st.IsDir {
		st.Path = name
		return []FileStatus{st}, nil
	}

	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}

	out := make([]FileStatus, 0, len(entries))
	for _, e := range entries {
		es, err := statPath(filepath.Join(p, e.Name()))
		if errors.Is(err, os.ErrNotExist) {
			// Removed between ReadDir and stat.
			continue
		}
		if err != nil {
			return nil, err
		}
		es.Path = path.Join(name, e.Name())
		out = append(out, es)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// GetFileStatus returns metadata for a single path.
func (l *Local) GetFileStatus(_ context.Context, name string) (FileStatus, error) {
	st, err := statPath(l.toLocal(name))
	if err != nil {
		return FileStatus{}, err
	}
	st.Path = name
	return st, nil
}

// Exists reports whether a file or directory exists.
func (l *Local) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Lstat(l.toLocal(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Close is a no-op for the local filesystem.
func (l *Local) Close() error {
	return nil
}

func isEmptyDir(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
