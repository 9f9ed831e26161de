package vfs

import (
	"bytes"
	"context"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory FileSystem implementation for testing and dry runs.
// It keeps a flat map of cleaned paths, with directories as explicit nodes.
// Thread-safe for concurrent reads and writes.
type Memory struct {
	mu     sync.RWMutex
	nodes  map[string]*memNode
	append bool
}

type memNode struct {
	dir     bool
	data    []byte
	modTime time.Time
}

// MemoryOption configures a Memory filesystem.
type MemoryOption func(*Memory)

// WithAppendSupport controls whether Append is available.
// When disabled, Append returns ErrUnsupported like most object stores.
func WithAppendSupport(enabled bool) MemoryOption {
	return func(m *Memory) {
		m.append = enabled
	}
}

// NewMemory creates a new in-memory filesystem containing only "/".
func NewMemory(optFns ...MemoryOption) *Memory {
	m := &Memory{
		nodes:  map[string]*memNode{"/": {dir: true, modTime: time.Now()}},
		append: true,
	}
	for _, fn := range optFns {
		fn(m)
	}
	return m
}

// URI returns mem:///.
func (m *Memory) URI() string {
	return "mem:///"
}

// Create creates or truncates a file, creating missing parents.
func (m *Memory) Create(_ context.Context, name string) (File, error) {
	name = Clean(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[name]; ok && n.dir {
		return nil, pathError("create", name, ErrIsDirectory)
	}
	if err := m.mkdirsLocked(path.Dir(name)); err != nil {
		return nil, err
	}
	m.nodes[name] = &memNode{modTime: time.Now()}

	return &memoryFile{fs: m, name: name}, nil
}

// Append opens an existing file for appending.
func (m *Memory) Append(_ context.Context, name string) (File, error) {
	if !m.append {
		return nil, pathError("append", name, ErrUnsupported)
	}
	name = Clean(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[name]
	if !ok {
		return nil, pathError("append", name, ErrNotFound)
	}
	if n.dir {
		return nil, pathError("append", name, ErrIsDirectory)
	}
	return &memoryFile{fs: m, name: name, append: true}, nil
}

// Delete removes a file or directory.
func (m *Memory) Delete(_ context.Context, name string, recursive bool) (bool, error) {
	name = Clean(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[name]
	if !ok {
		return false, nil
	}
	if n.dir {
		children := m.descendantsLocked(name)
		if len(children) > 0 && !recursive {
			return false, pathError("delete", name, ErrDirectoryNotEmpty)
		}
		for _, c := range children {
			delete(m.nodes, c)
		}
	}
	if name != "/" {
		delete(m.nodes, name)
	}
	return true, nil
}

// Rename moves src to dst. The parent of dst must exist.
func (m *Memory) Rename(_ context.Context, src, dst string) (bool, error) {
	src, dst = Clean(src), Clean(dst)

	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[src]
	if !ok || src == "/" {
		return false, nil
	}
	if _, exists := m.nodes[dst]; exists {
		return false, nil
	}
	if p, ok := m.nodes[path.Dir(dst)]; !ok || !p.dir {
		return false, nil
	}
	if strings.HasPrefix(dst, src+"/") {
		return false, nil
	}

	if n.dir {
		for _, c := range m.descendantsLocked(src) {
			m.nodes[dst+strings.TrimPrefix(c, src)] = m.nodes[c]
			delete(m.nodes, c)
		}
	}
	m.nodes[dst] = n
	delete(m.nodes, src)
	return true, nil
}

// Mkdirs creates a directory and all parents.
func (m *Memory) Mkdirs(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mkdirsLocked(Clean(name)); err != nil {
		return false, err
	}
	return true, nil
}

// ListStatus returns the entries of a directory sorted by name.
func (m *Memory) ListStatus(_ context.Context, name string) ([]FileStatus, error) {
	name = Clean(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[name]
	if !ok {
		return nil, pathError("list", name, ErrNotFound)
	}
	if !n.dir {
		return []FileStatus{n.status(name)}, nil
	}

	var out []FileStatus
	for p, c := range m.nodes {
		if p != "/" && path.Dir(p) == name {
			out = append(out, c.status(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// GetFileStatus returns metadata for a single path.
func (m *Memory) GetFileStatus(_ context.Context, name string) (FileStatus, error) {
	name = Clean(name)

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[name]
	if !ok {
		return FileStatus{}, pathError("stat", name, ErrNotFound)
	}
	return n.status(name), nil
}

// Exists reports whether a file or directory exists.
func (m *Memory) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.nodes[Clean(name)]
	return ok, nil
}

// Close is a no-op; contents stay available.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) mkdirsLocked(name string) error {
	if n, ok := m.nodes[name]; ok {
		if !n.dir {
			return pathError("mkdirs", name, ErrNotDirectory)
		}
		return nil
	}
	if err := m.mkdirsLocked(path.Dir(name)); err != nil {
		return err
	}
	m.nodes[name] = &memNode{dir: true, modTime: time.Now()}
	return nil
}

func (m *Memory) descendantsLocked(dir string) []string {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	var out []string
	for p := range m.nodes {
		if p != dir && strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func (n *memNode) status(name string) FileStatus {
	mode := os.FileMode(0o644)
	if n.dir {
		mode = os.ModeDir | 0o755
	}
	return FileStatus{
		Path:       name,
		Length:     int64(len(n.data)),
		IsDir:      n.dir,
		ModTime:    n.modTime,
		AccessTime: n.modTime,
		Mode:       mode,
	}
}

// memoryFile buffers writes and publishes them on Close.
type memoryFile struct {
	fs     *Memory
	name   string
	append bool
	buf    bytes.Buffer
	closed bool
}

func (f *memoryFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *memoryFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	// Copy buffer to store
	data := make([]byte, f.buf.Len())
	copy(data, f.buf.Bytes())

	n, ok := f.fs.nodes[f.name]
	if f.append {
		if !ok || n.dir {
			return pathError("append", f.name, ErrNotFound)
		}
		n.data = append(n.data, data...)
		n.modTime = time.Now()
		return nil
	}
	if ok && n.dir {
		return pathError("create", f.name, ErrIsDirectory)
	}
	f.fs.nodes[f.name] = &memNode{data: data, modTime: time.Now()}
	return nil
}
