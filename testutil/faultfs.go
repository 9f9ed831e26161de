package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/fsbench/vfs"
)

// Op names a vfs.FileSystem method.
type Op string

// Operations that can be counted and failed.
const (
	OpCreate        Op = "create"
	OpAppend        Op = "append"
	OpDelete        Op = "delete"
	OpRename        Op = "rename"
	OpMkdirs        Op = "mkdirs"
	OpListStatus    Op = "listStatus"
	OpGetFileStatus Op = "getFileStatus"
	OpExists        Op = "exists"
	OpClose         Op = "close"
)

// MutatingOps are the operations that can change file system state.
var MutatingOps = []Op{OpCreate, OpAppend, OpDelete, OpRename, OpMkdirs}

type fault struct {
	path string
	err  error
}

// FaultFS wraps a vfs.FileSystem, counting calls and returning injected
// errors. It is safe for concurrent use.
type FaultFS struct {
	vfs.FileSystem

	mu     sync.Mutex
	faults map[Op][]fault
	calls  map[Op]int
}

// NewFaultFS wraps fsys.
func NewFaultFS(fsys vfs.FileSystem) *FaultFS {
	return &FaultFS{
		FileSystem: fsys,
		faults:     make(map[Op][]fault),
		calls:      make(map[Op]int),
	}
}

// FailOn makes op fail with err for name. An empty name matches every path.
func (f *FaultFS) FailOn(op Op, name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = append(f.faults[op], fault{path: name, err: err})
}

// Clear removes all injected faults.
func (f *FaultFS) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = make(map[Op][]fault)
}

// Calls returns how often op was called.
func (f *FaultFS) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// MutatingCalls returns the total number of calls that may change state.
func (f *FaultFS) MutatingCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int
	for _, op := range MutatingOps {
		n += f.calls[op]
	}
	return n
}

// ResetCalls zeroes all counters.
func (f *FaultFS) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[Op]int)
}

func (f *FaultFS) check(op Op, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	for _, ft := range f.faults[op] {
		if ft.path == "" || vfs.Clean(ft.path) == vfs.Clean(name) {
			return ft.err
		}
	}
	return nil
}

func (f *FaultFS) Create(ctx context.Context, name string) (vfs.File, error) {
	if err := f.check(OpCreate, name); err != nil {
		return nil, err
	}
	return f.FileSystem.Create(ctx, name)
}

func (f *FaultFS) Append(ctx context.Context, name string) (vfs.File, error) {
	if err := f.check(OpAppend, name); err != nil {
		return nil, err
	}
	return f.FileSystem.Append(ctx, name)
}

func (f *FaultFS) Delete(ctx context.Context, name string, recursive bool) (bool, error) {
	if err := f.check(OpDelete, name); err != nil {
		return false, err
	}
	return f.FileSystem.Delete(ctx, name, recursive)
}

func (f *FaultFS) Rename(ctx context.Context, src, dst string) (bool, error) {
	if err := f.check(OpRename, src); err != nil {
		return false, err
	}
	return f.FileSystem.Rename(ctx, src, dst)
}

func (f *FaultFS) Mkdirs(ctx context.Context, name string) (bool, error) {
	if err := f.check(OpMkdirs, name); err != nil {
		return false, err
	}
	return f.FileSystem.Mkdirs(ctx, name)
}

func (f *FaultFS) ListStatus(ctx context.Context, name string) ([]vfs.FileStatus, error) {
	if err := f.check(OpListStatus, name); err != nil {
		return nil, err
	}
	return f.FileSystem.ListStatus(ctx, name)
}

func (f *FaultFS) GetFileStatus(ctx context.Context, name string) (vfs.FileStatus, error) {
	if err := f.check(OpGetFileStatus, name); err != nil {
		return vfs.FileStatus{}, err
	}
	return f.FileSystem.GetFileStatus(ctx, name)
}

func (f *FaultFS) Exists(ctx context.Context, name string) (bool, error) {
	if err := f.check(OpExists, name); err != nil {
		return false, err
	}
	return f.FileSystem.Exists(ctx, name)
}

func (f *FaultFS) Close() error {
	if err := f.check(OpClose, ""); err != nil {
		return err
	}
	return f.FileSystem.Close()
}

var _ vfs.FileSystem = (*FaultFS)(nil)
