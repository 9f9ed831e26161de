package fsbench

import (
	"path"
	"strconv"
	"time"

	"github.com/hupe1980/fsbench/vfs"
)

// RootPrefix starts the name of every run root.
const RootPrefix = "fs-benchmark-"

// FixturePaths maps each fixture role to its path. All paths live under Root.
type FixturePaths struct {
	Root         string
	Create       string
	List         string
	DeleteTarget string
	AppendTarget string
	RenameSource string
	RenameTarget string
	Mkdirs       string
	StatTarget   string
	ProbeScratch string
}

// NewFixturePaths derives the fixture layout for one run:
// <baseDir>/fs-benchmark-<unix-millis>[-<runID>].
func NewFixturePaths(baseDir string, ts time.Time, runID string) FixturePaths {
	name := RootPrefix + strconv.FormatInt(ts.UnixMilli(), 10)
	if runID != "" {
		name += "-" + runID
	}
	root := path.Join(vfs.Clean(baseDir), name)

	return FixturePaths{
		Root:         root,
		Create:       path.Join(root, "test-create"),
		List:         path.Join(root, "test-list"),
		DeleteTarget: path.Join(root, "delete-file"),
		AppendTarget: path.Join(root, "append-file"),
		RenameSource: path.Join(root, "rename-source-file"),
		RenameTarget: path.Join(root, "rename-target-file"),
		Mkdirs:       path.Join(root, "mkdirs-test-dir"),
		StatTarget:   path.Join(root, "test-file-status"),
		ProbeScratch: path.Join(root, "append-support-test"),
	}
}

// ListMarker returns the path of the i-th marker file in the list directory.
func (p FixturePaths) ListMarker(i int) string {
	return path.Join(p.List, "list-file-"+strconv.Itoa(i))
}
