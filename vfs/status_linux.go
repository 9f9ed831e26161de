//go:build linux

package vfs

import (
	"io/fs"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// statPath reads the full stat record so that block size and ownership are
// reported alongside the usual fields.
func statPath(p string) (FileStatus, error) {
	var st unix.Stat_t
	if err := unix.Stat(p, &st); err != nil {
		return FileStatus{}, pathError("stat", p, err)
	}

	isDir := st.Mode&unix.S_IFMT == unix.S_IFDIR
	mode := fs.FileMode(st.Mode & 0o777)
	if isDir {
		mode |= fs.ModeDir
	}

	return FileStatus{
		Path:       p,
		Length:     st.Size,
		IsDir:      isDir,
		ModTime:    time.Unix(st.Mtim.Unix()),
		AccessTime: time.Unix(st.Atim.Unix()),
		BlockSize:  int64(st.Blksize),
		Mode:       mode,
		Owner:      strconv.FormatUint(uint64(st.Uid), 10),
		Group:      strconv.FormatUint(uint64(st.Gid), 10),
	}, nil
}
