//go:build !linux

package vfs

import "os"

func statPath(p string) (FileStatus, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return FileStatus{}, err
	}
	return FileStatus{
		Path:       p,
		Length:     fi.Size(),
		IsDir:      fi.IsDir(),
		ModTime:    fi.ModTime(),
		AccessTime: fi.ModTime(),
		Mode:       fi.Mode(),
	}, nil
}
