//go:build !windows

package diskspace

import (
	"golang.org/x/sys/unix"
)

// GetUsage returns disk usage for the filesystem containing path. The
// path must exist.
func GetUsage(path string) (Usage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Usage{}, err
	}

	bsize := int64(stat.Bsize)
	return Usage{
		Total:     int64(stat.Blocks) * bsize,
		Free:      int64(stat.Bfree) * bsize,
		Available: int64(stat.Bavail) * bsize,
	}, nil
}
