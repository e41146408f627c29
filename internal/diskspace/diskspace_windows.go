//go:build windows

package diskspace

import (
	"golang.org/x/sys/windows"
)

// GetUsage returns disk usage for the volume containing path. The path
// must exist.
func GetUsage(path string) (Usage, error) {
	var available, total, free uint64
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Usage{}, err
	}
	if err := windows.GetDiskFreeSpaceEx(pathPtr, &available, &total, &free); err != nil {
		return Usage{}, err
	}

	return Usage{
		Total:     int64(total),
		Free:      int64(free),
		Available: int64(available),
	}, nil
}
