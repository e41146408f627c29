// Package diskspace provides disk usage queries and free-space checks
// across operating systems. The batch engine uses it to refuse copies
// that would fill the target filesystem, and the panes use it for the
// footer readout.
package diskspace

import (
	"fmt"
	"path/filepath"

	"github.com/westy/filemaster/internal/constants"
)

// InsufficientSpaceError indicates that there is not enough disk space available.
type InsufficientSpaceError struct {
	Path           string
	RequiredBytes  int64
	AvailableBytes int64
}

func (e *InsufficientSpaceError) Error() string {
	requiredMB := float64(e.RequiredBytes) / (1024 * 1024)
	availableMB := float64(e.AvailableBytes) / (1024 * 1024)
	return fmt.Sprintf("insufficient disk space for %s: need %.2f MB, have %.2f MB available",
		e.Path, requiredMB, availableMB)
}

// IsInsufficientSpaceError checks if an error is an InsufficientSpaceError.
func IsInsufficientSpaceError(err error) bool {
	_, ok := err.(*InsufficientSpaceError)
	return ok
}

// Usage describes the filesystem holding a path.
type Usage struct {
	Total     int64 // Total size in bytes
	Free      int64 // Free bytes (including root-reserved blocks)
	Available int64 // Bytes available to unprivileged users
}

// Used returns the number of used bytes.
func (u Usage) Used() int64 {
	return u.Total - u.Free
}

// UsedPercent returns used space as a percentage of total, 0 for an
// empty or unknown filesystem.
func (u Usage) UsedPercent() float64 {
	if u.Total == 0 {
		return 0
	}
	return float64(u.Used()) / float64(u.Total) * 100
}

// CheckAvailableSpace checks if there is sufficient disk space available
// for a file operation on the filesystem where targetPath will be created.
// The safety margin is a multiplier on requiredBytes (e.g. 1.1 for a 10%
// buffer). targetPath itself may not exist yet; its parent directory is
// statted instead.
//
// Returns an InsufficientSpaceError if there is not enough space.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	usage, err := GetUsage(filepath.Dir(targetPath))
	if err != nil {
		// If we can't stat the filesystem we can't reliably check space.
		// Let the operation proceed and fail naturally if needed; this
		// covers network and virtual filesystems.
		return nil
	}

	requiredWithMargin := int64(float64(requiredBytes) * safetyMargin)
	if usage.Available < requiredWithMargin {
		return &InsufficientSpaceError{
			Path:           targetPath,
			RequiredBytes:  requiredWithMargin,
			AvailableBytes: usage.Available,
		}
	}
	return nil
}

// CheckSpaceForCopy applies the default safety margin used by the batch
// copy and move paths.
func CheckSpaceForCopy(targetPath string, requiredBytes int64) error {
	return CheckAvailableSpace(targetPath, requiredBytes, constants.DiskSpaceSafetyMargin)
}

// GetAvailableSpace returns the available space in bytes for the
// filesystem containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	usage, err := GetUsage(filepath.Dir(path))
	if err != nil {
		return 0
	}
	return usage.Available
}
