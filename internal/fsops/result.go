// Package fsops implements the batch file operations behind the copy,
// move, delete, rename and chmod commands: per-item error capture,
// chunked copies with attribute preservation, secure deletion,
// checksums and duplicate detection.
package fsops

import (
	"fmt"
)

// ItemResult records the outcome of a single path within a batch.
type ItemResult struct {
	Path   string // Source path
	Dest   string // Destination path, when the operation has one
	Err    error  // Non-nil for failed items
	Reason string // Human-readable skip reason
}

// Result aggregates a batch operation. Items land in exactly one of the
// three buckets; Total is the number of input paths and Bytes counts
// bytes processed (copied, moved or freed).
type Result struct {
	Success []ItemResult
	Failed  []ItemResult
	Skipped []ItemResult
	Total   int
	Bytes   int64
}

func (r *Result) addSuccess(item ItemResult) {
	r.Success = append(r.Success, item)
}

func (r *Result) addFailed(path string, err error) {
	r.Failed = append(r.Failed, ItemResult{Path: path, Err: err})
}

func (r *Result) addSkipped(path, reason string) {
	r.Skipped = append(r.Skipped, ItemResult{Path: path, Reason: reason})
}

// AllOK reports whether every item succeeded.
func (r *Result) AllOK() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// Summary returns a one-line outcome description.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped (of %d)",
		len(r.Success), len(r.Failed), len(r.Skipped), r.Total)
}

// FirstError returns the first per-item error, or nil.
func (r *Result) FirstError() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return r.Failed[0].Err
}
